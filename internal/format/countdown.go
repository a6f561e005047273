package format

import (
	"fmt"
	"math"
	"time"
)

// ETANow is shown once an arrival's remaining time reaches zero.
const ETANow = "Now"

// Remaining returns the seconds left of base after the time elapsed since
// fetchedAt, floored to whole seconds.
func Remaining(base int, fetchedAt, now time.Time) int {
	elapsedMs := now.Sub(fetchedAt).Milliseconds()
	elapsed := int(math.Floor(float64(elapsedMs) / 1000))
	return base - elapsed
}

// ETALabel turns remaining seconds into "Now", "<m> min" or "<h> Hrs".
// Minutes and hours both round up.
func ETALabel(remaining int) string {
	if remaining <= 0 {
		return ETANow
	}
	minutes := ceilDiv(remaining, 60)
	if minutes >= 60 {
		return fmt.Sprintf("%d Hrs", ceilDiv(minutes, 60))
	}
	return fmt.Sprintf("%d min", minutes)
}

// Countdown is ETALabel(Remaining(base, fetchedAt, now)).
func Countdown(base int, fetchedAt, now time.Time) string {
	return ETALabel(Remaining(base, fetchedAt, now))
}

// Clock renders the board clock as HH:MM.
func Clock(now time.Time) string {
	return now.Format("15:04")
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
