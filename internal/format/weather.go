package format

import (
	"strconv"
	"strings"
	"time"
)

const missing = "--"

// IconKind is the pictogram family chosen for a weather icon code.
type IconKind string

const (
	IconClear   IconKind = "clear"
	IconClouds  IconKind = "clouds"
	IconRain    IconKind = "rain"
	IconThunder IconKind = "thunder"
	IconSnow    IconKind = "snow"
)

// Temp renders a Celsius value with one decimal, dropping a trailing ".0".
func Temp(v *float64) string {
	if v == nil {
		return missing
	}
	label := strconv.FormatFloat(*v, 'f', 1, 64)
	label = strings.TrimSuffix(label, ".0")
	if label == "-0" {
		label = "0"
	}
	return label + "°C"
}

// FeelsLike renders the apparent temperature line.
func FeelsLike(v *float64) string {
	return "Feels " + Temp(v)
}

// Humidity renders the relative humidity line.
func Humidity(pct *int) string {
	if pct == nil {
		return "Humidity " + missing + "%"
	}
	return "Humidity " + strconv.Itoa(*pct) + "%"
}

// Wind renders the wind speed line.
func Wind(mps *float64) string {
	if mps == nil {
		return "Wind " + missing
	}
	return "Wind " + strconv.FormatFloat(*mps, 'f', -1, 64) + " m/s"
}

// Description falls back to "--" for an empty description.
func Description(s string) string {
	if strings.TrimSpace(s) == "" {
		return missing
	}
	return s
}

const naiveLayout = "2006-01-02T15:04:05.999999999"

// UpdatedAt renders the observation time of a snapshot in loc. Missing or
// unparseable timestamps render as "Updated --".
func UpdatedAt(raw string, stale bool, loc *time.Location) string {
	if raw == "" {
		return "Updated " + missing
	}
	if loc == nil {
		loc = time.Local
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Timestamps without an offset are wall time in loc.
		parsed, err = time.ParseInLocation(naiveLayout, raw, loc)
		if err != nil {
			return "Updated " + missing
		}
	}
	parsed = parsed.In(loc)
	label := "Updated " + parsed.Format("15:04")
	if stale {
		label += " (stale)"
	}
	return label
}

// Icon maps an OpenWeather-style icon code ("01d", "10n", ...) to a kind.
// Unknown codes are shown as clouds.
func Icon(code string) IconKind {
	prefix := code
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	switch prefix {
	case "01":
		return IconClear
	case "02", "03", "04":
		return IconClouds
	case "09", "10":
		return IconRain
	case "11":
		return IconThunder
	case "13":
		return IconSnow
	}
	return IconClouds
}

// Glyph is the terminal pictogram for an icon kind. Clear skies at night use
// the moon.
func Glyph(kind IconKind, isNight bool) string {
	switch kind {
	case IconClear:
		if isNight {
			return "☾"
		}
		return "☀"
	case IconRain:
		return "☂"
	case IconThunder:
		return "⚡"
	case IconSnow:
		return "❄"
	}
	return "☁"
}
