package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// renderLoadingPlaceholder renders the bootstrap indicator. The frame is
// picked from now so it advances on every re-render.
func renderLoadingPlaceholder(st boardStyles, width, height int, now time.Time) string {
	frame := spinnerFrames[now.UnixMilli()/120%int64(len(spinnerFrames))]
	text := st.placeholder.Render(frame + " Loading board...")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}
