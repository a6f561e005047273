package tui

import (
	"slices"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/signboard/internal/format"
)

const trendHeight = 2

func (m *BoardModel) renderWeather(st boardStyles, width int) string {
	w := m.weather
	var line1, line2 string
	if w == nil {
		line1 = st.muted.Render(format.Temp(nil) + "  " + format.Description(""))
		line2 = st.muted.Render(strings.Join([]string{
			format.FeelsLike(nil),
			format.Humidity(nil),
			format.Wind(nil),
			format.UpdatedAt("", false, m.loc),
		}, " · "))
	} else {
		glyph := format.Glyph(format.Icon(w.IconCode), w.IsNight)
		line1 = st.panelTitle.Render(glyph+" "+format.Temp(w.TempC)) + "  " + st.row.Render(format.Description(w.Description))
		line2 = st.muted.Render(strings.Join([]string{
			format.FeelsLike(w.FeelsLikeC),
			format.Humidity(w.HumidityPct),
			format.Wind(w.WindMps),
			format.UpdatedAt(w.UpdatedAt, w.Stale, m.loc),
		}, " · "))
	}
	if m.weatherUpdating() {
		line1 += st.placeholder.Render("  ↻ updating")
	}

	text := line1 + "\n" + line2
	if trend := renderTempTrend(st, m.tempHistory); trend != "" {
		gap := max(width-4-lipgloss.Width(text)-lipgloss.Width(trend), 1)
		text = lipgloss.JoinHorizontal(lipgloss.Top, text, strings.Repeat(" ", gap), trend)
	}
	return st.panel.Width(width - 2).Render(text)
}

// renderTempTrend draws recent temperatures as bars, shifted so the coldest
// reading still shows.
func renderTempTrend(st boardStyles, history []float64) string {
	if len(history) < 2 {
		return ""
	}
	lo := slices.Min(history)

	bc := barchart.New(len(history), trendHeight,
		barchart.WithBarGap(0),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)
	style := st.live
	for _, t := range history {
		bc.Push(barchart.BarData{
			Values: []barchart.BarValue{{Name: "temp", Value: t - lo + 1, Style: style}},
		})
	}
	bc.Draw()
	return bc.View()
}
