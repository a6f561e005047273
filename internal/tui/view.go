package tui

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/signboard/internal/arrivals"
	"github.com/tinytelemetry/signboard/internal/embed"
	"github.com/tinytelemetry/signboard/internal/model"
	"github.com/tinytelemetry/signboard/internal/rotation"
)

const (
	defaultWidth  = 100
	defaultHeight = 30

	colLine = 6
	colStop = 8
	colETA  = 7
)

type boardLayout struct {
	vertical  bool
	width     int
	height    int
	arrivalsW int
	sideW     int
	menuBodyH int
}

func (m *BoardModel) computeLayout() boardLayout {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}

	// header, status line, and a weather strip when shown
	reserved := 2
	if m.weatherShown() {
		reserved += 4
	}
	bodyH := max(h-reserved, 6)

	l := boardLayout{width: w, height: h}
	video := 0
	if m.embed.Visible() {
		video = 5
	}
	if m.layout() == model.LayoutVertical {
		l.vertical = true
		l.arrivalsW = w
		l.sideW = w
		l.menuBodyH = bodyH/2 - 3 - video
	} else {
		l.arrivalsW = w * 55 / 100
		l.sideW = w - l.arrivalsW
		l.menuBodyH = bodyH - 3 - video
	}
	l.menuBodyH = max(l.menuBodyH, 3)
	return l
}

// resize fits the menu viewport to the current layout.
func (m *BoardModel) resize() {
	l := m.computeLayout()
	m.menuView.Width = max(l.sideW-4, 10)
	m.menuView.Height = l.menuBodyH
}

func (m *BoardModel) View() string {
	st := newBoardStyles(m.theme())
	l := m.computeLayout()

	header := m.renderHeader(st, l.width)

	arrivalsPanel := m.renderArrivals(st, l.arrivalsW)
	side := []string{m.renderMenu(st, l.sideW, l.menuBodyH)}
	if m.embed.Visible() {
		side = append(side, m.renderVideo(st, l.sideW))
	}
	sideColumn := lipgloss.JoinVertical(lipgloss.Left, side...)

	var body string
	if l.vertical {
		body = lipgloss.JoinVertical(lipgloss.Left, arrivalsPanel, sideColumn)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, arrivalsPanel, sideColumn)
	}

	parts := []string{header, body}
	if m.weatherShown() {
		parts = append(parts, m.renderWeather(st, l.width))
	}
	parts = append(parts, m.renderStatus(st, l.width))

	return lipgloss.NewStyle().MaxWidth(l.width).MaxHeight(l.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m *BoardModel) renderHeader(st boardStyles, width int) string {
	title := model.DefaultBoardHeaderText
	if m.cfg != nil {
		title = m.cfg.HeaderText()
	}
	left := st.header.Render(title)
	if m.cfg != nil && m.cfg.TenantName != "" {
		left += st.muted.Render(m.cfg.TenantName)
	}
	right := st.clock.Render(m.clockText())
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m *BoardModel) renderArrivals(st boardStyles, width int) string {
	inner := max(width-4, 20)
	destW := max(inner-colLine-colStop-colETA-3, 8)

	var b strings.Builder
	b.WriteString(st.panelTitle.Render("Arrivals"))
	b.WriteString("\n")
	b.WriteString(st.columnHead.Render(arrivalLine("Line", "Destination", "Stop", "ETA", destW)))

	rows := m.table.Rows()
	if len(rows) == 0 {
		b.WriteString("\n")
		if m.phase == model.PhaseRunning {
			b.WriteString(st.placeholder.Render("No upcoming arrivals"))
		} else {
			b.WriteString(st.placeholder.Render("--"))
		}
	}
	now := m.now()
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(renderRow(st, r, destW, now))
	}

	return st.panel.Width(width - 2).Render(b.String())
}

func renderRow(st boardStyles, r *arrivals.Row, destW int, now time.Time) string {
	line := arrivalLine(r.Line, r.Destination, r.Stop, r.Label, destW)
	if r.Pulsing(now, pulseWindow) {
		return st.rowPulse.Render(line)
	}
	return st.row.Render(line)
}

func arrivalLine(line, dest, stop, eta string, destW int) string {
	return fit(line, colLine) + " " + fit(dest, destW) + " " + fit(stop, colStop) + " " + fitRight(eta, colETA)
}

func (m *BoardModel) renderMenu(st boardStyles, width, bodyH int) string {
	title := model.DefaultMenuTitle
	if m.menu != nil {
		title = m.menu.DisplayTitle()
	}
	inner := max(width-4, 10)

	var body string
	switch {
	case m.phase == model.PhaseFailed:
		body = st.row.Width(inner).Render(m.failure)
	case m.phase == model.PhaseBootstrapping && m.menu == nil:
		body = renderLoadingPlaceholder(st, inner, bodyH, m.now())
	case m.rotator.Current() == rotation.ViewImage && m.menu != nil && m.menu.HasFeaturedImage():
		img := st.panelTitle.Render("▣ Featured image") + "\n" + st.muted.Render(fit(m.menu.FeaturedImageURL, inner))
		body = lipgloss.Place(inner, bodyH, lipgloss.Center, lipgloss.Center, img)
	default:
		body = m.menuView.View()
	}

	return st.panel.Width(width - 2).Render(st.panelTitle.Render(title) + "\n" + body)
}

func (m *BoardModel) renderVideo(st boardStyles, width int) string {
	inner := max(width-4, 10)
	var body string
	switch m.embed.State() {
	case embed.StateLoading:
		body = st.placeholder.Render("◌ Loading video...")
	case embed.StateLoaded:
		body = st.live.Render("▶ Now playing") + "\n" + st.muted.Render(fit(embed.WatchURL(m.embed.AppliedURL()), inner))
	case embed.StateInvalidURL, embed.StateError:
		body = st.placeholder.Render(m.embed.Placeholder())
	}
	return st.panel.Width(width - 2).Render(st.panelTitle.Render("Video") + "\n" + body)
}

func (m *BoardModel) renderStatus(st boardStyles, width int) string {
	var left string
	switch {
	case m.phase == model.PhaseFailed:
		left = st.notice.Render(m.failure)
	case m.notice() != "":
		left = st.notice.Render("! " + m.notice())
	case m.phase == model.PhaseBootstrapping:
		left = st.muted.Render("Connecting...")
	default:
		left = st.live.Render("● live")
	}
	right := m.help.View(m.keys)
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// fit truncates s to w runes, marking the cut with an ellipsis, and pads the
// rest with spaces.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	n := utf8.RuneCountInString(s)
	if n > w {
		r := []rune(s)
		return string(r[:w-1]) + "…"
	}
	return s + strings.Repeat(" ", w-n)
}

func fitRight(s string, w int) string {
	n := utf8.RuneCountInString(s)
	if n >= w {
		return fit(s, w)
	}
	return strings.Repeat(" ", w-n) + s
}
