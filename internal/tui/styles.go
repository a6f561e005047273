package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/signboard/internal/model"
)

type palette struct {
	accent    lipgloss.Color
	text      lipgloss.Color
	muted     lipgloss.Color
	border    lipgloss.Color
	highlight lipgloss.Color
	warn      lipgloss.Color
}

var palettes = map[model.Theme]palette{
	model.ThemePurple: {
		accent:    lipgloss.Color("#A78BFA"),
		text:      lipgloss.Color("#F5F3FF"),
		muted:     lipgloss.Color("#8B7FB8"),
		border:    lipgloss.Color("#5B21B6"),
		highlight: lipgloss.Color("#FDE68A"),
		warn:      lipgloss.Color("#F87171"),
	},
	model.ThemeAmber: {
		accent:    lipgloss.Color("#F59E0B"),
		text:      lipgloss.Color("#FFFBEB"),
		muted:     lipgloss.Color("#B4883A"),
		border:    lipgloss.Color("#92400E"),
		highlight: lipgloss.Color("#FFFFFF"),
		warn:      lipgloss.Color("#EF4444"),
	},
	model.ThemeDark: {
		accent:    lipgloss.Color("#60A5FA"),
		text:      lipgloss.Color("#E5E7EB"),
		muted:     lipgloss.Color("#6B7280"),
		border:    lipgloss.Color("#374151"),
		highlight: lipgloss.Color("#FACC15"),
		warn:      lipgloss.Color("#F87171"),
	},
}

// boardStyles are the lipgloss styles for one theme.
type boardStyles struct {
	header      lipgloss.Style
	clock       lipgloss.Style
	panel       lipgloss.Style
	panelTitle  lipgloss.Style
	columnHead  lipgloss.Style
	row         lipgloss.Style
	rowPulse    lipgloss.Style
	muted       lipgloss.Style
	placeholder lipgloss.Style
	notice      lipgloss.Style
	live        lipgloss.Style
}

func newBoardStyles(theme model.Theme) boardStyles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[model.DefaultTheme]
	}
	return boardStyles{
		header:      lipgloss.NewStyle().Bold(true).Foreground(p.accent).Padding(0, 1),
		clock:       lipgloss.NewStyle().Bold(true).Foreground(p.text).Padding(0, 1),
		panel:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(0, 1),
		panelTitle:  lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		columnHead:  lipgloss.NewStyle().Foreground(p.muted).Underline(true),
		row:         lipgloss.NewStyle().Foreground(p.text),
		rowPulse:    lipgloss.NewStyle().Foreground(p.highlight).Bold(true),
		muted:       lipgloss.NewStyle().Foreground(p.muted),
		placeholder: lipgloss.NewStyle().Foreground(p.muted).Italic(true),
		notice:      lipgloss.NewStyle().Foreground(p.warn).Bold(true),
		live:        lipgloss.NewStyle().Foreground(p.accent),
	}
}
