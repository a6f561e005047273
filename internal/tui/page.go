package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Page represents a top-level screen in the TUI.
type Page interface {
	ID() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// PageNav is returned from Update to request a page switch.
type PageNav struct {
	PageID string
}

const (
	boardPageID = "board"
	helpPageID  = "help"
)

// BoardPage shows the signage board.
type BoardPage struct {
	board *BoardModel
}

func NewBoardPage(board *BoardModel) *BoardPage {
	return &BoardPage{board: board}
}

func (p *BoardPage) ID() string    { return boardPageID }
func (p *BoardPage) Init() tea.Cmd { return p.board.Init() }

func (p *BoardPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, p.board.keys.Help) {
		return nil, &PageNav{PageID: helpPageID}
	}
	_, cmd := p.board.Update(msg)
	return cmd, nil
}

func (p *BoardPage) View(_, _ int) string { return p.board.View() }

// HelpPage lists every key binding.
type HelpPage struct {
	keys KeyMap
	help help.Model
}

func NewHelpPage() *HelpPage {
	h := help.New()
	h.ShowAll = true
	return &HelpPage{keys: DefaultKeyMap(), help: h}
}

func (p *HelpPage) ID() string    { return helpPageID }
func (p *HelpPage) Init() tea.Cmd { return nil }

func (p *HelpPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, nil
	}
	switch {
	case key.Matches(km, p.keys.ForceQuit):
		return tea.Quit, nil
	case key.Matches(km, p.keys.Help), key.Matches(km, p.keys.Escape), key.Matches(km, p.keys.Quit):
		return nil, &PageNav{PageID: boardPageID}
	}
	return nil, nil
}

func (p *HelpPage) View(width, height int) string {
	title := lipgloss.NewStyle().Bold(true).Render("Keys")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		title+"\n\n"+p.help.View(p.keys))
}
