package tui

import tea "github.com/charmbracelet/bubbletea"

// App is the top-level Bubble Tea model that routes between pages. Key
// presses go to the active page only; every other message reaches all pages
// so that background pages keep their timers and fetches alive.
type App struct {
	pages      map[string]Page
	order      []string
	activePage string
	width      int
	height     int
}

// NewApp creates a new App with the given pages. The first page is the default.
func NewApp(pages ...Page) *App {
	a := &App{pages: make(map[string]Page, len(pages))}
	for _, p := range pages {
		a.pages[p.ID()] = p
		a.order = append(a.order, p.ID())
	}
	if len(a.order) > 0 {
		a.activePage = a.order[0]
	}
	return a
}

func (a *App) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(a.order))
	for _, id := range a.order {
		cmds = append(cmds, a.pages[id].Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		p, ok := a.pages[a.activePage]
		if !ok {
			return a, nil
		}
		cmd, nav := p.Update(msg)
		if nav != nil {
			if _, exists := a.pages[nav.PageID]; exists {
				a.activePage = nav.PageID
			}
		}
		return a, cmd
	}

	cmds := make([]tea.Cmd, 0, len(a.order))
	for _, id := range a.order {
		cmd, _ := a.pages[id].Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) View() string {
	if p, ok := a.pages[a.activePage]; ok {
		return p.View(a.width, a.height)
	}
	return "No active page"
}

// ActivePage returns the id of the page being shown.
func (a *App) ActivePage() string { return a.activePage }
