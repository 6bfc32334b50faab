package tui

import tea "github.com/charmbracelet/bubbletea"

// App is the top-level Bubble Tea model that routes between pages.
type App struct {
	pages      []Page
	activePage int
	width      int
	height     int
}

// NewApp creates a new App with the given pages. The first page is the default.
func NewApp(pages ...Page) *App {
	return &App{pages: pages}
}

func (a *App) active() Page {
	if a.activePage < 0 || a.activePage >= len(a.pages) {
		return nil
	}
	return a.pages[a.activePage]
}

func (a *App) Init() tea.Cmd {
	if p := a.active(); p != nil {
		return p.Init()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height
	}

	p := a.active()
	if p == nil {
		return a, nil
	}

	cmd, nav := p.Update(msg)
	if nav == nil {
		return a, cmd
	}
	for i, candidate := range a.pages {
		if candidate.ID() == nav.PageID && i != a.activePage {
			a.activePage = i
			return a, tea.Batch(cmd, candidate.Init())
		}
	}
	return a, cmd
}

func (a *App) View() string {
	if p := a.active(); p != nil {
		return p.View(a.width, a.height)
	}
	return "No active page"
}

// Close releases every page that owns resources. Safe to call more than once.
func (a *App) Close() {
	for _, p := range a.pages {
		if c, ok := p.(Closer); ok {
			c.Close()
		}
	}
}
