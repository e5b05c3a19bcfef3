package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// App is the top-level Bubble Tea model that routes between pages. It owns
// the global key bindings (quit, page switching) and the tab bar; everything
// else is delegated to the active page.
type App struct {
	pages  []Page
	active int
	keys   KeyMap
	width  int
	height int
}

// NewApp creates an App with the given pages. The first page is the default.
func NewApp(pages ...Page) *App {
	return &App{pages: pages, keys: DefaultKeyMap()}
}

func (a *App) Init() tea.Cmd {
	if len(a.pages) == 0 {
		return nil
	}
	return a.pages[a.active].Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(a.pages) == 0 {
		return a, nil
	}
	page := a.pages[a.active]

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Every page tracks dimensions, not just the active one.
		var cmds []tea.Cmd
		for _, p := range a.pages {
			cmd, _ := p.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		if !page.CapturingInput() {
			switch {
			case key.Matches(msg, a.keys.Quit), key.Matches(msg, a.keys.ForceQuit):
				page.Blur()
				return a, tea.Quit
			case key.Matches(msg, a.keys.NextPage):
				return a, a.switchTo((a.active + 1) % len(a.pages))
			case key.Matches(msg, a.keys.PrevPage):
				return a, a.switchTo((a.active - 1 + len(a.pages)) % len(a.pages))
			}
			if idx, ok := pageDigit(msg.String()); ok && idx < len(a.pages) {
				return a, a.switchTo(idx)
			}
		} else if key.Matches(msg, a.keys.ForceQuit) {
			page.Blur()
			return a, tea.Quit
		}
	}

	cmd, nav := page.Update(msg)
	if nav != nil {
		for i, p := range a.pages {
			if p.ID() == nav.PageID {
				return a, tea.Batch(cmd, a.switchTo(i))
			}
		}
	}
	return a, cmd
}

func (a *App) View() string {
	if len(a.pages) == 0 || a.width <= 0 || a.height <= 0 {
		return "Initializing..."
	}
	if a.width < 60 || a.height < 15 {
		return "Terminal too small. Resize to at least 60x15."
	}
	tabs := a.renderTabs()
	body := a.pages[a.active].View(a.width, a.height-lipgloss.Height(tabs))
	return lipgloss.JoinVertical(lipgloss.Left, tabs, body)
}

// switchTo blurs the old page and initializes the new one.
func (a *App) switchTo(idx int) tea.Cmd {
	if idx == a.active || idx < 0 || idx >= len(a.pages) {
		return nil
	}
	a.pages[a.active].Blur()
	a.active = idx
	return a.pages[a.active].Init()
}

func (a *App) renderTabs() string {
	items := make([]string, 0, len(a.pages))
	for i, p := range a.pages {
		label := labelForTab(i, p.Title())
		if i == a.active {
			items = append(items, activeTabStyle.Render(label))
		} else {
			items = append(items, tabStyle.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, items...)
	return tabBarStyle.Width(a.width).Render(bar)
}

func labelForTab(i int, title string) string {
	return " " + string(rune('1'+i)) + ":" + title + " "
}

func pageDigit(s string) (int, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}
