package tui

import tea "github.com/charmbracelet/bubbletea"

// Page is a top-level screen in the TUI (signals, trades, portfolio, ...).
// A page owns its pollers: Init starts them when the page becomes active,
// Blur stops them when it is navigated away from.
type Page interface {
	ID() string
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
	// Blur is called when the page is deactivated; it must stop polling
	// synchronously so no ticker fires against a torn-down view.
	Blur()
	// CapturingInput reports whether the page currently owns the keyboard
	// (e.g. a text input or modal is open), suppressing global bindings.
	CapturingInput() bool
}

// PageNav is returned from Update to request a page switch.
type PageNav struct {
	PageID string
}
