package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	Refresh   key.Binding
	Escape    key.Binding

	// Navigation
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding

	// Signal actions
	Confirm       key.Binding
	Reject        key.Binding
	Delete        key.Binding
	MarkProcessed key.Binding
	DeleteAll     key.Binding
	CycleFilter   key.Binding

	// Forms and jobs
	Add           key.Binding
	RunScrape     key.Binding
	RunTrade      key.Binding
	RunCycle      key.Binding
	StopJobs      key.Binding
	CycleLevels   key.Binding
	UpdateCookies key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev page"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n/→", "next page of results"),
		),
		Prev: key.NewBinding(
			key.WithKeys("b", "left"),
			key.WithHelp("b/←", "prev page of results"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "confirm trade"),
		),
		Reject: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reject"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		MarkProcessed: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "mark processed"),
		),
		DeleteAll: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "bulk delete"),
		),
		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle filter"),
		),

		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		RunScrape: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "run scraper"),
		),
		RunTrade: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "run trader"),
		),
		RunCycle: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "run full cycle"),
		),
		StopJobs: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "stop running jobs"),
		),
		CycleLevels: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle level filter"),
		),
		UpdateCookies: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "update cookies"),
		),
	}
}
