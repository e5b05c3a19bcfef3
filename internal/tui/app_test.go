package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// fakePage records lifecycle calls so tests can assert that switching pages
// starts the new poller and stops the old one.
type fakePage struct {
	id        string
	inits     int
	blurs     int
	capturing bool
	lastMsg   tea.Msg
}

func (f *fakePage) ID() string           { return f.id }
func (f *fakePage) Title() string        { return f.id }
func (f *fakePage) Init() tea.Cmd        { f.inits++; return nil }
func (f *fakePage) Blur()                { f.blurs++ }
func (f *fakePage) CapturingInput() bool { return f.capturing }

func (f *fakePage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	f.lastMsg = msg
	return nil, nil
}

func (f *fakePage) View(width, height int) string { return f.id }

func TestApp_SwitchBlursOldPage(t *testing.T) {
	t.Parallel()

	first := &fakePage{id: "first"}
	second := &fakePage{id: "second"}
	app := NewApp(first, second)
	app.Init()

	if first.inits != 1 {
		t.Fatalf("first.inits = %d, want 1", first.inits)
	}

	app.Update(tea.KeyMsg{Type: tea.KeyTab})

	if first.blurs != 1 {
		t.Fatalf("first.blurs = %d, want 1", first.blurs)
	}
	if second.inits != 1 {
		t.Fatalf("second.inits = %d, want 1", second.inits)
	}

	// Wrapping back around.
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if second.blurs != 1 || first.inits != 2 {
		t.Fatalf("blurs/inits after wrap = %d/%d, want 1/2", second.blurs, first.inits)
	}
}

func TestApp_DigitJumpsToPage(t *testing.T) {
	t.Parallel()

	pages := []*fakePage{{id: "a"}, {id: "b"}, {id: "c"}}
	app := NewApp(pages[0], pages[1], pages[2])
	app.Init()

	app.Update(keyMsg("3"))
	if pages[2].inits != 1 {
		t.Fatalf("third page inits = %d, want 1", pages[2].inits)
	}
	if pages[0].blurs != 1 {
		t.Fatalf("first page blurs = %d, want 1", pages[0].blurs)
	}

	// Digit beyond the page count is ignored.
	app.Update(keyMsg("9"))
	if pages[2].blurs != 0 {
		t.Fatal("out-of-range digit should not blur the active page")
	}
}

func TestApp_CapturingPageSwallowsGlobalKeys(t *testing.T) {
	t.Parallel()

	first := &fakePage{id: "first", capturing: true}
	second := &fakePage{id: "second"}
	app := NewApp(first, second)
	app.Init()

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if second.inits != 0 {
		t.Fatal("tab should reach the capturing page, not switch pages")
	}
	if first.lastMsg == nil {
		t.Fatal("capturing page should receive the key")
	}

	// ctrl+c still quits even while capturing.
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit even while a page captures input")
	}
	if first.blurs != 1 {
		t.Fatalf("first.blurs = %d, want 1", first.blurs)
	}
}

func TestApp_WindowSizeBroadcast(t *testing.T) {
	t.Parallel()

	first := &fakePage{id: "first"}
	second := &fakePage{id: "second"}
	app := NewApp(first, second)
	app.Init()

	size := tea.WindowSizeMsg{Width: 100, Height: 40}
	app.Update(size)

	if first.lastMsg != size || second.lastMsg != size {
		t.Fatal("window size should reach every page")
	}
}
