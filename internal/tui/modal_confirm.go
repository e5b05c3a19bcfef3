package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is a self-contained overlay that owns its own Update/View lifecycle.
// The page holding a modal routes all input to it and renders it on top.
type Modal interface {
	ID() string
	// Update processes a message. Return pop=true to close the modal.
	Update(msg tea.Msg) (pop bool, cmd tea.Cmd)
	View(width, height int) string
}

// BulkDeleteModal is the irreversible-action gate in front of delete-all.
// Nothing is dispatched until the operator picks a scope explicitly.
type BulkDeleteModal struct {
	total     int
	processed int
	dispatch  func(processedOnly bool) tea.Cmd
}

// NewBulkDeleteModal creates the gate. Counts are list-wide; processed may be
// -1 when the backend count was unavailable. dispatch is invoked with the
// chosen scope only when the operator confirms.
func NewBulkDeleteModal(total, processed int, dispatch func(processedOnly bool) tea.Cmd) *BulkDeleteModal {
	return &BulkDeleteModal{total: total, processed: processed, dispatch: dispatch}
}

func (m *BulkDeleteModal) ID() string { return "bulk-delete" }

func (m *BulkDeleteModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil
	}
	switch key.String() {
	case "p":
		return true, m.dispatch(true)
	case "a":
		return true, m.dispatch(false)
	case "esc", "n", "q":
		return true, nil
	}
	return false, nil
}

func (m *BulkDeleteModal) View(width, height int) string {
	title := errorStyle.Render("Bulk delete: this cannot be undone")
	processed := "?"
	if m.processed >= 0 {
		processed = strconv.Itoa(m.processed)
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		"  p  delete processed signals only ("+processed+")",
		"  a  delete ALL signals ("+strconv.Itoa(m.total)+")",
		"",
		helpStyle.Render("  esc  cancel"),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorRed).
		Padding(1, 2).
		Render(body)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
