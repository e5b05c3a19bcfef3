package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miguel-rf/congress-alpha/internal/api"
	"github.com/miguel-rf/congress-alpha/internal/signal"
)

// SignalDetailModal shows the full record of one signal, fetched fresh so
// the fields reflect backend state rather than the possibly older list
// snapshot.
type SignalDetailModal struct {
	sig api.Signal
}

func NewSignalDetailModal(sig api.Signal) *SignalDetailModal {
	return &SignalDetailModal{sig: sig}
}

func (m *SignalDetailModal) ID() string { return "signal-detail" }

func (m *SignalDetailModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil
	}
	switch key.String() {
	case "esc", "enter", "q":
		return true, nil
	}
	return false, nil
}

func (m *SignalDetailModal) View(width, height int) string {
	s := m.sig

	id := "unsaved"
	if s.ID != nil {
		id = strconv.FormatInt(*s.ID, 10)
	}
	label := signal.Of(s).Label()
	status := lipgloss.NewStyle().Foreground(statusColor(label)).Render(label)

	row := func(name, value string) string {
		return helpStyle.Render(fmt.Sprintf("%-12s", name)) + value
	}

	lines := []string{
		titleStyle.Render("Signal " + id),
		"",
		row("status", status),
		row("ticker", s.Ticker),
		row("politician", s.Politician+" ("+s.Chamber+")"),
		row("type", s.TradeType+" / "+s.SignalType),
		row("amount", formatAmount(s.AmountMidpoint)),
		row("traded", s.TradeDate),
		row("disclosed", fmt.Sprintf("%s (%d days lag)", s.DisclosureDate, s.LagDays)),
	}
	if s.AssetName != nil {
		lines = append(lines, row("asset", truncate(*s.AssetName, 48)))
	}
	if s.PDFURL != nil {
		lines = append(lines, row("disclosure", truncate(*s.PDFURL, 48)))
	}
	if s.CreatedAt != nil {
		lines = append(lines, row("scraped", *s.CreatedAt))
	}
	lines = append(lines, "", helpStyle.Render("  esc close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
