package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/miguel-rf/congress-alpha/internal/poll"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerFrame picks an animation frame from the wall clock so any re-render
// advances it.
func spinnerFrame() string {
	return spinnerFrames[time.Now().UnixMilli()/120%int64(len(spinnerFrames))]
}

// renderPageHeader renders a page title with the poll freshness indicator on
// the right edge.
func renderPageHeader[T any](title string, st poll.State[T], width int) string {
	left := titleStyle.Render(title)

	var right string
	switch {
	case st.Loading:
		right = helpStyle.Render(spinnerFrame() + " loading")
	case st.Refreshing:
		right = helpStyle.Render(spinnerFrame() + " refreshing")
	case st.Err != nil && st.HasData():
		right = stalenessStyle.Render("stale · " + formatAge(st.LastUpdated))
	case st.HasData():
		right = helpStyle.Render("updated " + formatAge(st.LastUpdated))
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderStatusLine renders the bottom line: key help on the left, transient
// status or error on the right.
func renderStatusLine(help, status string, isErr bool, width int) string {
	left := help
	right := status
	if isErr {
		right = errorStyle.Render(right)
	} else if right != "" {
		right = statusOKStyle.Render(right)
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return statusLineStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderErrorBanner renders the current fetch error, if any, above the data.
func renderErrorBanner(err error, width int) string {
	if err == nil {
		return ""
	}
	return errorStyle.Width(width).Render("⚠ " + err.Error())
}

// formatAge renders a duration since t as a compact human string.
func formatAge(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < 2*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// formatAmount renders a dollar midpoint compactly: $15K, $1.3M.
func formatAmount(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.0fK", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// formatMoney renders an exact currency value.
func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// formatSigned renders a profit/loss value with its sign and color.
func formatSigned(v float64) string {
	s := fmt.Sprintf("%+.2f", v)
	if v < 0 {
		return errorStyle.Render(s)
	}
	return statusOKStyle.Render(s)
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 1 || len([]rune(s)) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

// deref renders an optional string field.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
