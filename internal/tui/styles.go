package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared across pages.
var (
	ColorGreen  = lipgloss.Color("#49E209")
	ColorBlue   = lipgloss.Color("39")
	ColorRed    = lipgloss.Color("196")
	ColorOrange = lipgloss.Color("208")
	ColorGray   = lipgloss.Color("244")
	ColorWhite  = lipgloss.Color("252")
	ColorNavy   = lipgloss.Color("#16213E")
	ColorPurple = lipgloss.Color("201")
)

var (
	tabBarStyle = lipgloss.NewStyle().
			Background(ColorNavy)

	tabStyle = lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorGray)

	activeTabStyle = lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorGreen).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	statusOKStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	statusLineStyle = lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorWhite)

	stalenessStyle = lipgloss.NewStyle().
			Foreground(ColorOrange).
			Italic(true)
)

// statusColor maps a signal lifecycle label to its display color.
func statusColor(label string) lipgloss.Color {
	switch label {
	case "executed":
		return ColorGreen
	case "confirmed":
		return ColorBlue
	case "awaiting confirm":
		return ColorOrange
	case "rejected":
		return ColorRed
	default:
		return ColorGray
	}
}

// levelColor maps a backend log level to its display color.
func levelColor(level string) lipgloss.Color {
	switch level {
	case "CRITICAL", "FATAL", "ERROR":
		return ColorRed
	case "WARNING", "WARN":
		return ColorOrange
	case "INFO":
		return ColorBlue
	case "DEBUG":
		return ColorGray
	default:
		return ColorWhite
	}
}
