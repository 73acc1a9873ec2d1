package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals elsewhere.
var (
	// ColorCyan is used for identifiable nouns: option ids, artifact ids, paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen marks selected options and added files.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow marks modified files and options blocked by prerequisites.
	ColorYellow = lipgloss.Color("220")

	// ColorRed marks removed files and options unavailable on the platform.
	ColorRed = lipgloss.Color("196")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")
)

// Styles groups the semantic styles used by renderers.
type Styles struct {
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Noun    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

var defaultStyles = &Styles{
	Bold:    lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Faint(true),
	Noun:    lipgloss.NewStyle().Foreground(ColorCyan),
	Success: lipgloss.NewStyle().Foreground(ColorGreen),
	Warning: lipgloss.NewStyle().Foreground(ColorYellow),
	Error:   lipgloss.NewStyle().Foreground(ColorRed),
}

// GetStyles returns the default styles.
func GetStyles() *Styles {
	return defaultStyles
}

// NoColorStyles returns styles that render text unchanged. Used in tests and
// when stdout is not a terminal.
func NoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Bold:    plain,
		Muted:   plain,
		Noun:    plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
	}
}

// Option state markers used in catalog listings.
const (
	StateSelected    = "selected"
	StateAvailable   = "available"
	StateBlocked     = "blocked"
	StateUnavailable = "unavailable"
)

// StateStyle returns the style for an option state. Unknown states are unstyled.
func StateStyle(state string) lipgloss.Style {
	switch state {
	case StateSelected:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StateAvailable:
		return lipgloss.NewStyle()
	case StateBlocked:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StateUnavailable:
		return lipgloss.NewStyle().Faint(true).Foreground(ColorRed)
	default:
		return lipgloss.NewStyle()
	}
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
