package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Filter        lipgloss.Style
	InfoBox       lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Header        lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	PageButton    lipgloss.Style
	PageCurrent   lipgloss.Style
	SelectionBg   lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	Badge         lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Filter: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("241")),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Header:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Underline(true),
		Tab:           lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("245")),
		ActiveTab:     lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		PageButton:    lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("250")),
		PageCurrent:   lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		SelectionBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Badge:         lipgloss.NewStyle().Padding(0, 1).Bold(true),
	}
}

// StatusColor returns the badge color of an appointment status
func StatusColor(status string) string {
	switch status {
	case "booked":
		return "33" // blue
	case "arrived":
		return "51" // cyan
	case "fulfilled":
		return "78" // green
	case "cancelled", "noshow":
		return "203" // red
	default:
		return "214" // yellow for pending and unknown
	}
}

// PriorityColor returns the badge color of a priority label
func PriorityColor(label string) string {
	switch label {
	case "Urgent":
		return "208" // orange
	case "ASAP":
		return "214" // yellow
	case "STAT":
		return "196" // red
	default:
		return "245" // gray
	}
}
