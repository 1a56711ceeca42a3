package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

var errNoProgram = errors.New("program not set")

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
	note    string
}

var helpSections = []helpSection{
	{title: "Tabs", entries: []helpEntry{
		{"1/2/3", "Appointments / Pending / Book"},
		{"Tab, Shift+Tab", "Next / previous tab"},
	}},
	{title: "Appointment Lists", entries: []helpEntry{
		{"↑/↓, j/k", "Move between rows"},
		{"←/→, h/l", "Previous / next page"},
		{"g/G, Home/End", "First / last page"},
		{":", "Go to page"},
		{"+/-", "Change items per page (5, 10, 20, 50)"},
		{"r", "Refresh the current page"},
		{"f/t/u/p", "Filter all / today / upcoming / past"},
	}, note: "  Filters apply to the loaded page only"},
	{title: "Booking Form", entries: []helpEntry{
		{"Enter, i", "Start editing the form"},
		{"Tab, ↑/↓", "Next / previous field"},
		{"←/→", "Change status or priority"},
		{"Enter", "Book the appointment"},
		{"Ctrl+F", "Fill sample data"},
		{"Ctrl+R", "Clear all fields"},
		{"Ctrl+V", "View the booked FHIR resource"},
		{"Esc", "Stop editing"},
	}},
	{title: "Terminology Search", entries: []helpEntry{
		{"type", "Search after a short pause"},
		{"Ctrl+S", "Search now"},
		{"↑/↓", "Move through results"},
		{"Enter", "Select the highlighted result"},
		{"Esc", "Close the results"},
	}, note: "  Diagnosis examples: appendicitis, diabetes, hypertension"},
	{title: "Other", entries: []helpEntry{
		{"?", "Toggle this help"},
		{"p", "Open this help in the pager (from the help screen)"},
		{"q", "Quit"},
	}},
}

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

func (r *HelpRenderer) build() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	noteStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))

	width := 0
	for _, s := range helpSections {
		for _, e := range s.entries {
			width = max(width, lipgloss.Width(e.keys))
		}
	}

	var help strings.Builder
	help.WriteString(titleStyle.Render("clinicbook Help"))
	help.WriteString("\n")

	for i, s := range helpSections {
		help.WriteString(sectionStyle.Render(s.title))
		help.WriteString("\n")
		for _, e := range s.entries {
			gap := strings.Repeat(" ", width-lipgloss.Width(e.keys)+2)
			help.WriteString(fmt.Sprintf("  %s%s%s\n", keyStyle.Render(e.keys), gap, descStyle.Render(e.desc)))
		}
		if s.note != "" {
			help.WriteString(noteStyle.Render(s.note))
			help.WriteString("\n")
		}
		if i < len(helpSections)-1 {
			help.WriteString("\n")
		}
	}

	return strings.TrimRight(help.String(), "\n")
}

// renderHelpContent renders the help information
func (r *HelpRenderer) renderHelpContent(height int, scrollOffset int) string {
	return scrollContent(r.build(), height, scrollOffset)
}

// scrollContent cuts content to the lines that fit a popup of the given
// terminal height, marking hidden lines above and below
func scrollContent(content string, height int, scrollOffset int) string {
	lines := strings.Split(content, "\n")
	totalLines := len(lines)

	// account for popup border and padding
	visibleHeight := height - 4
	if visibleHeight < 5 {
		visibleHeight = 5
	}

	if totalLines <= visibleHeight {
		return content
	}

	maxOffset := totalLines - visibleHeight
	scrollOffset = min(max(scrollOffset, 0), maxOffset)

	endLine := min(scrollOffset+visibleHeight, totalLines)
	visibleLines := append([]string{}, lines[scrollOffset:endLine]...)

	if scrollOffset > 0 {
		visibleLines[0] = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("↑ (more above)")
	}
	if endLine < totalLines {
		visibleLines[len(visibleLines)-1] = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("↓ (more below)")
	}

	return strings.Join(visibleLines, "\n")
}

// RenderHelpContentPlain generates help content with colors for pager
func (r *HelpRenderer) RenderHelpContentPlain() string {
	return r.build()
}

// PagerOps shows long content in the ov pager
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps() *PagerOps {
	return &PagerOps{}
}

// SetProgram sets the program reference for terminal management
func (p *PagerOps) SetProgram(program *tea.Program) {
	p.program = program
}

// ShowInPager hands the terminal to ov until the user quits it
func (p *PagerOps) ShowInPager(content string) error {
	if p.program == nil {
		return errNoProgram
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// let ov exit fully before taking the terminal back
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// don't write on exit to avoid messing with our screen
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false

	configureVimKeyBindings(&config)

	root.SetConfig(config)

	return root.Run()
}

// configureVimKeyBindings adds j/k scrolling on top of the default keys
func configureVimKeyBindings(config *oviewer.Config) {
	if config.Keybind == nil {
		config.Keybind = make(map[string][]string)
	}
	config.Keybind["down"] = []string{"Enter", "Down", "ctrl+N", "j"}
	config.Keybind["up"] = []string{"Up", "ctrl+P", "k"}
}
