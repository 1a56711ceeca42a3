package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Tabs          []string
	ActiveTab     int
	Loading       bool
	Spinner       string
	StatusMessage string
	StatusIsError bool
	InputPrompt   string
	TextInput     string
	List          *ListState
	Body          string // pre-rendered content for non-list tabs
	ShowHelp      bool
	HelpContent   string
	HelpBar       string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	listRender  *AppointmentRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		listRender:  NewAppointmentRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles exposes the shared styles
func (r *Renderer) Styles() *Styles { return r.styles }

// Appointments exposes the table renderer
func (r *Renderer) Appointments() *AppointmentRenderer { return r.listRender }

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.ShowHelp {
		return r.popupRender.RenderPopup(state.HelpContent, state.Height, state.Width, r.styles.InfoBox)
	}

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	contentWidth := termWidth - 4 // main container padding

	content := &strings.Builder{}
	content.WriteString(r.renderTitleLine(state, contentWidth))
	content.WriteString("\n")
	content.WriteString(r.renderTabs(state))
	content.WriteString("\n\n")

	if state.InputPrompt != "" {
		content.WriteString(r.styles.Filter.Render(state.InputPrompt))
		content.WriteString(state.TextInput)
		content.WriteString("\n\n")
	}

	if state.List != nil {
		content.WriteString(r.listRender.RenderList(*state.List, contentWidth))
	} else {
		content.WriteString(state.Body)
	}

	footer := r.renderFooter(state)
	if footer != "" {
		currentLines := strings.Count(content.String(), "\n") + 1
		availableLines := state.Height - 2 // padding
		if availableLines <= 0 {
			availableLines = 22
		}
		paddingNeeded := availableLines - currentLines - strings.Count(footer, "\n") - 1
		if paddingNeeded > 0 {
			content.WriteString(strings.Repeat("\n", paddingNeeded))
		}
		content.WriteString("\n")
		content.WriteString(footer)
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

func (r *Renderer) renderTitleLine(state ViewState, width int) string {
	logo := r.styles.Title.Render("clinicbook")
	if !state.Loading {
		return logo
	}
	right := r.styles.Dim.Render(fmt.Sprintf("%s Loading", state.Spinner))
	padding := width - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderTabs(state ViewState) string {
	var tabs []string
	for i, name := range state.Tabs {
		label := fmt.Sprintf("%d %s", i+1, name)
		if i == state.ActiveTab {
			tabs = append(tabs, r.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, r.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (r *Renderer) renderFooter(state ViewState) string {
	var lines []string
	if state.StatusMessage != "" {
		style := r.styles.StatusSuccess
		if state.StatusIsError {
			style = r.styles.StatusError
		}
		lines = append(lines, style.Render(state.StatusMessage))
	}
	if state.HelpBar != "" {
		lines = append(lines, state.HelpBar)
	} else {
		lines = append(lines, r.styles.Help.Render("Press ? for help"))
	}
	return strings.Join(lines, "\n")
}
