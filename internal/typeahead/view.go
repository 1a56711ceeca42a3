package typeahead

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	systemTagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	inputStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	focusedStyle   = inputStyle.BorderForeground(lipgloss.Color("205"))
	itemStyle      = lipgloss.NewStyle().PaddingLeft(2)
	activeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Bold(true)
	codeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	chapterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	matchStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("229")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// maxVisible bounds the rendered dropdown rows
const maxVisible = 8

// Highlight wraps every case-insensitive occurrence of the trimmed query
// in text with mark. Queries shorter than two characters leave text
// unchanged.
func Highlight(text, query string, mark func(string) string) string {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return text
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		b.WriteString(text[last:loc[0]])
		b.WriteString(mark(text[loc[0]:loc[1]]))
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// View renders the label, input, dropdown and status line
func (m *Model) View() string {
	var sections []string

	system := m.opts.SearchType.System()
	sections = append(sections, labelStyle.Render(system+" System")+"  "+systemTagStyle.Render("ⓘ "+system))

	input := m.input.View()
	if m.status == StatusSearching {
		input += " " + m.spinner.View()
	}
	box := inputStyle
	if m.focused {
		box = focusedStyle
	}
	if m.width > 0 {
		box = box.Width(m.width - 2)
	}
	sections = append(sections, box.Render(input))

	if m.DropdownOpen() {
		sections = append(sections, m.dropdownView())
	}

	if s := m.StatusText(); s != "" {
		sections = append(sections, statusStyle.Render(s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) dropdownView() string {
	start := 0
	if m.highlighted >= maxVisible {
		start = m.highlighted - maxVisible + 1
	}
	end := min(len(m.results), start+maxVisible)

	mark := func(s string) string { return matchStyle.Render(s) }

	var rows []string
	for i := start; i < end; i++ {
		r := m.results[i]
		title := Highlight(r.Title, m.query, mark)
		line := codeStyle.Render(r.Code) + "  " + title
		if strings.Contains(r.Code, ".") {
			line += "  " + systemTagStyle.Render("["+m.opts.SearchType.System()+"]")
		}
		if i == m.highlighted {
			line = activeStyle.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		rows = append(rows, itemStyle.Render(line))
		if r.Chapter != "" {
			rows = append(rows, itemStyle.Render("    "+chapterStyle.Render(r.Chapter)))
		}
	}
	if len(m.results) > end {
		rows = append(rows, statusStyle.Render("    … "+strconv.Itoa(len(m.results)-end)+" more"))
	}
	return strings.Join(rows, "\n")
}
