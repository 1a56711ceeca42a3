package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"clinicbook/internal/domain"
	"clinicbook/internal/pagination"
)

// ListState is what a list tab needs to render
type ListState struct {
	Title      string
	Noun       string // "appointments", "pending appointments"
	Items      []domain.Appointment
	Loaded     int // items on the page before filtering
	Cursor     int
	Page       pagination.State
	Filter     domain.Filter
	Filterable bool
	Loading    bool
	Error      string
	Pending    bool // show priority instead of status
}

// AppointmentRenderer handles rendering of the appointment tables
type AppointmentRenderer struct {
	styles *Styles
}

// NewAppointmentRenderer creates a new appointment renderer
func NewAppointmentRenderer(styles *Styles) *AppointmentRenderer {
	return &AppointmentRenderer{styles: styles}
}

type column struct {
	title string
	width int
}

func (r *AppointmentRenderer) columns(pending bool, width int) []column {
	last := column{"Status", 11}
	if pending {
		last = column{"Priority", 9}
	}
	cols := []column{{"Date & Time", 24}, {"Patient", 22}, {"Doctor", 18}, {"Diagnosis", 24}, last}
	used := 0
	for _, c := range cols {
		used += c.width + 1
	}
	// the diagnosis column takes up the slack
	if width > used {
		cols[3].width += width - used
	}
	return cols
}

// RenderList renders the header, the table and the pagination bar
func (r *AppointmentRenderer) RenderList(st ListState, width int) string {
	var b strings.Builder

	header := r.styles.Title.Render(st.Title)
	if st.Filterable {
		header += "  " + r.renderFilters(st.Filter)
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(r.styles.Dim.Render(pagination.Summary(st.Page, st.Filter, len(st.Items))))
	b.WriteString(r.styles.Dim.Render(fmt.Sprintf("   Items per page: %d", st.Page.ItemsPerPage)))
	b.WriteString("\n\n")

	cols := r.columns(st.Pending, width)
	var head []string
	for _, c := range cols {
		head = append(head, r.styles.Header.Render(pad(c.title, c.width)))
	}
	b.WriteString(strings.Join(head, " "))
	b.WriteString("\n")

	switch {
	case st.Loading && st.Loaded == 0:
		b.WriteString(r.styles.StatusLoading.Render("Loading " + st.Noun + "..."))
	case st.Error != "":
		b.WriteString(r.styles.StatusError.Render(st.Error))
	case len(st.Items) == 0:
		b.WriteString(r.styles.Dim.Render(r.emptyText(st)))
	default:
		for i, a := range st.Items {
			b.WriteString(r.renderRow(a, cols, i == st.Cursor, st.Pending))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(r.RenderPageBar(st.Page))
	return b.String()
}

func (r *AppointmentRenderer) emptyText(st ListState) string {
	if st.Loaded == 0 || st.Filter == domain.FilterAll || st.Filter == "" {
		return fmt.Sprintf("No %s found.", st.Noun)
	}
	return fmt.Sprintf("No %s %s found.", strings.ToLower(st.Filter.Label()), st.Noun)
}

func (r *AppointmentRenderer) renderFilters(active domain.Filter) string {
	var parts []string
	for _, f := range domain.Filters {
		label := fmt.Sprintf("[%c]%s", f.Label()[0], f.Label()[1:])
		if f == active {
			parts = append(parts, r.styles.Filter.Bold(true).Render(label))
		} else {
			parts = append(parts, r.styles.Dim.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (r *AppointmentRenderer) renderRow(a domain.Appointment, cols []column, selected, pending bool) string {
	cells := []string{
		pad(FormatWhen(a), cols[0].width),
		pad(orNA(a.PatientName), cols[1].width),
		pad(orNA(a.DoctorName), cols[2].width),
		pad(orNA(a.Diagnosis), cols[3].width),
	}
	line := strings.Join(cells, " ")
	if selected {
		line = r.styles.SelectionBg.Render(line)
	}

	var badge string
	if pending {
		label := a.Priority.Label()
		badge = r.styles.Badge.Foreground(lipgloss.Color(PriorityColor(label))).Render(label)
	} else {
		badge = r.StatusBadge(a.Status)
	}
	return line + " " + badge
}

// StatusBadge renders the colored status label
func (r *AppointmentRenderer) StatusBadge(status string) string {
	return r.styles.Badge.Foreground(lipgloss.Color(StatusColor(status))).Render(domain.StatusLabel(status))
}

// RenderPageBar renders first/previous, the page window and next/last
func (r *AppointmentRenderer) RenderPageBar(st pagination.State) string {
	var parts []string
	nav := func(label string, enabled bool) string {
		if enabled {
			return r.styles.PageButton.Render(label)
		}
		return r.styles.Dim.Render(r.styles.PageButton.Render(label))
	}

	parts = append(parts, nav("«", st.CurrentPage > 1), nav("‹", st.HasPreviousPage))
	for _, p := range pagination.Window(st.CurrentPage, st.TotalPages) {
		if p == st.CurrentPage {
			parts = append(parts, r.styles.PageCurrent.Render(strconv.Itoa(p)))
		} else {
			parts = append(parts, r.styles.PageButton.Render(strconv.Itoa(p)))
		}
	}
	parts = append(parts, nav("›", st.HasNextPage), nav("»", st.CurrentPage < st.TotalPages))
	parts = append(parts, r.styles.Dim.Render(fmt.Sprintf(" page %d of %d", st.CurrentPage, st.TotalPages)))
	return strings.Join(parts, "")
}

// FormatWhen renders the appointment slot in local time
func FormatWhen(a domain.Appointment) string {
	start, ok := a.StartTime()
	if !ok {
		return "invalid date"
	}
	start = start.Local()
	when := start.Format("2006-01-02 15:04")
	if end, ok := a.EndTime(); ok {
		when += "-" + end.Local().Format("15:04")
	}
	return when
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// pad truncates or right-pads s to exactly w cells
func pad(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if lipgloss.Width(s) > w {
		runes := []rune(s)
		for len(runes) > 0 && lipgloss.Width(string(runes))+1 > w {
			runes = runes[:len(runes)-1]
		}
		return string(runes) + "…"
	}
	return s + strings.Repeat(" ", w-lipgloss.Width(s))
}
