package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"clinicbook/internal/booking"
	"clinicbook/internal/domain"
	"clinicbook/internal/terminology"
	"clinicbook/internal/typeahead"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldSelect
	fieldSearch
)

type formField struct {
	key         string // json name, as reported by validation
	label       string
	section     string // heading rendered above the field
	kind        fieldKind
	input       textinput.Model
	options     []string
	optionLabel func(string) string
	search      *typeahead.Model
	get         func(f *booking.Form) string
	set         func(f *booking.Form, v string)
	readOnly    func(f *booking.Form) bool
}

func (ff *formField) isReadOnly(f *booking.Form) bool {
	return ff.readOnly != nil && ff.readOnly(f)
}

// formOptions wires the booking form to its collaborators
type formOptions struct {
	Remote         terminology.Remote
	Booker         booking.Booker
	Cache          *terminology.Cache
	ProcedureURL   string
	DiagnosisURL   string
	Debounce       time.Duration
	MinQueryLength int
	Limit          int
	ResetAfter     time.Duration
	Now            func() time.Time
}

// bookingForm is the Book tab: the fields, their validation messages and
// the outcome of the last submission
type bookingForm struct {
	opts       formOptions
	form       *booking.Form
	fields     []*formField
	focus      int
	editing    bool
	errors     map[string]string
	submitting bool
	outcome    *booking.Outcome
	resetGen   int
	width      int
}

func newBookingForm(opts formOptions) *bookingForm {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	bf := &bookingForm{
		opts: opts,
		form: booking.NewForm(opts.Now()),
	}

	text := func(key, label, section, placeholder string, get func(*booking.Form) string, set func(*booking.Form, string)) *formField {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholder
		ti.CharLimit = 200
		return &formField{key: key, label: label, section: section, kind: fieldText, input: ti, get: get, set: set}
	}

	bf.fields = []*formField{
		{
			key: "status", label: "Status", section: "Appointment Details", kind: fieldSelect,
			options: booking.Statuses, optionLabel: domain.StatusLabel,
			get: func(f *booking.Form) string { return f.Status },
			set: func(f *booking.Form, v string) { f.Status = v },
		},
		{
			key: "priority", label: "Priority", kind: fieldSelect,
			options: booking.Priorities, optionLabel: booking.PriorityName,
			get: func(f *booking.Form) string { return f.Priority },
			set: func(f *booking.Form, v string) { f.Priority = v },
		},
		{
			key: "serviceTypeText", label: "Procedure Search (ICHI)", section: "Service Type / Procedure (ICHI)", kind: fieldSearch,
			search: bf.newProcedureSearch(),
			get:    func(f *booking.Form) string { return f.ServiceTypeText },
		},
		text("serviceTypeCode", "Procedure Code", "", "e.g., KBO.JB.AE",
			func(f *booking.Form) string { return f.ServiceTypeCode },
			func(f *booking.Form, v string) { f.ServiceTypeCode = v }),
		{
			key: "reasonText", label: "Diagnosis Search (ICD-11)", section: "Reason / Diagnosis (ICD-11)", kind: fieldSearch,
			search: bf.newDiagnosisSearch(),
			get:    func(f *booking.Form) string { return f.ReasonText },
		},
		text("reasonCode", "Diagnosis Code (ICD-11)", "", "e.g., DA03.0, 5A20.0Z",
			func(f *booking.Form) string { return f.ReasonCode },
			func(f *booking.Form, v string) { f.ReasonCode = v }),
		text("start", "Start", "Timing", booking.DateTimeLayout,
			func(f *booking.Form) string { return f.Start },
			func(f *booking.Form, v string) { f.Start = v }),
		text("end", "End", "", booking.DateTimeLayout,
			func(f *booking.Form) string { return f.End },
			func(f *booking.Form, v string) { f.End = v }),
		text("minutesDuration", "Duration (minutes)", "", "45",
			func(f *booking.Form) string { return f.MinutesDuration },
			func(f *booking.Form, v string) { f.MinutesDuration = v }),
		text("comment", "Comment", "", "Notes for the appointment",
			func(f *booking.Form) string { return f.Comment },
			func(f *booking.Form, v string) { f.Comment = v }),
		text("patientId", "Patient ID", "Participants", "e.g., P001",
			func(f *booking.Form) string { return f.PatientID },
			func(f *booking.Form, v string) { f.PatientID = v }),
		text("patientName", "Patient Name", "", "",
			func(f *booking.Form) string { return f.PatientName },
			func(f *booking.Form, v string) { f.PatientName = v }),
		text("practitionerId", "Practitioner ID", "", "e.g., DOC001",
			func(f *booking.Form) string { return f.PractitionerID },
			func(f *booking.Form, v string) { f.PractitionerID = v }),
		text("practitionerName", "Practitioner Name", "", "",
			func(f *booking.Form) string { return f.PractitionerName },
			func(f *booking.Form, v string) { f.PractitionerName = v }),
		text("locationId", "Location ID", "", "e.g., OR1",
			func(f *booking.Form) string { return f.LocationID },
			func(f *booking.Form, v string) { f.LocationID = v }),
		text("locationName", "Location Name", "", "",
			func(f *booking.Form) string { return f.LocationName },
			func(f *booking.Form, v string) { f.LocationName = v }),
	}

	// the diagnosis code comes from the search once a result is selected
	bf.field("reasonCode").readOnly = func(f *booking.Form) bool { return f.Diagnosis != nil }

	bf.syncInputs()
	return bf
}

func (bf *bookingForm) newProcedureSearch() *typeahead.Model {
	return typeahead.New(typeahead.Options{
		SearchType:  domain.SearchProcedure,
		SearchURL:   bf.opts.ProcedureURL,
		Placeholder: "Search procedures (ICHI coding)...",
		OnChange:    func(v string) { bf.form.ServiceTypeText = v },
		OnSelect:    func(r domain.SearchResult) { bf.form.SelectProcedure(r) },
		OnClear: func() {
			// keep what the user is typing, drop the coded selection
			text := bf.form.ServiceTypeText
			bf.form.ClearProcedure()
			bf.form.ServiceTypeText = text
		},
		Debounce:       bf.opts.Debounce,
		MinQueryLength: bf.opts.MinQueryLength,
		Limit:          bf.opts.Limit,
		Remote:         bf.opts.Remote,
		Cache:          bf.opts.Cache,
	})
}

func (bf *bookingForm) newDiagnosisSearch() *typeahead.Model {
	var fn terminology.SearchFunc
	if remote, limit := bf.opts.Remote, bf.opts.Limit; remote != nil {
		if limit <= 0 {
			limit = typeahead.DefaultLimit
		}
		fn = func(ctx context.Context, q string) ([]domain.SearchResult, error) {
			return remote.SearchICD(ctx, q, limit)
		}
	}
	return typeahead.New(typeahead.Options{
		SearchType:   domain.SearchDiagnosis,
		SearchURL:    bf.opts.DiagnosisURL,
		SearchFunc:   fn,
		CustomSearch: true,
		Placeholder:  "Search diagnoses (ICD-11 coding)...",
		OnChange:     func(v string) { bf.form.ReasonText = v },
		OnSelect:     func(r domain.SearchResult) { bf.form.SelectDiagnosis(r) },
		OnClear: func() {
			text := bf.form.ReasonText
			bf.form.ClearDiagnosis()
			bf.form.ReasonText = text
		},
		Debounce:       bf.opts.Debounce,
		MinQueryLength: bf.opts.MinQueryLength,
		Limit:          bf.opts.Limit,
		Remote:         bf.opts.Remote,
		Cache:          bf.opts.Cache,
	})
}

func (bf *bookingForm) field(key string) *formField {
	for _, f := range bf.fields {
		if f.key == key {
			return f
		}
	}
	return nil
}

func (bf *bookingForm) focused() *formField {
	return bf.fields[bf.focus]
}

// syncInputs copies the form values into the text inputs. Search fields
// are only rewritten when they are not being typed into.
func (bf *bookingForm) syncInputs() {
	for i, f := range bf.fields {
		switch f.kind {
		case fieldText:
			if v := f.get(bf.form); f.input.Value() != v {
				f.input.SetValue(v)
			}
		case fieldSearch:
			if !(bf.editing && i == bf.focus) && f.search.Value() != f.get(bf.form) {
				f.search.SetValue(f.get(bf.form))
			}
		}
	}
}

// setSearchValues pushes the form's search texts into the typeaheads, e.g.
// after the whole form was replaced
func (bf *bookingForm) setSearchValues() {
	for _, f := range bf.fields {
		if f.kind == fieldSearch {
			f.search.SetValue(f.get(bf.form))
		}
	}
}

// startEditing focuses the current field
func (bf *bookingForm) startEditing() tea.Cmd {
	bf.editing = true
	return bf.focusField(bf.focus)
}

// stopEditing blurs every field
func (bf *bookingForm) stopEditing() {
	bf.editing = false
	bf.blurField(bf.focus)
}

func (bf *bookingForm) focusField(i int) tea.Cmd {
	f := bf.fields[i]
	switch f.kind {
	case fieldText:
		if f.isReadOnly(bf.form) {
			return nil
		}
		return f.input.Focus()
	case fieldSearch:
		return f.search.Focus()
	}
	return nil
}

func (bf *bookingForm) blurField(i int) {
	f := bf.fields[i]
	switch f.kind {
	case fieldText:
		f.input.Blur()
		if f.key == "start" || f.key == "end" {
			if bf.form.RecalculateDuration() {
				bf.syncInputs()
			}
		}
	case fieldSearch:
		f.search.Blur()
	}
}

// moveFocus moves to the next or previous field, wrapping around
func (bf *bookingForm) moveFocus(delta int) tea.Cmd {
	bf.blurField(bf.focus)
	n := len(bf.fields)
	bf.focus = ((bf.focus+delta)%n + n) % n
	if !bf.editing {
		return nil
	}
	return bf.focusField(bf.focus)
}

// cycle steps the focused select field through its options
func (bf *bookingForm) cycle(delta int) {
	f := bf.focused()
	if f.kind != fieldSelect || len(f.options) == 0 {
		return
	}
	cur := 0
	for i, o := range f.options {
		if o == f.get(bf.form) {
			cur = i
			break
		}
	}
	n := len(f.options)
	f.set(bf.form, f.options[((cur+delta)%n+n)%n])
	delete(bf.errors, f.key)
}

// searchKey offers msg to the focused typeahead first
func (bf *bookingForm) searchKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	f := bf.focused()
	if !bf.editing || f.kind != fieldSearch {
		return nil, false
	}
	cmd, handled := f.search.HandleKey(msg)
	if handled {
		bf.syncInputs()
	}
	return cmd, handled
}

// handleKey feeds an unclaimed key to the focused text field
func (bf *bookingForm) handleKey(msg tea.KeyMsg) tea.Cmd {
	f := bf.focused()
	if !bf.editing || f.kind != fieldText || f.isReadOnly(bf.form) {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if v := f.input.Value(); v != f.get(bf.form) {
		f.set(bf.form, v)
		delete(bf.errors, f.key)
	}
	return cmd
}

// update routes timer, lookup and blink messages to the fields
func (bf *bookingForm) update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, f := range bf.fields {
		if f.kind == fieldSearch {
			cmds = append(cmds, f.search.Update(msg))
		}
	}
	if f := bf.focused(); bf.editing && f.kind == fieldText {
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	bf.syncInputs()
	return tea.Batch(cmds...)
}

// fillSample loads the example booking
func (bf *bookingForm) fillSample() {
	bf.form.FillSample(bf.opts.Now())
	bf.errors = nil
	bf.setSearchValues()
	bf.syncInputs()
}

// clear restores the defaults and drops the last outcome
func (bf *bookingForm) clear() {
	bf.resetGen++
	bf.form.Reset(bf.opts.Now())
	bf.errors = nil
	bf.outcome = nil
	for _, f := range bf.fields {
		if f.kind == fieldSearch {
			f.search.SetValue("")
		}
	}
	bf.syncInputs()
}

// submit validates the form and returns the command that books it
func (bf *bookingForm) submit(ctx context.Context) tea.Cmd {
	if bf.submitting {
		return nil
	}
	bf.outcome = nil
	bf.errors = nil

	if err := bf.form.Validate(); err != nil {
		var verr *booking.ValidationError
		if errors.As(err, &verr) {
			bf.errors = verr.Errors
		}
		log.Debug().Err(err).Msg("booking form: validation failed")
		return nil
	}

	appt, err := bf.form.BuildFHIR()
	if err != nil {
		bf.outcome = &booking.Outcome{Message: "Invalid appointment", Details: err.Error()}
		return nil
	}

	bf.submitting = true
	booker := bf.opts.Booker
	return func() tea.Msg {
		if booker == nil {
			return bookedMsg{outcome: booking.Outcome{Message: booking.NetworkErrorMessage, Details: "no backend configured"}}
		}
		return bookedMsg{outcome: booking.Submit(ctx, booker, appt)}
	}
}

// finish records the outcome and, on success, schedules the reset
func (bf *bookingForm) finish(o booking.Outcome) tea.Cmd {
	bf.submitting = false
	bf.outcome = &o
	if !o.Success {
		return nil
	}
	bf.resetGen++
	gen := bf.resetGen
	if bf.opts.ResetAfter <= 0 {
		return func() tea.Msg { return resetFormMsg{gen: gen} }
	}
	return tea.Tick(bf.opts.ResetAfter, func(time.Time) tea.Msg { return resetFormMsg{gen: gen} })
}

// resetAfterBooking clears the values but keeps the success message
func (bf *bookingForm) resetAfterBooking(gen int) bool {
	if gen != bf.resetGen {
		return false
	}
	outcome := bf.outcome
	bf.clear()
	bf.outcome = outcome
	return true
}

// resource returns the FHIR resource of the last successful booking
func (bf *bookingForm) resource() string {
	if bf.outcome == nil || !bf.outcome.Success || len(bf.outcome.Resource) == 0 {
		return ""
	}
	return booking.PrettyJSON(bf.outcome.Resource)
}

// close stops the typeaheads
func (bf *bookingForm) close() {
	for _, f := range bf.fields {
		if f.kind == fieldSearch {
			f.search.Close()
		}
	}
}

func (bf *bookingForm) setWidth(w int) {
	bf.width = w
	for _, f := range bf.fields {
		switch f.kind {
		case fieldSearch:
			f.search.SetWidth(min(w, 80))
		case fieldText:
			f.input.Width = max(10, min(w, 80)-24)
		}
	}
}

var (
	formSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)
	formLabelStyle   = lipgloss.NewStyle().Width(22).Foreground(lipgloss.Color("250"))
	formFocusStyle   = formLabelStyle.Foreground(lipgloss.Color("205")).Bold(true)
	formErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	formInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	formDimStyle     = lipgloss.NewStyle().Faint(true)
	formOptionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	successBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("78")).Padding(0, 1)
	errorBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("203")).Padding(0, 1)
)

// view renders the visible window of fields around the focused one plus the
// outcome box
func (bf *bookingForm) view(height int, spinner string) string {
	var rows []string
	focusRow := 0
	for i, f := range bf.fields {
		if f.section != "" {
			rows = append(rows, formSectionStyle.Render(f.section))
		}
		if i == bf.focus {
			focusRow = len(rows)
		}
		rows = append(rows, strings.Split(bf.fieldView(i, f), "\n")...)
		if msg, ok := bf.errors[f.key]; ok {
			rows = append(rows, formLabelStyle.Render("")+formErrorStyle.Render(msg))
		}
	}

	footer := bf.footerView(spinner)
	budget := height - lipgloss.Height(footer) - 1
	if budget < 8 {
		budget = 8
	}
	if len(rows) > budget {
		start := max(0, min(focusRow-budget/3, len(rows)-budget))
		rows = rows[start : start+budget]
	}

	return strings.Join(rows, "\n") + "\n\n" + footer
}

func (bf *bookingForm) fieldView(i int, f *formField) string {
	focused := i == bf.focus
	label := formLabelStyle.Render(f.label)
	if focused {
		label = formFocusStyle.Render("› " + f.label)
	}

	switch f.kind {
	case fieldSelect:
		v := f.get(bf.form)
		text := v
		if f.optionLabel != nil {
			text = f.optionLabel(v)
		}
		if focused {
			return label + formDimStyle.Render("‹ ") + formOptionStyle.Render(text) + formDimStyle.Render(" ›")
		}
		return label + text

	case fieldSearch:
		var b strings.Builder
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(f.search.View())
		return b.String()

	default:
		line := label + f.input.View()
		if f.isReadOnly(bf.form) {
			line = label + formDimStyle.Render(f.get(bf.form)+" (from search)")
		}
		if f.key == "reasonCode" && bf.form.Diagnosis != nil {
			line += "\n" + formLabelStyle.Render("") + formInfoStyle.Render("✓ Code from search: "+bf.form.ReasonCode)
		}
		if f.key == "serviceTypeCode" && bf.form.Procedure != nil {
			line += "\n" + formLabelStyle.Render("") + formInfoStyle.Render("✓ Selected procedure: "+bf.form.Procedure.Title)
		}
		return line
	}
}

func (bf *bookingForm) footerView(spinner string) string {
	var parts []string
	switch {
	case bf.submitting:
		parts = append(parts, spinner+" Booking appointment...")
	case bf.outcome != nil && bf.outcome.Success:
		body := "Appointment booked successfully\n" + bf.outcome.Message
		if bf.resource() != "" {
			body += "\n" + formDimStyle.Render("ctrl+v to view the FHIR resource")
		}
		parts = append(parts, successBoxStyle.Render(body))
	case bf.outcome != nil:
		body := bf.outcome.Message
		if bf.outcome.Details != "" {
			body += "\n" + bf.outcome.Details
		}
		parts = append(parts, errorBoxStyle.Render(body))
	case len(bf.errors) > 0:
		parts = append(parts, formErrorStyle.Render(fmt.Sprintf("Please fix %d field(s) before booking", len(bf.errors))))
	}
	if !bf.editing {
		parts = append(parts, formDimStyle.Render("Press enter to edit the form"))
	}
	return strings.Join(parts, "\n")
}
