package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// SearchResult is one coded term returned by a terminology search
type SearchResult struct {
	Code        string `json:"Code"`
	Title       string `json:"Title"`
	Description string `json:"Description,omitempty"`
	Chapter     string `json:"Chapter,omitempty"`
}

// SearchType selects which terminology a search runs against
type SearchType string

const (
	SearchProcedure SearchType = "procedure" // ICHI
	SearchDiagnosis SearchType = "diagnosis" // ICD-11
)

// System returns the display name of the coding system
func (t SearchType) System() string {
	if t == SearchDiagnosis {
		return "ICD-11"
	}
	return "ICHI"
}

// CodingSystem returns the FHIR coding system URI used in booking payloads
func (t SearchType) CodingSystem() string {
	if t == SearchDiagnosis {
		return "https://icd.who.int"
	}
	return "https://icd.who.int/devct11/ichi"
}

// Plural returns the human noun for result sets ("procedures", "diagnoses")
func (t SearchType) Plural() string {
	if t == SearchDiagnosis {
		return "diagnoses"
	}
	return "procedures"
}

// Appointment is a row of the appointment list endpoints
type Appointment struct {
	ID          string        `json:"id"`
	Status      string        `json:"status"`
	Priority    Priority      `json:"priority"`
	Start       string        `json:"start"`
	End         string        `json:"end"`
	PatientName string        `json:"patientName,omitempty"`
	DoctorName  string        `json:"doctorName,omitempty"`
	Diagnosis   string        `json:"diagnosis,omitempty"`
	Participant []Participant `json:"participant,omitempty"`
}

// StartTime parses the start timestamp. ok is false when it is missing or malformed.
func (a Appointment) StartTime() (time.Time, bool) {
	return parseTimestamp(a.Start)
}

// EndTime parses the end timestamp
func (a Appointment) EndTime() (time.Time, bool) {
	return parseTimestamp(a.End)
}

// ParticipantName returns the display of the first participant whose reference
// contains role (e.g. "Patient", "Practitioner")
func (a Appointment) ParticipantName(role string) string {
	for _, p := range a.Participant {
		if p.Actor.Reference != "" && strings.Contains(p.Actor.Reference, role) {
			return p.Actor.Display
		}
	}
	return ""
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Priority is the appointment priority. The backend sends it as a number, a
// numeric string, or an object of the form {"raw":{"priority":n}}.
type Priority struct {
	Value string
	Set   bool
}

// UnmarshalJSON accepts every priority shape the backend produces
func (p *Priority) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*p = Priority{}
		return nil
	}

	var wrapped struct {
		Raw *struct {
			Priority json.RawMessage `json:"priority"`
		} `json:"raw"`
	}
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		if wrapped.Raw == nil || len(wrapped.Raw.Priority) == 0 {
			*p = Priority{}
			return nil
		}
		return p.UnmarshalJSON(wrapped.Raw.Priority)
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Priority{Value: s, Set: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Priority{Value: n.String(), Set: true}
	return nil
}

// MarshalJSON writes numeric priorities as numbers
func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Set {
		return []byte("null"), nil
	}
	if _, err := strconv.Atoi(p.Value); err == nil {
		return []byte(p.Value), nil
	}
	return json.Marshal(p.Value)
}

// PriorityOf builds a numeric priority
func PriorityOf(n int) Priority {
	return Priority{Value: strconv.Itoa(n), Set: true}
}

// Pagination is the pagination block returned by paged endpoints. Every field is
// optional on the wire, so they are pointers.
type Pagination struct {
	CurrentPage     *int  `json:"currentPage,omitempty"`
	TotalPages      *int  `json:"totalPages,omitempty"`
	TotalItems      *int  `json:"totalItems,omitempty"`
	HasNextPage     *bool `json:"hasNextPage,omitempty"`
	HasPreviousPage *bool `json:"hasPreviousPage,omitempty"`
}

// Page is the envelope of a paged list response
type Page struct {
	Data       []Appointment `json:"data"`
	Pagination *Pagination   `json:"pagination,omitempty"`
}

// Filter is the client-side temporal filter applied to a loaded page
type Filter string

const (
	FilterAll      Filter = "all"
	FilterToday    Filter = "today"
	FilterUpcoming Filter = "upcoming"
	FilterPast     Filter = "past"
)

// Filters lists the filters in display order
var Filters = []Filter{FilterAll, FilterToday, FilterUpcoming, FilterPast}

// ParseFilter converts a user-supplied name to a Filter
func ParseFilter(s string) (Filter, bool) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterAll, "":
		return FilterAll, true
	case FilterToday:
		return FilterToday, true
	case FilterUpcoming:
		return FilterUpcoming, true
	case FilterPast:
		return FilterPast, true
	}
	return FilterAll, false
}

// Label returns the capitalised filter name
func (f Filter) Label() string {
	switch f {
	case FilterToday:
		return "Today"
	case FilterUpcoming:
		return "Upcoming"
	case FilterPast:
		return "Past"
	default:
		return "All"
	}
}
