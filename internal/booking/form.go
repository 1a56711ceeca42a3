package booking

import (
	"math"
	"strconv"
	"strings"
	"time"

	"clinicbook/internal/domain"
)

// Statuses are the appointment statuses the form offers, in display order
var Statuses = []string{"booked", "pending", "proposed", "arrived", "fulfilled", "cancelled", "noshow"}

// Priorities are the selectable priority values
var Priorities = []string{"0", "1", "2", "3"}

// PriorityName returns the option label of a priority value
func PriorityName(p string) string {
	switch p {
	case "0":
		return "Routine (0)"
	case "1":
		return "Urgent (1)"
	case "2":
		return "ASAP (2)"
	case "3":
		return "STAT (3)"
	}
	return p
}

// Form holds the booking form values. Timestamps are local wall-clock times
// in DateTimeLayout.
type Form struct {
	Status   string `json:"status" validate:"required,oneof=booked pending proposed arrived fulfilled cancelled noshow"`
	Priority string `json:"priority" validate:"required,oneof=0 1 2 3"`

	ServiceTypeCode    string `json:"serviceTypeCode"`
	ServiceTypeDisplay string `json:"serviceTypeDisplay"`
	ServiceTypeText    string `json:"serviceTypeText"`

	ReasonCode    string `json:"reasonCode"`
	ReasonDisplay string `json:"reasonDisplay"`
	ReasonText    string `json:"reasonText"`

	Start           string `json:"start" validate:"required,datetime=2006-01-02T15:04"`
	End             string `json:"end" validate:"required,datetime=2006-01-02T15:04"`
	MinutesDuration string `json:"minutesDuration" validate:"required,minutes"`

	Comment string `json:"comment"`

	PatientID        string `json:"patientId" validate:"required"`
	PatientName      string `json:"patientName" validate:"required"`
	PractitionerID   string `json:"practitionerId" validate:"required"`
	PractitionerName string `json:"practitionerName" validate:"required"`
	LocationID       string `json:"locationId" validate:"required"`
	LocationName     string `json:"locationName" validate:"required"`

	Created time.Time `json:"created" validate:"-"`

	Procedure *domain.SearchResult `json:"-" validate:"-"`
	Diagnosis *domain.SearchResult `json:"-" validate:"-"`
}

// NewForm returns a form with default timing relative to now: start in one
// hour, a 45 minute slot, status booked and routine priority.
func NewForm(now time.Time) *Form {
	start := now.Add(time.Hour)
	end := start.Add(45 * time.Minute)
	return &Form{
		Status:          "booked",
		Priority:        "0",
		Start:           start.Format(DateTimeLayout),
		End:             end.Format(DateTimeLayout),
		MinutesDuration: "45",
		Created:         now,
	}
}

// Reset restores the defaults relative to now and drops the selections
func (f *Form) Reset(now time.Time) {
	*f = *NewForm(now)
}

// FillSample populates the form with a complete example booking for tomorrow
func (f *Form) FillSample(now time.Time) {
	start := now.Add(24 * time.Hour)
	end := start.Add(45 * time.Minute)
	*f = Form{
		Status:             "booked",
		Priority:           "1",
		ServiceTypeCode:    "KBO.JB.AE",
		ServiceTypeDisplay: "Percutaneous drainage of appendix",
		ServiceTypeText:    "Percutaneous drainage of appendix",
		ReasonText:         "Acute appendicitis",
		ReasonCode:         "DA03.0",
		ReasonDisplay:      "Acute appendicitis",
		Start:              start.Format(DateTimeLayout),
		End:                end.Format(DateTimeLayout),
		MinutesDuration:    "45",
		Comment:            "Anaesthesia appointment for acute appendicitis case",
		PatientID:          "P001",
		PatientName:        "မောင်သူရိန်လင်း",
		PractitionerID:     "DOC001",
		PractitionerName:   "Dr. Aung Ko Win",
		LocationID:         "OR1",
		LocationName:       "Operating Room 1",
		Created:            now,
		Procedure: &domain.SearchResult{
			Code:        "KBO.JB.AE",
			Title:       "Percutaneous drainage of appendix",
			Description: "Percutaneous drainage procedure for appendix",
		},
		Diagnosis: &domain.SearchResult{
			Code:        "DA03.0",
			Title:       "Acute appendicitis",
			Description: "Acute inflammation of the appendix",
			Chapter:     "Diseases of the digestive system",
		},
	}
}

// RecalculateDuration sets minutesDuration from start and end when end is
// after start. Otherwise the duration is left alone.
func (f *Form) RecalculateDuration() bool {
	start, ok1 := parseLocal(f.Start)
	end, ok2 := parseLocal(f.End)
	if !ok1 || !ok2 || !end.After(start) {
		return false
	}
	minutes := int(math.Round(end.Sub(start).Minutes()))
	f.MinutesDuration = strconv.Itoa(minutes)
	return true
}

// SelectProcedure stores a chosen ICHI procedure as the service type
func (f *Form) SelectProcedure(r domain.SearchResult) {
	sel := r
	f.Procedure = &sel
	f.ServiceTypeCode = r.Code
	f.ServiceTypeDisplay = r.Title
	f.ServiceTypeText = r.Title
}

// ClearProcedure drops the service type
func (f *Form) ClearProcedure() {
	f.Procedure = nil
	f.ServiceTypeCode = ""
	f.ServiceTypeDisplay = ""
	f.ServiceTypeText = ""
}

// SelectDiagnosis stores a chosen ICD-11 diagnosis as the reason
func (f *Form) SelectDiagnosis(r domain.SearchResult) {
	sel := r
	f.Diagnosis = &sel
	f.ReasonCode = r.Code
	f.ReasonDisplay = r.Title
	f.ReasonText = r.Title
}

// ClearDiagnosis drops the reason
func (f *Form) ClearDiagnosis() {
	f.Diagnosis = nil
	f.ReasonCode = ""
	f.ReasonDisplay = ""
	f.ReasonText = ""
}

func parseLocal(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(s), time.Local)
	return t, err == nil
}
