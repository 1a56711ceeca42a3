package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"clinicbook/internal/domain"
)

// isoLayout matches the millisecond UTC timestamps the backend expects
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// BuildFHIR converts the form into the Appointment resource to submit. Only
// the timestamps can fail to convert; callers validate first.
func (f *Form) BuildFHIR() (*domain.FHIRAppointment, error) {
	start, ok := parseLocal(f.Start)
	if !ok {
		return nil, fmt.Errorf("invalid start %q", f.Start)
	}
	end, ok := parseLocal(f.End)
	if !ok {
		return nil, fmt.Errorf("invalid end %q", f.End)
	}
	priority, _ := strconv.Atoi(f.Priority)
	minutes, _ := strconv.Atoi(strings.TrimSpace(f.MinutesDuration))
	created := f.Created
	if created.IsZero() {
		created = time.Now()
	}

	appt := &domain.FHIRAppointment{
		ResourceType:    "Appointment",
		Status:          f.Status,
		Priority:        priority,
		Start:           start.UTC().Format(isoLayout),
		End:             end.UTC().Format(isoLayout),
		MinutesDuration: minutes,
		Created:         created.UTC().Format(isoLayout),
		Comment:         f.Comment,
		Participant:     []domain.Participant{},
	}

	if concept, ok := codeableConcept(domain.SearchProcedure, f.ServiceTypeCode, f.ServiceTypeDisplay, f.ServiceTypeText); ok {
		appt.ServiceType = []domain.CodeableConcept{concept}
	}
	if concept, ok := codeableConcept(domain.SearchDiagnosis, f.ReasonCode, f.ReasonDisplay, f.ReasonText); ok {
		appt.ReasonCode = []domain.CodeableConcept{concept}
	}

	for _, p := range []struct{ kind, id, name string }{
		{"Patient", f.PatientID, f.PatientName},
		{"Practitioner", f.PractitionerID, f.PractitionerName},
		{"Location", f.LocationID, f.LocationName},
	} {
		if p.id == "" {
			continue
		}
		appt.Participant = append(appt.Participant, domain.Participant{
			Actor:    domain.Reference{Reference: p.kind + "/" + p.id, Display: p.name},
			Status:   "accepted",
			Required: "required",
		})
	}

	return appt, nil
}

// codeableConcept is present when a code or text is set; the coding only
// when a code is set
func codeableConcept(t domain.SearchType, code, display, text string) (domain.CodeableConcept, bool) {
	if code == "" && text == "" {
		return domain.CodeableConcept{}, false
	}
	concept := domain.CodeableConcept{Text: text}
	if code != "" {
		if display == "" {
			display = text
		}
		concept.Coding = []domain.Coding{{System: t.CodingSystem(), Code: code, Display: display}}
	}
	return concept, true
}

// Booker submits appointments
type Booker interface {
	BookAppointment(ctx context.Context, appt *domain.FHIRAppointment) (*domain.BookingResult, error)
}

// Outcome is what the form shows after a submission
type Outcome struct {
	Success       bool
	AppointmentID string
	Message       string
	Details       string
	Resource      json.RawMessage
}

// NetworkErrorMessage is shown when the backend could not be reached
const NetworkErrorMessage = "Network error or server unreachable"

// Submit sends appt and maps the response to an Outcome. Rejections that carry
// a body surface the backend's error and details.
func Submit(ctx context.Context, b Booker, appt *domain.FHIRAppointment) Outcome {
	res, err := b.BookAppointment(ctx, appt)
	if res == nil {
		msg := "no response"
		if err != nil {
			msg = err.Error()
		}
		log.Error().Err(err).Msg("booking: submit failed")
		return Outcome{Message: NetworkErrorMessage, Details: msg}
	}

	if err == nil && res.Success {
		resource := res.FHIRResource
		if len(bytes.TrimSpace(resource)) == 0 || bytes.Equal(bytes.TrimSpace(resource), []byte("null")) {
			resource, _ = json.Marshal(appt)
		}
		log.Info().Str("appointment_id", res.AppointmentID).Msg("booking: appointment booked")
		return Outcome{
			Success:       true,
			AppointmentID: res.AppointmentID,
			Message:       "Appointment ID: " + res.AppointmentID,
			Resource:      resource,
		}
	}

	msg := res.Error
	if msg == "" {
		msg = "Booking failed"
	}
	details := detailsText(res.Details)
	if details == "" {
		details = res.Message
	}
	log.Warn().Err(err).Str("error", msg).Msg("booking: rejected")
	return Outcome{Message: msg, Details: details}
}

// detailsText renders a details payload; JSON strings are unquoted
func detailsText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// PrettyJSON indents a JSON document for display. Invalid input is returned
// unchanged.
func PrettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
