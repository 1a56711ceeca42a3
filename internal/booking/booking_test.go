package booking

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicbook/internal/domain"
)

var now = time.Date(2026, 5, 4, 9, 30, 0, 0, time.Local)

func TestNewFormDefaults(t *testing.T) {
	f := NewForm(now)
	assert.Equal(t, "booked", f.Status)
	assert.Equal(t, "0", f.Priority)
	assert.Equal(t, "2026-05-04T10:30", f.Start)
	assert.Equal(t, "2026-05-04T11:15", f.End)
	assert.Equal(t, "45", f.MinutesDuration)
	assert.Equal(t, now, f.Created)
}

func TestRecalculateDuration(t *testing.T) {
	f := NewForm(now)
	f.End = "2026-05-04T12:00"
	require.True(t, f.RecalculateDuration())
	assert.Equal(t, "90", f.MinutesDuration)

	// end before start leaves the duration alone
	f.End = "2026-05-04T10:00"
	assert.False(t, f.RecalculateDuration())
	assert.Equal(t, "90", f.MinutesDuration)

	f.End = "garbage"
	assert.False(t, f.RecalculateDuration())
}

func TestSelectAndClear(t *testing.T) {
	f := NewForm(now)
	f.SelectProcedure(domain.SearchResult{Code: "KBR.JB.CA", Title: "Colonoscopy"})
	assert.Equal(t, "KBR.JB.CA", f.ServiceTypeCode)
	assert.Equal(t, "Colonoscopy", f.ServiceTypeDisplay)
	assert.Equal(t, "Colonoscopy", f.ServiceTypeText)
	require.NotNil(t, f.Procedure)

	f.SelectDiagnosis(domain.SearchResult{Code: "DA92.Z", Title: "Gastritis"})
	assert.Equal(t, "DA92.Z", f.ReasonCode)
	assert.Equal(t, "Gastritis", f.ReasonText)

	f.ClearProcedure()
	f.ClearDiagnosis()
	assert.Nil(t, f.Procedure)
	assert.Nil(t, f.Diagnosis)
	assert.Empty(t, f.ServiceTypeCode+f.ServiceTypeDisplay+f.ServiceTypeText)
	assert.Empty(t, f.ReasonCode+f.ReasonDisplay+f.ReasonText)
}

func TestFillSampleAndReset(t *testing.T) {
	f := NewForm(now)
	f.FillSample(now)
	assert.Equal(t, "1", f.Priority)
	assert.Equal(t, "P001", f.PatientID)
	assert.Equal(t, "မောင်သူရိန်လင်း", f.PatientName)
	assert.Equal(t, "2026-05-05T09:30", f.Start)
	assert.Equal(t, "2026-05-05T10:15", f.End)
	require.NotNil(t, f.Diagnosis)
	assert.Equal(t, "Diseases of the digestive system", f.Diagnosis.Chapter)
	require.NoError(t, f.Validate())

	f.Reset(now)
	assert.Equal(t, *NewForm(now), *f)
}

func TestValidate(t *testing.T) {
	f := NewForm(now)
	err := f.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"locationId", "locationName", "patientId", "patientName", "practitionerId", "practitionerName"}, verr.Fields())
	assert.Equal(t, "patientId is required", verr.Errors["patientId"])

	f.FillSample(now)
	f.Status = "unknown"
	f.Priority = "7"
	f.MinutesDuration = "5"
	f.End = f.Start
	err = f.Validate()
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"end", "minutesDuration", "priority", "status"}, verr.Fields())
	assert.Equal(t, "end must be after start", verr.Errors["end"])
	assert.Equal(t, "minutesDuration must be between 15 and 480 minutes", verr.Errors["minutesDuration"])

	f.FillSample(now)
	f.Start = "tomorrow"
	err = f.Validate()
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Errors["start"], "date and time")
	assert.Contains(t, err.Error(), "validation failed")
}

func TestBuildFHIRSample(t *testing.T) {
	f := NewForm(now)
	f.FillSample(now)

	appt, err := f.BuildFHIR()
	require.NoError(t, err)

	assert.Equal(t, "Appointment", appt.ResourceType)
	assert.Equal(t, 1, appt.Priority)
	assert.Equal(t, 45, appt.MinutesDuration)
	assert.Equal(t, time.Date(2026, 5, 5, 9, 30, 0, 0, time.Local).UTC().Format(isoLayout), appt.Start)

	require.Len(t, appt.ServiceType, 1)
	assert.Equal(t, []domain.Coding{{System: "https://icd.who.int/devct11/ichi", Code: "KBO.JB.AE", Display: "Percutaneous drainage of appendix"}}, appt.ServiceType[0].Coding)
	require.Len(t, appt.ReasonCode, 1)
	assert.Equal(t, "https://icd.who.int", appt.ReasonCode[0].Coding[0].System)

	require.Len(t, appt.Participant, 3)
	assert.Equal(t, domain.Participant{
		Actor:    domain.Reference{Reference: "Practitioner/DOC001", Display: "Dr. Aung Ko Win"},
		Status:   "accepted",
		Required: "required",
	}, appt.Participant[1])
}

func TestBuildFHIROptionalParts(t *testing.T) {
	f := NewForm(now)
	f.PatientID = "P9"

	appt, err := f.BuildFHIR()
	require.NoError(t, err)
	assert.Nil(t, appt.ServiceType)
	assert.Nil(t, appt.ReasonCode)
	require.Len(t, appt.Participant, 1)

	data, err := json.Marshal(appt)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "serviceType")
	assert.NotContains(t, string(data), "reasonCode")

	// text only: concept without coding
	f.ServiceTypeText = "Free text procedure"
	// code only: display falls back to text, which is empty
	f.ReasonCode = "DA03.0"
	appt, err = f.BuildFHIR()
	require.NoError(t, err)
	require.Len(t, appt.ServiceType, 1)
	assert.Nil(t, appt.ServiceType[0].Coding)
	assert.Equal(t, "Free text procedure", appt.ServiceType[0].Text)
	require.Len(t, appt.ReasonCode[0].Coding, 1)
	assert.Equal(t, "", appt.ReasonCode[0].Coding[0].Display)

	// display falls back to text
	f.ReasonText = "Acute appendicitis"
	appt, err = f.BuildFHIR()
	require.NoError(t, err)
	assert.Equal(t, "Acute appendicitis", appt.ReasonCode[0].Coding[0].Display)
}

func TestBuildFHIRInvalidTimes(t *testing.T) {
	f := NewForm(now)
	f.End = ""
	_, err := f.BuildFHIR()
	assert.Error(t, err)
}

type stubBooker struct {
	res *domain.BookingResult
	err error
}

func (s stubBooker) BookAppointment(context.Context, *domain.FHIRAppointment) (*domain.BookingResult, error) {
	return s.res, s.err
}

func TestSubmit(t *testing.T) {
	appt := &domain.FHIRAppointment{ResourceType: "Appointment", Status: "booked"}
	ctx := context.Background()

	t.Run("success with server resource", func(t *testing.T) {
		out := Submit(ctx, stubBooker{res: &domain.BookingResult{Success: true, AppointmentID: "A1", FHIRResource: json.RawMessage(`{"id":"A1"}`)}}, appt)
		assert.True(t, out.Success)
		assert.Equal(t, "Appointment ID: A1", out.Message)
		assert.JSONEq(t, `{"id":"A1"}`, string(out.Resource))
	})

	t.Run("success falls back to sent payload", func(t *testing.T) {
		out := Submit(ctx, stubBooker{res: &domain.BookingResult{Success: true, AppointmentID: "A2"}}, appt)
		require.True(t, out.Success)
		var sent domain.FHIRAppointment
		require.NoError(t, json.Unmarshal(out.Resource, &sent))
		assert.Equal(t, "booked", sent.Status)
	})

	t.Run("rejected", func(t *testing.T) {
		out := Submit(ctx, stubBooker{res: &domain.BookingResult{Error: "Invalid", Details: json.RawMessage(`"missing patient"`)}, err: errors.New("400")}, appt)
		assert.False(t, out.Success)
		assert.Equal(t, "Invalid", out.Message)
		assert.Equal(t, "missing patient", out.Details)
	})

	t.Run("unsuccessful without error text", func(t *testing.T) {
		out := Submit(ctx, stubBooker{res: &domain.BookingResult{Message: "try later"}}, appt)
		assert.Equal(t, "Booking failed", out.Message)
		assert.Equal(t, "try later", out.Details)
	})

	t.Run("network", func(t *testing.T) {
		out := Submit(ctx, stubBooker{err: errors.New("dial tcp: refused")}, appt)
		assert.False(t, out.Success)
		assert.Equal(t, NetworkErrorMessage, out.Message)
		assert.Equal(t, "dial tcp: refused", out.Details)
	})
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", PrettyJSON(json.RawMessage(`{"a":1}`)))
	assert.Equal(t, "nope", PrettyJSON(json.RawMessage(`nope`)))
}
