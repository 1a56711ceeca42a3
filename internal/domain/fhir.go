package domain

import "encoding/json"

// Coding is a FHIR Coding
type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// CodeableConcept is a FHIR CodeableConcept
type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// Reference is a FHIR Reference
type Reference struct {
	Reference string `json:"reference,omitempty"`
	Display   string `json:"display,omitempty"`
}

// Participant is an Appointment.participant entry
type Participant struct {
	Actor    Reference `json:"actor"`
	Status   string    `json:"status,omitempty"`
	Required string    `json:"required,omitempty"`
}

// FHIRAppointment is the Appointment resource submitted when booking
type FHIRAppointment struct {
	ResourceType    string            `json:"resourceType"`
	Status          string            `json:"status"`
	Priority        int               `json:"priority"`
	Start           string            `json:"start"`
	End             string            `json:"end"`
	MinutesDuration int               `json:"minutesDuration"`
	Created         string            `json:"created"`
	Comment         string            `json:"comment"`
	ServiceType     []CodeableConcept `json:"serviceType,omitempty"`
	ReasonCode      []CodeableConcept `json:"reasonCode,omitempty"`
	Participant     []Participant     `json:"participant"`
}

// BookingResult is the response of the booking endpoint
type BookingResult struct {
	Success       bool            `json:"success"`
	AppointmentID string          `json:"appointmentId,omitempty"`
	FHIRResource  json.RawMessage `json:"fhirResource,omitempty"`
	Error         string          `json:"error,omitempty"`
	Details       json.RawMessage `json:"details,omitempty"`
	Message       string          `json:"message,omitempty"`
}
