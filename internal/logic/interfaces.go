package logic

import "clinicbook/internal/domain"

// AppointmentStore provides access to appointment data
type AppointmentStore interface {
	GetAppointment(id string) (domain.Appointment, bool)
	AddAppointment(appt domain.Appointment)
	RemoveAppointment(id string)
	Count() int
	// Page returns one page of the appointments accepted by keep, in
	// insertion order. A nil keep accepts everything.
	Page(page, limit int, keep func(domain.Appointment) bool) domain.Page
}

// IsPending selects appointments awaiting confirmation
func IsPending(a domain.Appointment) bool {
	return a.Status == "pending" || a.Status == "proposed"
}
