package logic

import (
	"sync"

	"clinicbook/internal/domain"
)

// MemoryAppointmentStore is an in-memory implementation of AppointmentStore
type MemoryAppointmentStore struct {
	mu    sync.RWMutex
	order []string
	appts map[string]domain.Appointment
}

// NewMemoryAppointmentStore creates a new memory-based appointment store
func NewMemoryAppointmentStore() *MemoryAppointmentStore {
	return &MemoryAppointmentStore{
		appts: make(map[string]domain.Appointment),
	}
}

func (s *MemoryAppointmentStore) GetAppointment(id string) (domain.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appts[id]
	return a, ok
}

// AddAppointment inserts or replaces an appointment. Replacing keeps the
// original position.
func (s *MemoryAppointmentStore) AddAppointment(appt domain.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.appts[appt.ID]; !exists {
		s.order = append(s.order, appt.ID)
	}
	s.appts[appt.ID] = appt
}

func (s *MemoryAppointmentStore) RemoveAppointment(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.appts[id]; !exists {
		return
	}
	delete(s.appts, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *MemoryAppointmentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.appts)
}

func (s *MemoryAppointmentStore) Page(page, limit int, keep func(domain.Appointment) bool) domain.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}

	matched := make([]domain.Appointment, 0, len(s.order))
	for _, id := range s.order {
		a := s.appts[id]
		if keep == nil || keep(a) {
			matched = append(matched, a)
		}
	}

	total := len(matched)
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	from := min((page-1)*limit, total)
	to := min(from+limit, total)
	// copy to prevent external modification
	data := append([]domain.Appointment{}, matched[from:to]...)

	hasNext := page < totalPages
	hasPrev := page > 1
	return domain.Page{
		Data: data,
		Pagination: &domain.Pagination{
			CurrentPage:     &page,
			TotalPages:      &totalPages,
			TotalItems:      &total,
			HasNextPage:     &hasNext,
			HasPreviousPage: &hasPrev,
		},
	}
}
