package logic

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicbook/internal/domain"
)

func fill(s *MemoryAppointmentStore, n int) {
	for i := 1; i <= n; i++ {
		status := "booked"
		if i%3 == 0 {
			status = "pending"
		}
		s.AddAppointment(domain.Appointment{ID: fmt.Sprintf("a%02d", i), Status: status})
	}
}

func ids(p domain.Page) []string {
	var out []string
	for _, a := range p.Data {
		out = append(out, a.ID)
	}
	return out
}

func TestPageKeepsInsertionOrder(t *testing.T) {
	s := NewMemoryAppointmentStore()
	fill(s, 12)

	p := s.Page(2, 5, nil)
	assert.Equal(t, []string{"a06", "a07", "a08", "a09", "a10"}, ids(p))
	require.NotNil(t, p.Pagination)
	assert.Equal(t, 2, *p.Pagination.CurrentPage)
	assert.Equal(t, 3, *p.Pagination.TotalPages)
	assert.Equal(t, 12, *p.Pagination.TotalItems)
	assert.True(t, *p.Pagination.HasNextPage)
	assert.True(t, *p.Pagination.HasPreviousPage)

	last := s.Page(3, 5, nil)
	assert.Equal(t, []string{"a11", "a12"}, ids(last))
	assert.False(t, *last.Pagination.HasNextPage)
}

func TestPageOutOfRangeIsEmpty(t *testing.T) {
	s := NewMemoryAppointmentStore()
	fill(s, 3)

	p := s.Page(4, 10, nil)
	assert.Empty(t, p.Data)
	assert.Equal(t, 3, *p.Pagination.TotalItems)

	empty := NewMemoryAppointmentStore().Page(0, 0, nil)
	assert.Empty(t, empty.Data)
	assert.Equal(t, 1, *empty.Pagination.CurrentPage)
	assert.Equal(t, 1, *empty.Pagination.TotalPages)
	assert.Equal(t, 0, *empty.Pagination.TotalItems)
}

func TestPageWithFilter(t *testing.T) {
	s := NewMemoryAppointmentStore()
	fill(s, 12)
	s.AddAppointment(domain.Appointment{ID: "a13", Status: "proposed"})

	p := s.Page(1, 10, IsPending)
	assert.Equal(t, []string{"a03", "a06", "a09", "a12", "a13"}, ids(p))
	assert.Equal(t, 5, *p.Pagination.TotalItems)
}

func TestAddReplaceAndRemove(t *testing.T) {
	s := NewMemoryAppointmentStore()
	fill(s, 3)

	s.AddAppointment(domain.Appointment{ID: "a01", Status: "cancelled"})
	assert.Equal(t, 3, s.Count())
	got, ok := s.GetAppointment("a01")
	require.True(t, ok)
	assert.Equal(t, "cancelled", got.Status)
	assert.Equal(t, []string{"a01", "a02", "a03"}, ids(s.Page(1, 10, nil)))

	s.RemoveAppointment("a02")
	s.RemoveAppointment("missing")
	assert.Equal(t, 2, s.Count())
	_, ok = s.GetAppointment("a02")
	assert.False(t, ok)
	assert.Equal(t, []string{"a01", "a03"}, ids(s.Page(1, 10, nil)))
}
