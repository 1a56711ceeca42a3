package ui

import (
	"clinicbook/internal/booking"
	"clinicbook/internal/domain"
	"clinicbook/internal/eventbus"
	"clinicbook/internal/pagination"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// pageLoadedMsg carries the outcome of a list fetch
type pageLoadedMsg struct {
	tab  int
	req  pagination.Request
	page *domain.Page
	err  error
}

// bookedMsg carries the outcome of a booking submission
type bookedMsg struct {
	outcome booking.Outcome
}

// resetFormMsg fires after a successful booking; stale generations are ignored
type resetFormMsg struct {
	gen int
}

// pagerMsg is sent when the pager exits
type pagerMsg struct {
	err error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
