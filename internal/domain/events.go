package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventAppointmentBooked    EventType = "AppointmentBooked"
	EventListRefreshRequested EventType = "ListRefreshRequested"
	EventError                EventType = "Error"
	EventConfigLoaded         EventType = "ConfigLoaded"
	EventConfigSaved          EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// AppointmentBookedEvent is emitted after the backend accepted a booking
type AppointmentBookedEvent struct {
	AppointmentID string
}

func (e AppointmentBookedEvent) Type() EventType { return EventAppointmentBooked }

// ListRefreshRequestedEvent asks the list views to refetch their current page
type ListRefreshRequestedEvent struct{}

func (e ListRefreshRequestedEvent) Type() EventType { return EventListRefreshRequested }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	APIBaseURL string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
