package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan DomainEvent) DomainEvent {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
		return nil
	}
}

func TestPublishReachesSubscribersOfType(t *testing.T) {
	b := New()
	defer b.Close()

	booked := make(chan DomainEvent, 2)
	errs := make(chan DomainEvent, 2)
	b.Subscribe(EventAppointmentBooked, func(e DomainEvent) { booked <- e })
	b.Subscribe(EventAppointmentBooked, func(e DomainEvent) { booked <- e })
	b.Subscribe(EventError, func(e DomainEvent) { errs <- e })

	b.Publish(AppointmentBookedEvent{AppointmentID: "apt-001"})

	assert.Equal(t, AppointmentBookedEvent{AppointmentID: "apt-001"}, receive(t, booked))
	assert.Equal(t, AppointmentBookedEvent{AppointmentID: "apt-001"}, receive(t, booked))
	select {
	case e := <-errs:
		t.Fatalf("unexpected event %v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	defer b.Close()

	kept := make(chan DomainEvent, 1)
	dropped := make(chan DomainEvent, 1)
	unsub := b.Subscribe(EventListRefreshRequested, func(e DomainEvent) { dropped <- e })
	b.Subscribe(EventListRefreshRequested, func(e DomainEvent) { kept <- e })
	unsub()
	unsub()

	b.Publish(ListRefreshRequestedEvent{})
	receive(t, kept)
	select {
	case <-dropped:
		t.Fatal("unsubscribed handler was called")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandlerPanicDoesNotStopBus(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan DomainEvent, 1)
	b.Subscribe(EventError, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventConfigSaved, func(e DomainEvent) { got <- e })

	b.Publish(ErrorEvent{Message: "x"})
	b.Publish(ConfigSavedEvent{})
	assert.Equal(t, ConfigSavedEvent{}, receive(t, got))
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	b := New()
	var mu sync.Mutex
	calls := 0
	b.Subscribe(EventConfigLoaded, func(DomainEvent) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	b.Close()
	b.Close()
	require.NotPanics(t, func() { b.Publish(ConfigLoadedEvent{}) })

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}
