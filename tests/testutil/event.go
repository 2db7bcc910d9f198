package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MockEventHandler records the events it receives.
type MockEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewMockEventHandler creates a handler subscribed to eventTypes, or to all events when none are given.
func NewMockEventHandler(eventTypes ...string) *MockEventHandler {
	return &MockEventHandler{eventTypes: eventTypes}
}

// EventTypes returns the event types this handler subscribes to.
func (h *MockEventHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle records event and returns the configured error.
func (h *MockEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// Handled returns a copy of the recorded events.
func (h *MockEventHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

// HandledCount returns the number of recorded events.
func (h *MockEventHandler) HandledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

// SetError makes Handle fail with err.
func (h *MockEventHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// TestEvent is a domain event about an arbitrary aggregate.
type TestEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

// NewTestEvent creates an event of eventType about aggregateID.
func NewTestEvent(eventType string, aggregateID uuid.UUID) *TestEvent {
	return &TestEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", aggregateID),
		Data:            "test-data",
	}
}

// WaitForEventCount polls until handler has recorded at least count events.
func WaitForEventCount(t *testing.T, handler *MockEventHandler, count int, timeout time.Duration) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if handler.HandledCount() >= count {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
