package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "WorkOrder", uuid.New()),
		Data:            "payload",
	}
}

type testHandler struct {
	eventTypes []string
	err        error
	panicWith  any

	mu      sync.Mutex
	handled []shared.DomainEvent
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, ev)
	h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())

	created := newTestHandler("WorkOrderCreated")
	all := newTestHandler()
	bus.Subscribe(created)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(ctx, newTestEvent("WorkOrderCreated"), newTestEvent("WorkOrderImported"), nil))
	assert.Equal(t, 1, created.count())
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := newTestHandler("WorkOrderCreated")
	bus.Subscribe(h, "GroupDeleted")

	_ = bus.Publish(context.Background(), newTestEvent("WorkOrderCreated"), newTestEvent("GroupDeleted"))
	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_FailingHandlersDoNotStopDelivery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	ctx := logger.WithContext(context.Background(), zap.New(core))
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := newTestHandler("WorkOrderCreated")
	failing.err = errors.New("boom")
	panicking := newTestHandler("WorkOrderCreated")
	panicking.panicWith = "nil map"
	healthy := newTestHandler("WorkOrderCreated")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(ctx, newTestEvent("WorkOrderCreated")))
	assert.Equal(t, 1, healthy.count())
	assert.Equal(t, int64(2), bus.Failures())
	assert.Equal(t, 2, logs.FilterMessage("Event handler failed").Len())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("WorkOrderCreated")
	bus.Subscribe(h)

	_ = bus.Publish(ctx, newTestEvent("WorkOrderCreated"))
	bus.Unsubscribe(h)
	_ = bus.Publish(ctx, newTestEvent("WorkOrderCreated"))
	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())

	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.Running())
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.Running())
}

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	a := newTestHandler()
	b := newTestHandler()

	r.Register(a, "GroupDeleted", "GroupDeleted")
	r.Register(b)
	r.Register(b)

	assert.Equal(t, []shared.EventHandler{a, b}, r.HandlersFor("GroupDeleted"))
	assert.Equal(t, []shared.EventHandler{b}, r.HandlersFor("TechnicianCreated"))
	assert.Equal(t, 2, r.Len())

	r.Unregister(a)
	assert.Equal(t, []shared.EventHandler{b}, r.HandlersFor("GroupDeleted"))
	assert.Equal(t, 1, r.Len())
}

func TestAuditLogHandler(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.WithContext(context.Background(), zap.New(core))

	ev := newTestEvent("WorkOrderImported")
	require.NoError(t, NewAuditLogHandler().Handle(ctx, ev))

	entries := logs.FilterMessage("Domain event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "WorkOrderImported", fields["event_type"])
	assert.Equal(t, ev.AggregateID().String(), fields["aggregate_id"])
	assert.Contains(t, fields["payload"], `"data":"payload"`)
	assert.Nil(t, NewAuditLogHandler().EventTypes())
}
