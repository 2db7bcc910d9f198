// Package event dispatches domain events to in-process handlers.
package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// InMemoryEventBus delivers events synchronously to the handlers in its registry.
// A failing or panicking handler is logged and does not stop delivery to the others.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	running  atomic.Bool
	failures atomic.Int64
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(log *zap.Logger) *InMemoryEventBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   log,
	}
}

// Publish delivers each event to its handlers in subscription order
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, ev := range events {
		if ev == nil {
			continue
		}
		for _, handler := range b.registry.HandlersFor(ev.EventType()) {
			if err := b.dispatch(ctx, handler, ev); err != nil {
				b.failures.Add(1)
				logger.L(ctx).Error("Event handler failed",
					zap.String("event_type", ev.EventType()),
					zap.String("event_id", ev.EventID().String()),
					zap.String("aggregate_id", ev.AggregateID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, falling back to handler.EventTypes()
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes handler from all event types
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start marks the bus as running
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.running.Store(true)
	b.logger.Info("Event bus started", zap.Int("handlers", b.registry.Len()))
	return nil
}

// Stop marks the bus as stopped. Delivery is synchronous, so nothing is in flight once Publish returns.
func (b *InMemoryEventBus) Stop(_ context.Context) error {
	b.running.Store(false)
	b.logger.Info("Event bus stopped", zap.Int64("handler_failures", b.failures.Load()))
	return nil
}

// Running reports whether Start has been called without a matching Stop
func (b *InMemoryEventBus) Running() bool {
	return b.running.Load()
}

// Failures returns the number of handler invocations that failed or panicked
func (b *InMemoryEventBus) Failures() int64 {
	return b.failures.Load()
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, ev)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
