package event

import (
	"slices"
	"sync"

	"github.com/fieldops/backend/internal/domain/shared"
)

// HandlerRegistry maps event types to the handlers subscribed to them
type HandlerRegistry struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	wildcard []shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{byType: make(map[string][]shared.EventHandler)}
}

// Register subscribes handler to eventTypes, or to every event when none are given.
// Registering the same handler twice for a type is a no-op.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		if !slices.Contains(r.wildcard, handler) {
			r.wildcard = append(r.wildcard, handler)
		}
		return
	}
	for _, t := range eventTypes {
		if !slices.Contains(r.byType[t], handler) {
			r.byType[t] = append(r.byType[t], handler)
		}
	}
}

// Unregister removes handler from every subscription
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wildcard = slices.DeleteFunc(r.wildcard, func(h shared.EventHandler) bool { return h == handler })
	for t, handlers := range r.byType {
		handlers = slices.DeleteFunc(handlers, func(h shared.EventHandler) bool { return h == handler })
		if len(handlers) == 0 {
			delete(r.byType, t)
			continue
		}
		r.byType[t] = handlers
	}
}

// HandlersFor returns the type-specific handlers of eventType followed by the wildcard handlers
func (r *HandlerRegistry) HandlersFor(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typed := r.byType[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(r.wildcard))
	out = append(out, typed...)
	return append(out, r.wildcard...)
}

// Len returns the number of distinct subscribed handlers
func (r *HandlerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[shared.EventHandler]struct{})
	for _, h := range r.wildcard {
		seen[h] = struct{}{}
	}
	for _, handlers := range r.byType {
		for _, h := range handlers {
			seen[h] = struct{}{}
		}
	}
	return len(seen)
}
