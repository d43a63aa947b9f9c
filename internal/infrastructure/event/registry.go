package event

import (
	"sync"

	"github.com/wms/backend/internal/domain/shared"
)

// HandlerRegistry keeps track of which handlers subscribe to which event
// types. Safe for concurrent use.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string][]shared.EventHandler),
	}
}

// Register subscribes a handler to the given event types
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, eventType := range eventTypes {
		r.handlers[eventType] = append(r.handlers[eventType], handler)
	}
}

// Unregister removes a handler from every event type it subscribed to
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for eventType, handlers := range r.handlers {
		kept := handlers[:0]
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		if len(kept) == 0 {
			delete(r.handlers, eventType)
		} else {
			r.handlers[eventType] = kept
		}
	}
}

// GetHandlers returns the handlers subscribed to an event type
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handlers := r.handlers[eventType]
	out := make([]shared.EventHandler, len(handlers))
	copy(out, handlers)
	return out
}
