// internal/event/manager.go
package event

import (
	"sync"

	"github.com/darealtrueblue/codeforge/internal/logger"
)

// Handler is the function signature for event subscribers. The return value
// reports whether the event was consumed; consumed events still propagate
// for now, the flag is reserved for future use.
type Handler func(e Event) bool

// Manager handles event subscriptions and dispatching.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe adds a handler function for a specific event type.
func (m *Manager) Subscribe(eventType Type, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[eventType] = append(m.handlers[eventType], handler)
}

// Dispatch sends an event to all registered handlers for its type. Handlers
// run synchronously in subscription order; the slice is copied first so a
// handler that subscribes during dispatch cannot corrupt the iteration.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	e := Event{Type: eventType, Data: data}

	m.mu.RLock()
	handlers := m.handlers[eventType]
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	handlersCopy := make([]Handler, len(handlers))
	copy(handlersCopy, handlers)

	logger.DebugTagf("event", "Dispatching event type %v to %d handler(s)", eventType, len(handlersCopy))
	for _, handler := range handlersCopy {
		handler(e)
	}
}
