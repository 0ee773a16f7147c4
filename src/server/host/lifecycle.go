package host

import (
	"sync"

	"file-gateway/src/internal/types"
)

// ShutdownSignal fans a single shutdown event out to registered handlers.
// It implements types.Lifecycle.
type ShutdownSignal struct {
	mu       sync.Mutex
	handlers map[int]func()
	nextID   int
	fired    bool
}

// NewShutdownSignal creates an un-fired shutdown signal
func NewShutdownSignal() *ShutdownSignal {
	return &ShutdownSignal{handlers: make(map[int]func())}
}

// OnShutdown registers a handler. Registering after shutdown has fired
// invokes the handler immediately.
func (s *ShutdownSignal) OnShutdown(handler func()) types.Disposable {
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		handler()
		return types.DisposableFunc(func() {})
	}

	id := s.nextID
	s.nextID++
	s.handlers[id] = handler
	s.mu.Unlock()

	return types.DisposableFunc(func() {
		s.mu.Lock()
		delete(s.handlers, id)
		s.mu.Unlock()
	})
}

// Shutdown fires the signal once; later calls do nothing
func (s *ShutdownSignal) Shutdown() {
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		return
	}
	s.fired = true
	handlers := make([]func(), 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	s.handlers = nil
	s.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}

var _ types.Lifecycle = (*ShutdownSignal)(nil)
