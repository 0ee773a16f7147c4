package config

import (
	"sync"

	"file-gateway/src/internal/types"
)

// Service holds the live configuration and notifies subscribers on updates.
// It implements types.ConfigurationSource.
type Service struct {
	mu       sync.Mutex
	current  types.FileConfiguration
	handlers map[int]func(types.FileConfiguration)
	nextID   int
}

// NewService creates a configuration service seeded with cfg
func NewService(cfg *Config) *Service {
	return &Service{
		current:  cfg.FileConfiguration(),
		handlers: make(map[int]func(types.FileConfiguration)),
	}
}

// Configuration returns the current file configuration values
func (s *Service) Configuration() types.FileConfiguration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// OnDidChange registers a change handler and returns its cancellation handle
func (s *Service) OnDidChange(handler func(types.FileConfiguration)) types.Disposable {
	s.mu.Lock()
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

// Update replaces the current configuration and notifies all subscribers
func (s *Service) Update(cfg *Config) {
	s.mu.Lock()
	s.current = cfg.FileConfiguration()
	value := s.current
	handlers := make([]func(types.FileConfiguration), 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h(value)
	}
}
