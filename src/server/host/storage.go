package host

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"file-gateway/src/internal/common"
	"file-gateway/src/internal/types"
)

// FileStorage persists small user-scoped values as JSON in the settings
// home. It implements types.Storage. Write failures are logged and the
// value kept in memory for the session.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	values map[string]bool
	logger *common.SafeLogger
}

// NewFileStorage loads storage from the given file, starting empty when the
// file does not exist yet.
func NewFileStorage(path string) *FileStorage {
	s := &FileStorage{
		path:   path,
		values: make(map[string]bool),
		logger: common.FileLogger,
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &s.values); err != nil {
			s.logger.Warn("ignoring corrupt storage file %s: %v", path, err)
			s.values = make(map[string]bool)
		}
	}

	return s
}

// GetBool returns the stored value for key, or fallback when absent
func (s *FileStorage) GetBool(key string, fallback bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value, ok := s.values[key]; ok {
		return value
	}
	return fallback
}

// SetBool stores a value under key and flushes to disk
func (s *FileStorage) SetBool(key string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		s.logger.Warn("failed to marshal storage: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.logger.Warn("failed to create storage directory: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.logger.Warn("failed to write storage file %s: %v", s.path, err)
	}
}

var _ types.Storage = (*FileStorage)(nil)
