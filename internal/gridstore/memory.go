package gridstore

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// MemoryStore holds grids in process memory. Intended for tests.
type MemoryStore struct {
	mu    sync.RWMutex
	grids map[string][]byte
}

// NewMemory returns an empty in-memory grid store.
func NewMemory() *MemoryStore {
	return &MemoryStore{grids: make(map[string][]byte)}
}

// Add registers grid content under a name, replacing any previous content.
func (s *MemoryStore) Add(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grids[name] = append([]byte(nil), data...)
}

// Available reports whether the named grid was added.
func (s *MemoryStore) Available(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.grids[name]
	return ok, nil
}

// Fetch returns a reader over a copy of the grid content.
func (s *MemoryStore) Fetch(_ context.Context, name string) (io.ReadCloser, error) {
	s.mu.RLock()
	data, ok := s.grids[name]
	s.mu.RUnlock()
	if !ok {
		return nil, NotFoundError{Name: name}
	}
	return io.NopCloser(bytes.NewReader(append([]byte(nil), data...))), nil
}
