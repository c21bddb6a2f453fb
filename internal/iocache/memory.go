package iocache

import (
	"sync"

	"github.com/albummap/amdb/pkg/cache"
)

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]cache.Entry
}

// NewMemory returns a volatile in-memory cache. It exists for tests and
// for --no-cache style experiments; nothing survives the process.
func NewMemory() cache.Store {
	return &memoryStore{entries: make(map[string]cache.Entry)}
}

func (s *memoryStore) Get(key string) (*cache.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	cp := e
	return &cp, nil
}

func (s *memoryStore) Put(key string, e *cache.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = *e
	return nil
}

func (s *memoryStore) Has(key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok, nil
}

func (s *memoryStore) Close() error { return nil }
