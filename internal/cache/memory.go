package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type entry struct {
	data     []byte
	storedAt time.Time
}

// MemoryStore is the default single-process Store. Expired entries are
// treated as absent on read and replaced on the next Set; growth is
// unbounded, which is acceptable at the target key cardinality (a few
// cache keys per tracked symbol).
type MemoryStore struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore creates an in-process store with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value only while its age is strictly below the TTL.
func (s *MemoryStore) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || s.now().Sub(e.storedAt) >= s.ttl {
		return false, nil
	}

	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores the value, overwriting any previous entry for the key.
func (s *MemoryStore) Set(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries[key] = entry{data: data, storedAt: s.now()}
	s.mu.Unlock()
	return nil
}
