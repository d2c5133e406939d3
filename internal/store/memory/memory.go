// Package memory is an in-process KV backend. Data is lost on restart.
package memory

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	updatedAt time.Time
}

// Store is a mutex-guarded map. It implements store.KV and store.Sweeper.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns a copy of the stored value. A read counts as activity, so
// it refreshes the entry's age like a write.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	e.updatedAt = s.now()
	s.entries[key] = e
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

// Set stores a copy of value.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{value: v, updatedAt: s.now()}
	return nil
}

// Delete removes keys; missing keys are ignored.
func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}

// Sweep drops entries last read or written before olderThan.
func (s *Store) Sweep(_ context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if e.updatedAt.Before(olderThan) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Count implements the key counter used by the infra endpoint.
func (s *Store) Count(_ context.Context) (int, error) {
	return s.Len(), nil
}
