package memory

import (
	"context"
	"sync"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/kv"
)

// Store keeps slots in a map. A positive quota caps the summed footprint of
// all slots.
type Store struct {
	mu     sync.Mutex
	slots  map[string]string
	quota  int64
	closed bool
}

// New creates an empty store. quota <= 0 disables the limit.
func New(quota int64) *Store {
	return &Store{
		slots: make(map[string]string),
		quota: quota,
	}
}

// Get returns the value stored at key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", false, kv.ErrClosed
	}
	v, ok := s.slots[key]
	return v, ok, nil
}

// Set writes value at key unless the quota would be exceeded.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return kv.ErrClosed
	}
	if s.quota > 0 {
		used := s.usedLocked()
		if old, ok := s.slots[key]; ok {
			used -= kv.Footprint(key, old)
		}
		if used+kv.Footprint(key, value) > s.quota {
			return kv.ErrQuotaExceeded
		}
	}
	s.slots[key] = value
	return nil
}

// Remove deletes the slot at key.
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return kv.ErrClosed
	}
	delete(s.slots, key)
	return nil
}

// Used reports the summed footprint of all slots. Tests use it to check
// quota accounting.
func (s *Store) Used() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usedLocked()
}

// Close marks the store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) usedLocked() int64 {
	var used int64
	for k, v := range s.slots {
		used += kv.Footprint(k, v)
	}
	return used
}
