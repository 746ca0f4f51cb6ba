package cache

import (
	"sync"
	"time"
)

// DefaultTTL matches the daily publishing cycle: every memoized lookup
// is considered fresh for 24 hours unless the store is cleared first.
const DefaultTTL = 24 * time.Hour

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is a process-local memoization cache with a single TTL and
// whole-store invalidation. Entries are never updated in place; a
// rebuild writes a fresh value and readers see either the old or the
// new one, never a mix.
type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry

	// now is swappable in tests
	now func() time.Time
}

func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (s *Store) Set(key string, v any) {
	s.mu.Lock()
	s.entries[key] = entry{value: v, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
}

// Clear drops every entry. Idempotent; this is the only invalidation
// the daily schedule performs.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// SetNowFunc overrides the store's clock. Tests only.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}
