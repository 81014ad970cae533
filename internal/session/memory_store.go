package session

import (
	"context"
	"sync"
	"time"

	"github.com/cixi/storefront-backend/internal/cart"
)

type memoryEntry struct {
	cart      *cart.Cart
	expiresAt time.Time
}

// MemoryStore is a process-local Store for development and tests.
// Carts are cloned on the way in and out so callers never share state.
// Expired entries are swept from Save at most once per TTL.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*cart.Cart, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return cart.New(), nil
	}
	now := s.now()
	if s.ttl > 0 && now.After(entry.expiresAt) {
		delete(s.entries, id)
		return cart.New(), nil
	}
	entry.expiresAt = now.Add(s.ttl)
	s.entries[id] = entry
	return entry.cart.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, id string, c *cart.Cart) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	s.entries[id] = memoryEntry{cart: c.Clone(), expiresAt: now.Add(s.ttl)}
	return nil
}

// sweep drops expired entries; callers hold s.mu
func (s *MemoryStore) sweep(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}

func (s *MemoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
