package session

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	data    []byte
	expires time.Time
}

// MemoryStore keeps entries in process memory. Suitable for a single
// instance; entries are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore creates an in-memory store whose entries live for ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, id string, e *Entry) error {
	data, err := encode(e)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.items[id] = memoryItem{data: data, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	item, ok := s.items[id]
	s.mu.RUnlock()

	if !ok || !s.now().Before(item.expires) {
		return nil, ErrNotFound
	}
	return decode(item.data)
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok || !s.now().Before(item.expires) {
		delete(s.items, id)
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (s *MemoryStore) Sweep(_ context.Context) (int, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, item := range s.items {
		if !now.Before(item.expires) {
			delete(s.items, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStore) Close() error { return nil }
