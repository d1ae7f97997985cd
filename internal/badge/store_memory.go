package badge

import (
	"context"
	"sync"

	id "legacylink/pkg/domain"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	badges map[id.ProfileID][]*Badge
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{badges: make(map[id.ProfileID][]*Badge)}
}

func (s *InMemoryStore) Append(_ context.Context, b *Badge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *b
	s.badges[b.ProfileID] = append(s.badges[b.ProfileID], &cp)
	return nil
}

func (s *InMemoryStore) Exists(_ context.Context, profileID id.ProfileID, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.badges[profileID] {
		if b.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) ListByProfile(_ context.Context, profileID id.ProfileID) ([]*Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Badge, 0, len(s.badges[profileID]))
	for _, b := range s.badges[profileID] {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}
