package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"legacylink/internal/account/models"
	id "legacylink/pkg/domain"
	"legacylink/pkg/platform/sentinel"
)

// In-memory stores back unit tests and the zero-config development mode.
// They intentionally favor clarity over performance.

// InMemoryProfileStore also implements the privileged VerificationWriter:
// there is no row-level security to bypass in memory.
type InMemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[id.ProfileID]*models.Profile
}

func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{profiles: make(map[id.ProfileID]*models.Profile)}
}

func (s *InMemoryProfileStore) Upsert(_ context.Context, profile *models.Profile) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.profiles[profile.ID]; ok {
		return existing.Clone(), nil
	}
	for _, p := range s.profiles {
		if p.Email == profile.Email {
			return nil, sentinel.ErrConflict
		}
	}
	s.profiles[profile.ID] = profile.Clone()
	return profile.Clone(), nil
}

func (s *InMemoryProfileStore) FindByID(_ context.Context, profileID id.ProfileID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[profileID]; ok {
		return p.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryProfileStore) FindByEmail(_ context.Context, email string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, p := range s.profiles {
		if p.Email == email {
			return p.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryProfileStore) FindPending(_ context.Context, tenant *id.UniversityID) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []*models.Profile
	for _, p := range s.profiles {
		if !p.IsPending() {
			continue
		}
		if tenant != nil && (p.UniversityID == nil || *p.UniversityID != *tenant) {
			continue
		}
		pending = append(pending, p.Clone())
	}
	// Queue contract: newest signups first.
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.After(pending[j].CreatedAt)
	})
	return pending, nil
}

func (s *InMemoryProfileStore) UpdateVerification(_ context.Context, profileID id.ProfileID, verified bool, now time.Time) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[profileID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	p.ApplyVerification(verified, now)
	return p.Clone(), nil
}

func (s *InMemoryProfileStore) Delete(_ context.Context, profileID id.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profileID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.profiles, profileID)
	return nil
}

type InMemoryUniversityStore struct {
	mu           sync.RWMutex
	universities map[id.UniversityID]*models.University
}

func NewInMemoryUniversityStore() *InMemoryUniversityStore {
	return &InMemoryUniversityStore{universities: make(map[id.UniversityID]*models.University)}
}

func (s *InMemoryUniversityStore) CreateIfDomainAvailable(_ context.Context, university *models.University) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.universities {
		if u.Domain == university.Domain {
			return sentinel.ErrConflict
		}
	}
	cp := *university
	s.universities[university.ID] = &cp
	return nil
}

func (s *InMemoryUniversityStore) FindByID(_ context.Context, universityID id.UniversityID) (*models.University, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.universities[universityID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryUniversityStore) FindByDomain(_ context.Context, domain string) (*models.University, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	domain = models.NormalizeDomain(domain)
	for _, u := range s.universities {
		if u.Domain == domain {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryUniversityStore) List(_ context.Context) ([]*models.University, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.University, 0, len(s.universities))
	for _, u := range s.universities {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
