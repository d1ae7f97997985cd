package models

import (
	"strings"
	"time"

	id "legacylink/pkg/domain"
	dErrors "legacylink/pkg/domain-errors"
)

// University is the tenant boundary. University admins see and act only on
// profiles whose UniversityID matches their own.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Domain is non-empty, lowercase, and unique across tenants
type University struct {
	ID        id.UniversityID `json:"id"`
	Name      string          `json:"name"`
	Domain    string          `json:"domain"`
	Approved  bool            `json:"approved"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewUniversity constructs a University enforcing invariants.
func NewUniversity(universityID id.UniversityID, name, domain string, now time.Time) (*University, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "university name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "university name must be 128 characters or less")
	}
	domain = NormalizeDomain(domain)
	if domain == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "university domain cannot be empty")
	}
	return &University{
		ID:        universityID,
		Name:      name,
		Domain:    domain,
		Approved:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NormalizeDomain lowercases and trims an email domain so equivalence checks
// and the unique index agree.
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}
