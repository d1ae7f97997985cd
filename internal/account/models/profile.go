package models

import (
	"strings"
	"time"

	id "legacylink/pkg/domain"
	dErrors "legacylink/pkg/domain-errors"
)

// Profile is a platform account record, distinct from the identity
// provider's authentication record.
//
// Invariants:
//   - Email is non-empty and stored lowercase
//   - Role is a supported enum value
//   - UniversityID is set for every role except super_admin
//   - Verified starts false for alumni/student regardless of any
//     email-confirmation signal; it flips only through an explicit admin
//     action that passes the access policy
//   - ID and Email are immutable after construction
type Profile struct {
	ID           id.ProfileID     `json:"id"`
	Email        string           `json:"email"`
	FullName     string           `json:"full_name"`
	Role         id.Role          `json:"role"`
	UniversityID *id.UniversityID `json:"university_id,omitempty"`
	Verified     bool             `json:"verified"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewProfile constructs a Profile enforcing creation invariants. Callers
// cannot choose the initial Verified state: every profile starts unverified.
func NewProfile(profileID id.ProfileID, email, fullName string, role id.Role, universityID *id.UniversityID, now time.Time) (*Profile, error) {
	if profileID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "profile id is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email cannot be empty")
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid role")
	}
	if role.RequiresUniversity() && (universityID == nil || universityID.IsZero()) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "university is required for role "+role.String())
	}
	return &Profile{
		ID:           profileID,
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		Role:         role,
		UniversityID: universityID,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsPending reports whether the profile sits in the admin approval queue.
func (p *Profile) IsPending() bool {
	return !p.Verified && p.Role.RequiresVerification()
}

// SameUniversity reports whether both profiles belong to the same tenant.
// False when either side has no tenant.
func (p *Profile) SameUniversity(other *Profile) bool {
	if p.UniversityID == nil || other == nil || other.UniversityID == nil {
		return false
	}
	return *p.UniversityID == *other.UniversityID
}

// ApplyVerification sets the verified flag. Setting an already-held value is
// allowed; the transition is idempotent.
func (p *Profile) ApplyVerification(verified bool, now time.Time) {
	p.Verified = verified
	p.UpdatedAt = now
}

// Clone returns a copy so store internals never alias caller-held records.
func (p *Profile) Clone() *Profile {
	cp := *p
	if p.UniversityID != nil {
		uid := *p.UniversityID
		cp.UniversityID = &uid
	}
	return &cp
}
