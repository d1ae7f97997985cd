// Package domain holds shared domain value types: typed identifiers and the
// role enum. Typed IDs prevent cross-entity assignment at compile time;
// construct them via the Parse functions at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "legacylink/pkg/domain-errors"
)

// ProfileID identifies a platform account record. It matches the subject
// assigned by the identity provider, not an internal surrogate key.
type ProfileID uuid.UUID

// UniversityID identifies a tenant.
type UniversityID uuid.UUID

// BadgeID identifies an achievement record.
type BadgeID uuid.UUID

// NewProfileID returns a fresh random ProfileID.
func NewProfileID() ProfileID { return ProfileID(uuid.New()) }

// NewUniversityID returns a fresh random UniversityID.
func NewUniversityID() UniversityID { return UniversityID(uuid.New()) }

// NewBadgeID returns a fresh random BadgeID.
func NewBadgeID() BadgeID { return BadgeID(uuid.New()) }

// ParseProfileID validates external input into a ProfileID.
// Errors: CodeInvalidInput for empty, malformed, or nil UUIDs.
func ParseProfileID(s string) (ProfileID, error) {
	u, err := parseUUID(s, "profile id")
	return ProfileID(u), err
}

// ParseUniversityID validates external input into a UniversityID.
func ParseUniversityID(s string) (UniversityID, error) {
	u, err := parseUUID(s, "university id")
	return UniversityID(u), err
}

// ParseBadgeID validates external input into a BadgeID.
func ParseBadgeID(s string) (BadgeID, error) {
	u, err := parseUUID(s, "badge id")
	return BadgeID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be the nil uuid")
	}
	return u, nil
}

func (id ProfileID) String() string { return uuid.UUID(id).String() }
func (id ProfileID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }

func (id ProfileID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ProfileID) UnmarshalText(b []byte) error {
	parsed, err := ParseProfileID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id UniversityID) String() string { return uuid.UUID(id).String() }
func (id UniversityID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }

func (id UniversityID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *UniversityID) UnmarshalText(b []byte) error {
	parsed, err := ParseUniversityID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id BadgeID) String() string { return uuid.UUID(id).String() }
func (id BadgeID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }

func (id BadgeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *BadgeID) UnmarshalText(b []byte) error {
	parsed, err := ParseBadgeID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
