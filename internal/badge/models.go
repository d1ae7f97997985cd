// Package badge holds append-only achievement records. Badges are a side
// effect of milestones (verification being the first); they are never part
// of the verification state machine itself, and awarding one is best-effort
// from the caller's point of view.
package badge

import (
	"time"

	id "legacylink/pkg/domain"
)

// The fixed badge awarded when an admin verifies a profile.
const (
	VerifiedAlumniName   = "Verified Alumni"
	VerifiedAlumniPoints = 100
)

type Badge struct {
	ID        id.BadgeID   `json:"id"`
	ProfileID id.ProfileID `json:"profile_id"`
	Name      string       `json:"name"`
	Points    int          `json:"points"`
	AwardedAt time.Time    `json:"awarded_at"`
}

// NewVerifiedAlumni constructs the verification badge for a profile.
func NewVerifiedAlumni(profileID id.ProfileID, now time.Time) *Badge {
	return &Badge{
		ID:        id.NewBadgeID(),
		ProfileID: profileID,
		Name:      VerifiedAlumniName,
		Points:    VerifiedAlumniPoints,
		AwardedAt: now,
	}
}
