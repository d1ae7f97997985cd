// Package store persists profiles and universities. Implementations return
// pkg/platform/sentinel errors; services translate them into domain errors.
package store

import (
	"context"
	"time"

	"legacylink/internal/account/models"
	id "legacylink/pkg/domain"
)

// ProfileStore is the read/insert surface available to any service.
type ProfileStore interface {
	// Upsert creates the profile if its ID is new and returns the stored
	// record either way. Concurrent signups for the same identity converge
	// on one row; a later call never resets Verified. Returns
	// sentinel.ErrConflict when the email is taken by a different profile.
	Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	FindByID(ctx context.Context, profileID id.ProfileID) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	// FindPending returns unverified alumni/student profiles ordered by
	// creation time descending. A nil tenant means all tenants.
	FindPending(ctx context.Context, tenant *id.UniversityID) ([]*models.Profile, error)
}

// VerificationWriter is the privileged mutation surface. The admin issuing a
// verify/reject does not own the target row, so these writes run with
// elevated store privileges (a service-role connection in Postgres terms).
// Keeping it a separate capability makes that trust boundary explicit in
// wiring rather than implicit in client construction.
type VerificationWriter interface {
	// UpdateVerification sets the verified flag and returns the refreshed
	// record. Idempotent: writing the already-held value succeeds.
	UpdateVerification(ctx context.Context, profileID id.ProfileID, verified bool, now time.Time) (*models.Profile, error)
	// Delete hard-deletes a profile. Only the opt-in reject-as-delete policy
	// uses it.
	Delete(ctx context.Context, profileID id.ProfileID) error
}

// UniversityStore persists tenants.
type UniversityStore interface {
	// CreateIfDomainAvailable inserts the university unless another record
	// holds an equivalent domain, in which case sentinel.ErrConflict is
	// returned.
	CreateIfDomainAvailable(ctx context.Context, university *models.University) error
	FindByID(ctx context.Context, universityID id.UniversityID) (*models.University, error)
	FindByDomain(ctx context.Context, domain string) (*models.University, error)
	List(ctx context.Context) ([]*models.University, error)
}
