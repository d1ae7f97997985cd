// Package service orchestrates profile signup and university registration.
package service

import (
	"context"
	"errors"
	"log/slog"

	"legacylink/internal/account/models"
	"legacylink/internal/account/store"
	"legacylink/internal/audit"
	"legacylink/internal/platform/metrics"
	id "legacylink/pkg/domain"
	dErrors "legacylink/pkg/domain-errors"
	"legacylink/pkg/platform/sentinel"
	"legacylink/pkg/requestcontext"
)

// Service owns the account-side lifecycle: idempotent profile creation and
// tenant registration. Verification transitions live in the verification
// service.
type Service struct {
	profiles     store.ProfileStore
	universities store.UniversityStore
	logger       *slog.Logger
	audit        audit.Emitter
	metrics      *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditEmitter(emitter audit.Emitter) Option {
	return func(s *Service) { s.audit = emitter }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(profiles store.ProfileStore, universities store.UniversityStore, opts ...Option) *Service {
	s := &Service{
		profiles:     profiles,
		universities: universities,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignupRequest carries the profile fields collected at first login. The
// profile ID is the identity-provider subject, never client-chosen.
//
// EmailConfirmed is accepted and ignored on purpose: whether the provider
// confirmed the address has no bearing on the verified flag, which only an
// admin action may set.
type SignupRequest struct {
	ProfileID      id.ProfileID
	Email          string
	FullName       string
	Role           string
	UniversityID   string
	EmailConfirmed bool
}

// Signup creates the caller's profile. Idempotent: repeating the call for an
// existing identity returns the stored record unchanged, so races between
// concurrent first-login requests converge.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*models.Profile, error) {
	role, err := id.ParseRole(req.Role)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid role")
	}
	if role == id.RoleSuperAdmin {
		// Platform admins are provisioned out of band, never self-enrolled.
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot sign up as super_admin")
	}

	var universityID *id.UniversityID
	if req.UniversityID != "" {
		uid, err := id.ParseUniversityID(req.UniversityID)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeValidation, "invalid university id")
		}
		if _, err := s.universities.FindByID(ctx, uid); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "university not found")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load university")
		}
		universityID = &uid
	}

	profile, err := models.NewProfile(req.ProfileID, req.Email, req.FullName, role, universityID, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	stored, err := s.profiles.Upsert(ctx, profile)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create profile")
	}

	s.emitAudit(ctx, audit.Event{
		ActorID:   stored.ID.String(),
		SubjectID: stored.ID.String(),
		Action:    audit.ActionProfileSignedUp,
	})
	if s.metrics != nil {
		s.metrics.IncrementProfilesCreated()
	}
	return stored, nil
}

// GetProfile returns one profile by ID.
func (s *Service) GetProfile(ctx context.Context, profileID id.ProfileID) (*models.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	return profile, nil
}

// EnsureUniversity registers a tenant, reusing an existing record when an
// equivalent domain is already present. Only super admins may call it.
func (s *Service) EnsureUniversity(ctx context.Context, callerID id.ProfileID, name, domain string) (*models.University, error) {
	caller, err := s.profiles.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "caller profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load caller")
	}
	if caller.Role != id.RoleSuperAdmin {
		return nil, dErrors.New(dErrors.CodeForbidden, "only super admins can register universities")
	}

	domain = models.NormalizeDomain(domain)
	if existing, err := s.universities.FindByDomain(ctx, domain); err == nil {
		return existing, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up university")
	}

	university, err := models.NewUniversity(id.NewUniversityID(), name, domain, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	if err := s.universities.CreateIfDomainAvailable(ctx, university); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Lost a race with a concurrent registration; reuse the winner.
			if existing, findErr := s.universities.FindByDomain(ctx, domain); findErr == nil {
				return existing, nil
			}
			return nil, dErrors.New(dErrors.CodeConflict, "university domain already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create university")
	}

	s.emitAudit(ctx, audit.Event{
		ActorID:   callerID.String(),
		SubjectID: university.ID.String(),
		Action:    audit.ActionUniversityCreated,
	})
	return university, nil
}

// ListUniversities returns all registered tenants.
func (s *Service) ListUniversities(ctx context.Context) ([]*models.University, error) {
	universities, err := s.universities.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list universities")
	}
	return universities, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
