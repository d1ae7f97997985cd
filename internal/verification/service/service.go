// Package service implements the profile verification workflow: listing
// pending profiles, verifying, and rejecting. Authorization is delegated to
// the policy package; the verified flag itself is written through a
// privileged writer so ordinary request credentials never carry update
// rights.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"legacylink/internal/account/models"
	"legacylink/internal/audit"
	"legacylink/internal/badge"
	"legacylink/internal/verification/cache"
	"legacylink/internal/verification/metrics"
	"legacylink/internal/verification/policy"
	id "legacylink/pkg/domain"
	dErrors "legacylink/pkg/domain-errors"
	"legacylink/pkg/platform/sentinel"
	"legacylink/pkg/requestcontext"
)

// ProfileReader is the read surface the workflow needs from the account
// store.
type ProfileReader interface {
	FindByID(ctx context.Context, profileID id.ProfileID) (*models.Profile, error)
	FindPending(ctx context.Context, tenant *id.UniversityID) ([]*models.Profile, error)
}

// Writer is the privileged write surface. It is a separate dependency from
// ProfileReader so wiring makes the elevated capability visible.
type Writer interface {
	UpdateVerification(ctx context.Context, profileID id.ProfileID, verified bool, now time.Time) (*models.Profile, error)
	Delete(ctx context.Context, profileID id.ProfileID) error
}

// Config tunes workflow behavior.
type Config struct {
	// DeleteOnReject removes the rejected profile instead of clearing its
	// verified flag. Off by default: rejection should be recoverable.
	DeleteOnReject bool
	// BadgeDedupe checks for an existing Verified Alumni badge before
	// awarding. Off by default; repeat verifies then append repeat badges,
	// which downstream consumers already tolerate.
	BadgeDedupe bool
}

type Service struct {
	profiles ProfileReader
	writer   Writer
	policy   *policy.Policy
	config   Config
	badges   badge.Store
	audit    audit.Emitter
	pending  *cache.PendingQueue
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithBadgeStore(store badge.Store) Option {
	return func(s *Service) { s.badges = store }
}

func WithAuditEmitter(emitter audit.Emitter) Option {
	return func(s *Service) { s.audit = emitter }
}

func WithPendingCache(queue *cache.PendingQueue) Option {
	return func(s *Service) { s.pending = queue }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(profiles ProfileReader, writer Writer, p *policy.Policy, cfg Config, opts ...Option) *Service {
	s := &Service{
		profiles: profiles,
		writer:   writer,
		policy:   p,
		config:   cfg,
		logger:   slog.Default(),
		tracer:   otel.Tracer("legacylink/verification"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListPending returns unverified alumni and student profiles visible to the
// caller, newest first. Super admins may narrow with tenantFilter; tenant
// admins are always pinned to their own university, and passing a different
// tenantFilter is a policy violation, not a silent re-scope.
func (s *Service) ListPending(ctx context.Context, callerID id.ProfileID, tenantFilter *id.UniversityID) ([]*models.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "verification.ListPending")
	defer span.End()

	caller, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}

	scope, decision := s.policy.ListScope(caller)
	if !decision.Allowed {
		s.metrics.IncrementPolicyDenied(string(policy.OperationList))
		return nil, dErrors.New(dErrors.CodeForbidden, decision.Reason)
	}
	if scope != nil {
		if tenantFilter != nil && *tenantFilter != *scope {
			s.metrics.IncrementPolicyDenied(string(policy.OperationList))
			return nil, dErrors.New(dErrors.CodeForbidden, "cannot list pending profiles of another university")
		}
	} else {
		scope = tenantFilter
	}

	if profiles, ok := s.pending.Get(ctx, scope); ok {
		return profiles, nil
	}

	start := time.Now()
	profiles, err := s.profiles.FindPending(ctx, scope)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending profiles")
	}
	s.metrics.ObservePendingList(time.Since(start).Seconds())
	s.pending.Set(ctx, scope, profiles)
	return profiles, nil
}

// Verify marks the target profile verified and awards the Verified Alumni
// badge. Idempotent: verifying an already-verified profile succeeds and
// rewrites the same state. The badge, the audit event, and the cache
// invalidation are best-effort; their failure never rolls back the flag.
func (s *Service) Verify(ctx context.Context, callerID, targetID id.ProfileID) (*models.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "verification.Verify",
		trace.WithAttributes(attribute.String("profile_id", targetID.String())))
	defer span.End()

	caller, _, err := s.authorize(ctx, callerID, targetID, policy.OperationVerify)
	if err != nil {
		return nil, err
	}

	// The flag write must complete even if the client goes away mid-request.
	ctx = context.WithoutCancel(ctx)

	now := requestcontext.Now(ctx)
	updated, err := s.writer.UpdateVerification(ctx, targetID, true, now)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update verification state")
	}
	s.metrics.IncrementVerified()

	s.awardBadge(ctx, targetID, now)
	s.emitAudit(ctx, audit.Event{
		ActorID:   caller.ID.String(),
		SubjectID: targetID.String(),
		Action:    audit.ActionProfileVerified,
	})
	s.pending.Invalidate(ctx, updated.UniversityID)
	return updated, nil
}

// Reject clears the target's verified flag, or deletes the profile when
// DeleteOnReject is set. Like Verify it is idempotent and its side effects
// are best-effort.
func (s *Service) Reject(ctx context.Context, callerID, targetID id.ProfileID) (*models.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "verification.Reject",
		trace.WithAttributes(attribute.String("profile_id", targetID.String())))
	defer span.End()

	caller, target, err := s.authorize(ctx, callerID, targetID, policy.OperationReject)
	if err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	now := requestcontext.Now(ctx)

	var updated *models.Profile
	if s.config.DeleteOnReject {
		if err := s.writer.Delete(ctx, targetID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete profile")
		}
		updated = target.Clone()
		updated.ApplyVerification(false, now)
	} else {
		updated, err = s.writer.UpdateVerification(ctx, targetID, false, now)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update verification state")
		}
	}
	s.metrics.IncrementRejected()

	s.emitAudit(ctx, audit.Event{
		ActorID:   caller.ID.String(),
		SubjectID: targetID.String(),
		Action:    audit.ActionProfileRejected,
	})
	s.pending.Invalidate(ctx, updated.UniversityID)
	return updated, nil
}

// authorize resolves the caller and target and runs the policy check. Target
// resolution happens before the policy decision so a missing profile is 404
// for everyone rather than leaking existence through 403 ordering.
func (s *Service) authorize(ctx context.Context, callerID, targetID id.ProfileID, op policy.Operation) (caller, target *models.Profile, err error) {
	caller, err = s.loadCaller(ctx, callerID)
	if err != nil {
		return nil, nil, err
	}

	target, err = s.profiles.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}

	if decision := s.policy.Authorize(caller, target, op); !decision.Allowed {
		s.metrics.IncrementPolicyDenied(string(op))
		s.logger.InfoContext(ctx, "verification denied",
			"operation", string(op),
			"caller_id", callerID.String(),
			"profile_id", targetID.String(),
			"reason", decision.Reason,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, nil, dErrors.New(dErrors.CodeForbidden, decision.Reason)
	}
	return caller, target, nil
}

func (s *Service) loadCaller(ctx context.Context, callerID id.ProfileID) (*models.Profile, error) {
	caller, err := s.profiles.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// An authenticated token without a profile is treated as not
			// authenticated at all.
			return nil, dErrors.New(dErrors.CodeUnauthorized, "caller profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load caller")
	}
	return caller, nil
}

func (s *Service) awardBadge(ctx context.Context, profileID id.ProfileID, now time.Time) {
	if s.badges == nil {
		return
	}
	if s.config.BadgeDedupe {
		exists, err := s.badges.Exists(ctx, profileID, badge.VerifiedAlumniName)
		if err != nil {
			s.logger.WarnContext(ctx, "badge dedupe check failed",
				"profile_id", profileID.String(),
				"error", err,
			)
			return
		}
		if exists {
			return
		}
	}
	if err := s.badges.Append(ctx, badge.NewVerifiedAlumni(profileID, now)); err != nil {
		s.logger.WarnContext(ctx, "badge award failed",
			"profile_id", profileID.String(),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}
	s.emitAudit(ctx, audit.Event{
		SubjectID: profileID.String(),
		Action:    audit.ActionBadgeAwarded,
		Reason:    badge.VerifiedAlumniName,
	})
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
