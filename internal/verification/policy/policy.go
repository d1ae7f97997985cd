// Package policy decides who may act on whose verification state. Decisions
// are pure functions of the caller, the target, and the configured role sets,
// so they can be tested without any store or transport in play.
package policy

import (
	"legacylink/internal/account/models"
	id "legacylink/pkg/domain"
)

// Operation names a verification action being authorized.
type Operation string

const (
	OperationList   Operation = "list_pending"
	OperationVerify Operation = "verify"
	OperationReject Operation = "reject"
)

// Decision is the outcome of an authorization check. Reason is set only on
// denial and is safe to surface to the caller.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Allowed: false, Reason: reason} }

// Config holds the role sets permitted to perform each transition. Verify is
// deliberately narrower than reject by default: granting verification also
// grants the badge and its points, so it stays with tenant admins, while
// rejection is a corrective action platform admins may also take.
type Config struct {
	VerifyRoles []id.Role
	RejectRoles []id.Role
}

// DefaultConfig returns the standard role sets.
func DefaultConfig() Config {
	return Config{
		VerifyRoles: []id.Role{id.RoleUniversityAdmin},
		RejectRoles: []id.Role{id.RoleUniversityAdmin, id.RoleSuperAdmin},
	}
}

// Policy evaluates verification permissions.
type Policy struct {
	verifyRoles map[id.Role]struct{}
	rejectRoles map[id.Role]struct{}
}

func New(cfg Config) *Policy {
	if len(cfg.VerifyRoles) == 0 {
		cfg.VerifyRoles = DefaultConfig().VerifyRoles
	}
	if len(cfg.RejectRoles) == 0 {
		cfg.RejectRoles = DefaultConfig().RejectRoles
	}
	return &Policy{
		verifyRoles: roleSet(cfg.VerifyRoles),
		rejectRoles: roleSet(cfg.RejectRoles),
	}
}

func roleSet(roles []id.Role) map[id.Role]struct{} {
	set := make(map[id.Role]struct{}, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Authorize decides whether caller may perform op on target. Tenant scoping
// applies to every role except super_admin: a university admin only reaches
// profiles of their own university, and an admin without a university reaches
// nothing.
func (p *Policy) Authorize(caller, target *models.Profile, op Operation) Decision {
	var allowed map[id.Role]struct{}
	switch op {
	case OperationVerify:
		allowed = p.verifyRoles
	case OperationReject:
		allowed = p.rejectRoles
	default:
		return deny("unknown operation")
	}

	if _, ok := allowed[caller.Role]; !ok {
		return deny("role " + caller.Role.String() + " cannot " + string(op))
	}
	if caller.Role == id.RoleSuperAdmin {
		return allow()
	}
	if caller.UniversityID == nil {
		return deny("caller has no university")
	}
	if !caller.SameUniversity(target) {
		return deny("profile belongs to another university")
	}
	return allow()
}

// ListScope returns the tenant filter for listing pending profiles. A nil
// scope with an allow decision means the caller sees every tenant.
func (p *Policy) ListScope(caller *models.Profile) (*id.UniversityID, Decision) {
	switch caller.Role {
	case id.RoleSuperAdmin:
		return nil, allow()
	case id.RoleUniversityAdmin:
		if caller.UniversityID == nil {
			return nil, deny("caller has no university")
		}
		scope := *caller.UniversityID
		return &scope, allow()
	default:
		return nil, deny("role " + caller.Role.String() + " cannot list pending profiles")
	}
}
