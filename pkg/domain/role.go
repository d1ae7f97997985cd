package domain

import dErrors "legacylink/pkg/domain-errors"

// Role determines both what a profile can do (subject side) and who may act
// on it (object side).
//
// Invariant: role must be one of the supported values. Construct via
// ParseRole at trust boundaries; direct casting bypasses validation.
type Role string

const (
	RoleSuperAdmin      Role = "super_admin"
	RoleUniversityAdmin Role = "university_admin"
	RoleAlumni          Role = "alumni"
	RoleStudent         Role = "student"
)

// validRoles is the single source of truth for supported roles.
var validRoles = map[Role]bool{
	RoleSuperAdmin:      true,
	RoleUniversityAdmin: true,
	RoleAlumni:          true,
	RoleStudent:         true,
}

// ParseRole constructs a Role from external input.
//
// Errors: CodeInvalidInput when the value is empty or unsupported.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// RequiresVerification reports whether profiles with this role enter the
// admin approval queue. Admin roles are provisioned, not verified.
func (r Role) RequiresVerification() bool {
	return r == RoleAlumni || r == RoleStudent
}

// IsAdmin reports whether the role carries queue-facing capability.
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleUniversityAdmin
}

// RequiresUniversity reports whether the role must be bound to a tenant.
// Only platform-level super admins exist outside a university.
func (r Role) RequiresUniversity() bool {
	return r != RoleSuperAdmin
}

func (r Role) String() string {
	return string(r)
}
