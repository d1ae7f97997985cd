package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legacylink/internal/account/models"
	id "legacylink/pkg/domain"
)

func newProfile(t *testing.T, role id.Role, universityID *id.UniversityID) *models.Profile {
	t.Helper()
	profile, err := models.NewProfile(id.NewProfileID(), "person@example.edu", "Test Person", role, universityID, time.Now())
	require.NoError(t, err)
	return profile
}

func TestAuthorizeVerify(t *testing.T) {
	p := New(DefaultConfig())
	tenant := id.NewUniversityID()
	otherTenant := id.NewUniversityID()

	t.Run("university admin verifies own tenant", func(t *testing.T) {
		caller := newProfile(t, id.RoleUniversityAdmin, &tenant)
		target := newProfile(t, id.RoleAlumni, &tenant)

		decision := p.Authorize(caller, target, OperationVerify)
		assert.True(t, decision.Allowed)
	})

	t.Run("university admin denied across tenants", func(t *testing.T) {
		caller := newProfile(t, id.RoleUniversityAdmin, &tenant)
		target := newProfile(t, id.RoleAlumni, &otherTenant)

		decision := p.Authorize(caller, target, OperationVerify)
		assert.False(t, decision.Allowed)
		assert.Equal(t, "profile belongs to another university", decision.Reason)
	})

	t.Run("super admin cannot verify by default", func(t *testing.T) {
		caller := newProfile(t, id.RoleSuperAdmin, nil)
		target := newProfile(t, id.RoleAlumni, &tenant)

		decision := p.Authorize(caller, target, OperationVerify)
		assert.False(t, decision.Allowed)
	})

	t.Run("alumni denied", func(t *testing.T) {
		caller := newProfile(t, id.RoleAlumni, &tenant)
		target := newProfile(t, id.RoleAlumni, &tenant)

		decision := p.Authorize(caller, target, OperationVerify)
		assert.False(t, decision.Allowed)
	})
}

func TestAuthorizeReject(t *testing.T) {
	p := New(DefaultConfig())
	tenant := id.NewUniversityID()
	otherTenant := id.NewUniversityID()

	t.Run("super admin rejects any tenant", func(t *testing.T) {
		caller := newProfile(t, id.RoleSuperAdmin, nil)
		target := newProfile(t, id.RoleAlumni, &tenant)

		decision := p.Authorize(caller, target, OperationReject)
		assert.True(t, decision.Allowed)
	})

	t.Run("university admin rejects own tenant only", func(t *testing.T) {
		caller := newProfile(t, id.RoleUniversityAdmin, &tenant)

		own := p.Authorize(caller, newProfile(t, id.RoleStudent, &tenant), OperationReject)
		assert.True(t, own.Allowed)

		foreign := p.Authorize(caller, newProfile(t, id.RoleStudent, &otherTenant), OperationReject)
		assert.False(t, foreign.Allowed)
	})
}

func TestAuthorizeCustomRoleSets(t *testing.T) {
	p := New(Config{
		VerifyRoles: []id.Role{id.RoleUniversityAdmin, id.RoleSuperAdmin},
	})
	tenant := id.NewUniversityID()

	caller := newProfile(t, id.RoleSuperAdmin, nil)
	target := newProfile(t, id.RoleAlumni, &tenant)

	decision := p.Authorize(caller, target, OperationVerify)
	assert.True(t, decision.Allowed)
}

func TestListScope(t *testing.T) {
	p := New(DefaultConfig())
	tenant := id.NewUniversityID()

	t.Run("super admin sees all tenants", func(t *testing.T) {
		scope, decision := p.ListScope(newProfile(t, id.RoleSuperAdmin, nil))
		assert.True(t, decision.Allowed)
		assert.Nil(t, scope)
	})

	t.Run("university admin scoped to own tenant", func(t *testing.T) {
		scope, decision := p.ListScope(newProfile(t, id.RoleUniversityAdmin, &tenant))
		assert.True(t, decision.Allowed)
		require.NotNil(t, scope)
		assert.Equal(t, tenant, *scope)
	})

	t.Run("alumni denied", func(t *testing.T) {
		_, decision := p.ListScope(newProfile(t, id.RoleAlumni, &tenant))
		assert.False(t, decision.Allowed)
	})
}
