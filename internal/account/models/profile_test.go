package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "legacylink/pkg/domain"
	dErrors "legacylink/pkg/domain-errors"
)

func TestNewProfile(t *testing.T) {
	now := time.Now()
	tenant := id.NewUniversityID()

	t.Run("starts unverified regardless of role", func(t *testing.T) {
		profile, err := NewProfile(id.NewProfileID(), "grad@state.edu", "Grad Person", id.RoleAlumni, &tenant, now)
		require.NoError(t, err)
		assert.False(t, profile.Verified)
		assert.True(t, profile.IsPending())
	})

	t.Run("normalizes email to lowercase", func(t *testing.T) {
		profile, err := NewProfile(id.NewProfileID(), "  Grad@State.EDU ", "Grad Person", id.RoleAlumni, &tenant, now)
		require.NoError(t, err)
		assert.Equal(t, "grad@state.edu", profile.Email)
	})

	t.Run("super admin needs no university", func(t *testing.T) {
		profile, err := NewProfile(id.NewProfileID(), "root@legacylink.io", "Root", id.RoleSuperAdmin, nil, now)
		require.NoError(t, err)
		assert.Nil(t, profile.UniversityID)
		assert.False(t, profile.IsPending())
	})

	t.Run("other roles require a university", func(t *testing.T) {
		for _, role := range []id.Role{id.RoleUniversityAdmin, id.RoleAlumni, id.RoleStudent} {
			_, err := NewProfile(id.NewProfileID(), "x@state.edu", "X", role, nil, now)
			require.Error(t, err, role.String())
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		}
	})

	t.Run("rejects empty email", func(t *testing.T) {
		_, err := NewProfile(id.NewProfileID(), "   ", "X", id.RoleAlumni, &tenant, now)
		require.Error(t, err)
	})

	t.Run("rejects zero profile id", func(t *testing.T) {
		var zero id.ProfileID
		_, err := NewProfile(zero, "x@state.edu", "X", id.RoleAlumni, &tenant, now)
		require.Error(t, err)
	})
}

func TestIsPending(t *testing.T) {
	now := time.Now()
	tenant := id.NewUniversityID()

	admin, err := NewProfile(id.NewProfileID(), "admin@state.edu", "Admin", id.RoleUniversityAdmin, &tenant, now)
	require.NoError(t, err)
	assert.False(t, admin.IsPending())

	student, err := NewProfile(id.NewProfileID(), "s@state.edu", "Student", id.RoleStudent, &tenant, now)
	require.NoError(t, err)
	assert.True(t, student.IsPending())

	student.ApplyVerification(true, now)
	assert.False(t, student.IsPending())
}

func TestSameUniversity(t *testing.T) {
	now := time.Now()
	tenant := id.NewUniversityID()
	other := id.NewUniversityID()

	a, err := NewProfile(id.NewProfileID(), "a@state.edu", "A", id.RoleAlumni, &tenant, now)
	require.NoError(t, err)
	b, err := NewProfile(id.NewProfileID(), "b@state.edu", "B", id.RoleAlumni, &tenant, now)
	require.NoError(t, err)
	c, err := NewProfile(id.NewProfileID(), "c@tech.edu", "C", id.RoleAlumni, &other, now)
	require.NoError(t, err)
	root, err := NewProfile(id.NewProfileID(), "root@legacylink.io", "Root", id.RoleSuperAdmin, nil, now)
	require.NoError(t, err)

	assert.True(t, a.SameUniversity(b))
	assert.False(t, a.SameUniversity(c))
	assert.False(t, root.SameUniversity(a))
	assert.False(t, a.SameUniversity(nil))
}

func TestClone(t *testing.T) {
	now := time.Now()
	tenant := id.NewUniversityID()

	original, err := NewProfile(id.NewProfileID(), "a@state.edu", "A", id.RoleAlumni, &tenant, now)
	require.NoError(t, err)

	clone := original.Clone()
	clone.ApplyVerification(true, now.Add(time.Minute))
	*clone.UniversityID = id.NewUniversityID()

	assert.False(t, original.Verified)
	assert.Equal(t, tenant, *original.UniversityID)
}
