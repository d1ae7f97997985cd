package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"super_admin", "university_admin", "alumni", "student"} {
		role, err := ParseRole(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, role.String())
	}

	_, err := ParseRole("administrator")
	assert.Error(t, err)

	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRoleRequiresVerification(t *testing.T) {
	assert.True(t, RoleAlumni.RequiresVerification())
	assert.True(t, RoleStudent.RequiresVerification())
	assert.False(t, RoleUniversityAdmin.RequiresVerification())
	assert.False(t, RoleSuperAdmin.RequiresVerification())
}

func TestRoleRequiresUniversity(t *testing.T) {
	assert.False(t, RoleSuperAdmin.RequiresUniversity())
	assert.True(t, RoleUniversityAdmin.RequiresUniversity())
	assert.True(t, RoleAlumni.RequiresUniversity())
	assert.True(t, RoleStudent.RequiresUniversity())
}
