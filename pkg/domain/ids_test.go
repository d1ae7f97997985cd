package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfileID(t *testing.T) {
	t.Run("round-trips a valid UUID", func(t *testing.T) {
		original := NewProfileID()

		parsed, err := ParseProfileID(original.String())
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := ParseProfileID("")
		assert.Error(t, err)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := ParseProfileID("not-a-uuid")
		assert.Error(t, err)
	})

	t.Run("rejects the nil UUID", func(t *testing.T) {
		_, err := ParseProfileID("00000000-0000-0000-0000-000000000000")
		assert.Error(t, err)
	})
}

func TestUniversityIDJSON(t *testing.T) {
	original := NewUniversityID()

	raw, err := json.Marshal(original)
	require.NoError(t, err)
	assert.JSONEq(t, `"`+original.String()+`"`, string(raw))

	var decoded UniversityID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, original, decoded)
}

func TestIDIsZero(t *testing.T) {
	var zero ProfileID
	assert.True(t, zero.IsZero())
	assert.False(t, NewProfileID().IsZero())
}
