package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "failed to load profile")

	assert.True(t, HasCode(err, CodeInternal))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to load profile")
}

func TestHasCodeThroughWrapping(t *testing.T) {
	inner := New(CodeNotFound, "profile not found")
	outer := fmt.Errorf("handling request: %w", inner)

	assert.True(t, HasCode(outer, CodeNotFound))
	assert.False(t, HasCode(outer, CodeForbidden))
	assert.False(t, HasCode(nil, CodeNotFound))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeForbidden, CodeOf(New(CodeForbidden, "denied")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain error")))
}

func TestMessageOf(t *testing.T) {
	err := New(CodeValidation, "invalid role")
	assert.Equal(t, "invalid role", MessageOf(err))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:   http.StatusBadRequest,
		CodeBadRequest:   http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeNotFound:     http.StatusNotFound,
		CodeConflict:     http.StatusConflict,
		CodeUnavailable:  http.StatusServiceUnavailable,
		CodeInternal:     http.StatusInternalServerError,
	}
	for code, want := range cases {
		require.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
