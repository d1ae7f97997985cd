package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legacylink/internal/account/models"
	"legacylink/internal/account/store"
	jwttoken "legacylink/internal/jwt_token"
	"legacylink/internal/verification/policy"
	"legacylink/internal/verification/service"
	id "legacylink/pkg/domain"
)

const testSigningKey = "test-signing-key"

type harness struct {
	router   chi.Router
	profiles *store.InMemoryProfileStore
	tokens   *jwttoken.Validator

	tenant      id.UniversityID
	otherTenant id.UniversityID
	admin       *models.Profile
	alum        *models.Profile
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		profiles:    store.NewInMemoryProfileStore(),
		tokens:      jwttoken.NewValidator(testSigningKey),
		tenant:      id.NewUniversityID(),
		otherTenant: id.NewUniversityID(),
	}
	h.admin = h.seed(t, "admin@state.edu", id.RoleUniversityAdmin, &h.tenant)
	h.alum = h.seed(t, "grad@state.edu", id.RoleAlumni, &h.tenant)

	logger := slog.New(slog.DiscardHandler)
	svc := service.New(h.profiles, h.profiles, policy.New(policy.DefaultConfig()), service.Config{},
		service.WithLogger(logger),
	)

	h.router = chi.NewRouter()
	New(svc, h.tokens, logger).Register(h.router)
	return h
}

func (h *harness) seed(t *testing.T, email string, role id.Role, universityID *id.UniversityID) *models.Profile {
	t.Helper()
	profile, err := models.NewProfile(id.NewProfileID(), email, "Test Person", role, universityID, time.Now())
	require.NoError(t, err)
	stored, err := h.profiles.Upsert(context.Background(), profile)
	require.NoError(t, err)
	return stored
}

func (h *harness) request(t *testing.T, method, target string, as *models.Profile) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if as != nil {
		token, err := h.tokens.Issue(as.ID.String(), time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

type transitionBody struct {
	Success bool            `json:"success"`
	Profile *models.Profile `json:"profile"`
}

func TestVerifyEndpoint(t *testing.T) {
	t.Run("returns the updated profile in the success envelope", func(t *testing.T) {
		h := newHarness(t)

		rec := h.request(t, http.MethodPost, "/verify/"+h.alum.ID.String(), h.admin)
		require.Equal(t, http.StatusOK, rec.Code)

		var body transitionBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		require.NotNil(t, body.Profile)
		assert.True(t, body.Profile.Verified)
		assert.Equal(t, h.alum.ID, body.Profile.ID)
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		h := newHarness(t)

		rec := h.request(t, http.MethodPost, "/verify/"+h.alum.ID.String(), nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		h := newHarness(t)

		req := httptest.NewRequest(http.MethodPost, "/verify/"+h.alum.ID.String(), nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		h.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-admin caller is forbidden", func(t *testing.T) {
		h := newHarness(t)
		other := h.seed(t, "grad2@state.edu", id.RoleAlumni, &h.tenant)

		rec := h.request(t, http.MethodPost, "/verify/"+other.ID.String(), h.alum)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown profile is not found", func(t *testing.T) {
		h := newHarness(t)

		rec := h.request(t, http.MethodPost, "/verify/"+id.NewProfileID().String(), h.admin)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed profile id reads as not found", func(t *testing.T) {
		h := newHarness(t)

		rec := h.request(t, http.MethodPost, "/verify/not-a-uuid", h.admin)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRejectEndpoint(t *testing.T) {
	t.Run("clears the verified flag", func(t *testing.T) {
		h := newHarness(t)
		verify := h.request(t, http.MethodPost, "/verify/"+h.alum.ID.String(), h.admin)
		require.Equal(t, http.StatusOK, verify.Code)

		rec := h.request(t, http.MethodPost, "/reject/"+h.alum.ID.String(), h.admin)
		require.Equal(t, http.StatusOK, rec.Code)

		var body transitionBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.False(t, body.Profile.Verified)
	})
}

func TestPendingEndpoint(t *testing.T) {
	t.Run("lists the admin's tenant", func(t *testing.T) {
		h := newHarness(t)
		h.seed(t, "grad@tech.edu", id.RoleAlumni, &h.otherTenant)

		rec := h.request(t, http.MethodGet, "/pending", h.admin)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Profiles []*models.Profile `json:"profiles"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Profiles, 1)
		assert.Equal(t, h.alum.ID, body.Profiles[0].ID)
	})

	t.Run("foreign tenant filter is forbidden", func(t *testing.T) {
		h := newHarness(t)

		rec := h.request(t, http.MethodGet, "/pending?tenant="+h.otherTenant.String(), h.admin)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("malformed tenant filter is a validation error", func(t *testing.T) {
		h := newHarness(t)

		rec := h.request(t, http.MethodGet, "/pending?tenant=nope", h.admin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty result is an empty array, not null", func(t *testing.T) {
		h := newHarness(t)
		verify := h.request(t, http.MethodPost, "/verify/"+h.alum.ID.String(), h.admin)
		require.Equal(t, http.StatusOK, verify.Code)

		rec := h.request(t, http.MethodGet, "/pending", h.admin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"profiles":[]}`, rec.Body.String())
	})
}
