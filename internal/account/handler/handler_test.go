package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legacylink/internal/account/models"
	"legacylink/internal/account/service"
	"legacylink/internal/account/store"
	jwttoken "legacylink/internal/jwt_token"
	id "legacylink/pkg/domain"
)

const testSigningKey = "test-signing-key"

type harness struct {
	router       chi.Router
	profiles     *store.InMemoryProfileStore
	universities *store.InMemoryUniversityStore
	tokens       *jwttoken.Validator
	tenant       *models.University
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		profiles:     store.NewInMemoryProfileStore(),
		universities: store.NewInMemoryUniversityStore(),
		tokens:       jwttoken.NewValidator(testSigningKey),
	}

	university, err := models.NewUniversity(id.NewUniversityID(), "State University", "state.edu", time.Now())
	require.NoError(t, err)
	require.NoError(t, h.universities.CreateIfDomainAvailable(context.Background(), university))
	h.tenant = university

	logger := slog.New(slog.DiscardHandler)
	svc := service.New(h.profiles, h.universities, service.WithLogger(logger))

	h.router = chi.NewRouter()
	New(svc, h.tokens, logger).Register(h.router)
	return h
}

func (h *harness) request(t *testing.T, method, target, body string, asProfileID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if asProfileID != "" {
		token, err := h.tokens.Issue(asProfileID, time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func TestSignupEndpoint(t *testing.T) {
	t.Run("creates the caller's profile", func(t *testing.T) {
		h := newHarness(t)
		callerID := id.NewProfileID()
		body := `{"email":"grad@state.edu","full_name":"Grad Person","role":"alumni","university_id":"` + h.tenant.ID.String() + `"}`

		rec := h.request(t, http.MethodPost, "/auth/signup", body, callerID.String())
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp struct {
			Success bool            `json:"success"`
			Profile *models.Profile `json:"profile"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, callerID, resp.Profile.ID)
		assert.False(t, resp.Profile.Verified)
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		h := newHarness(t)

		rec := h.request(t, http.MethodPost, "/auth/signup", `{}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid body is a bad request", func(t *testing.T) {
		h := newHarness(t)

		rec := h.request(t, http.MethodPost, "/auth/signup", `{not json`, id.NewProfileID().String())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid email fails validation", func(t *testing.T) {
		h := newHarness(t)
		body := `{"email":"not-an-email","full_name":"X","role":"alumni","university_id":"` + h.tenant.ID.String() + `"}`

		rec := h.request(t, http.MethodPost, "/auth/signup", body, id.NewProfileID().String())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMeEndpoint(t *testing.T) {
	h := newHarness(t)
	callerID := id.NewProfileID()
	body := `{"email":"grad@state.edu","full_name":"Grad Person","role":"alumni","university_id":"` + h.tenant.ID.String() + `"}`
	created := h.request(t, http.MethodPost, "/auth/signup", body, callerID.String())
	require.Equal(t, http.StatusCreated, created.Code)

	rec := h.request(t, http.MethodGet, "/me", "", callerID.String())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Profile *models.Profile `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, callerID, resp.Profile.ID)
}

func TestCreateUniversityEndpoint(t *testing.T) {
	seedSuperAdmin := func(t *testing.T, h *harness) id.ProfileID {
		t.Helper()
		profile, err := models.NewProfile(id.NewProfileID(), "root@legacylink.io", "Root", id.RoleSuperAdmin, nil, time.Now())
		require.NoError(t, err)
		_, err = h.profiles.Upsert(context.Background(), profile)
		require.NoError(t, err)
		return profile.ID
	}

	t.Run("super admin registers a tenant", func(t *testing.T) {
		h := newHarness(t)
		rootID := seedSuperAdmin(t, h)

		rec := h.request(t, http.MethodPost, "/admin/universities", `{"name":"Tech Institute","domain":"tech.edu"}`, rootID.String())
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("alumni caller is forbidden", func(t *testing.T) {
		h := newHarness(t)
		callerID := id.NewProfileID()
		body := `{"email":"grad@state.edu","full_name":"Grad Person","role":"alumni","university_id":"` + h.tenant.ID.String() + `"}`
		created := h.request(t, http.MethodPost, "/auth/signup", body, callerID.String())
		require.Equal(t, http.StatusCreated, created.Code)

		rec := h.request(t, http.MethodPost, "/admin/universities", `{"name":"Tech Institute","domain":"tech.edu"}`, callerID.String())
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestListUniversitiesEndpoint(t *testing.T) {
	h := newHarness(t)
	callerID := id.NewProfileID()
	body := `{"email":"grad@state.edu","full_name":"Grad Person","role":"alumni","university_id":"` + h.tenant.ID.String() + `"}`
	created := h.request(t, http.MethodPost, "/auth/signup", body, callerID.String())
	require.Equal(t, http.StatusCreated, created.Code)

	rec := h.request(t, http.MethodGet, "/universities", "", callerID.String())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Universities []*models.University `json:"universities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Universities, 1)
	assert.Equal(t, "state.edu", resp.Universities[0].Domain)
}
