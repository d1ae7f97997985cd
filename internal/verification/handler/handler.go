// Package handler exposes the verification workflow over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"legacylink/internal/account/models"
	"legacylink/internal/platform/middleware"
	"legacylink/internal/transport/http/shared"
	"legacylink/internal/verification/service"
	id "legacylink/pkg/domain"
	dErrors "legacylink/pkg/domain-errors"
	"legacylink/pkg/requestcontext"
)

const requestTimeout = 10 * time.Second

type Handler struct {
	service   *service.Service
	validator middleware.JWTValidator
	logger    *slog.Logger
}

func New(svc *service.Service, jwtValidator middleware.JWTValidator, logger *slog.Logger) *Handler {
	return &Handler{
		service:   svc,
		validator: jwtValidator,
		logger:    logger,
	}
}

// Register mounts the verification routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(h.validator, h.logger))

		r.Get("/pending", h.listPending)
		r.Post("/verify/{profileID}", h.verify)
		r.Post("/reject/{profileID}", h.reject)
	})
}

func (h *Handler) listPending(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requestcontext.ProfileID(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing authenticated profile"))
		return
	}

	var tenantFilter *id.UniversityID
	if raw := r.URL.Query().Get("tenant"); raw != "" {
		tenant, err := id.ParseUniversityID(raw)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid tenant filter"))
			return
		}
		tenantFilter = &tenant
	}

	profiles, err := h.service.ListPending(r.Context(), callerID, tenantFilter)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if profiles == nil {
		profiles = []*models.Profile{}
	}
	shared.WriteJSON(w, http.StatusOK, pendingResponse{Profiles: profiles})
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Verify)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Reject)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, callerID, targetID id.ProfileID) (*models.Profile, error)) {
	callerID, ok := requestcontext.ProfileID(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing authenticated profile"))
		return
	}

	// A malformed or unknown ID in the path reads the same to the caller:
	// there is no such profile.
	targetID, err := id.ParseProfileID(chi.URLParam(r, "profileID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "profile not found"))
		return
	}

	profile, err := apply(r.Context(), callerID, targetID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transitionResponse{Success: true, Profile: profile})
}

type transitionResponse struct {
	Success bool            `json:"success"`
	Profile *models.Profile `json:"profile"`
}

type pendingResponse struct {
	Profiles []*models.Profile `json:"profiles"`
}
