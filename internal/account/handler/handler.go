// Package handler exposes account and tenant endpoints over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"legacylink/internal/account/models"
	"legacylink/internal/account/service"
	"legacylink/internal/platform/middleware"
	"legacylink/internal/transport/http/shared"
	dErrors "legacylink/pkg/domain-errors"
	"legacylink/pkg/requestcontext"
)

const requestTimeout = 10 * time.Second

type Handler struct {
	service   *service.Service
	validator middleware.JWTValidator
	logger    *slog.Logger
	validate  *validator.Validate
}

func New(svc *service.Service, jwtValidator middleware.JWTValidator, logger *slog.Logger) *Handler {
	return &Handler{
		service:   svc,
		validator: jwtValidator,
		logger:    logger,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register mounts the account routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(h.validator, h.logger))

		r.Post("/auth/signup", h.signup)
		r.Get("/me", h.me)
		r.Get("/universities", h.listUniversities)
		r.Post("/admin/universities", h.createUniversity)
	})
}

type signupRequest struct {
	Email          string `json:"email" validate:"required,email"`
	FullName       string `json:"full_name" validate:"required,max=128"`
	Role           string `json:"role" validate:"required"`
	UniversityID   string `json:"university_id" validate:"omitempty,uuid"`
	EmailConfirmed bool   `json:"email_confirmed"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requestcontext.ProfileID(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing authenticated profile"))
		return
	}

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid signup fields"))
		return
	}

	profile, err := h.service.Signup(r.Context(), service.SignupRequest{
		ProfileID:      callerID,
		Email:          req.Email,
		FullName:       req.FullName,
		Role:           req.Role,
		UniversityID:   req.UniversityID,
		EmailConfirmed: req.EmailConfirmed,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, profileResponse{Success: true, Profile: profile})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requestcontext.ProfileID(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing authenticated profile"))
		return
	}
	profile, err := h.service.GetProfile(r.Context(), callerID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, profileResponse{Success: true, Profile: profile})
}

func (h *Handler) listUniversities(w http.ResponseWriter, r *http.Request) {
	universities, err := h.service.ListUniversities(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, universitiesResponse{Universities: universities})
}

type createUniversityRequest struct {
	Name   string `json:"name" validate:"required,max=128"`
	Domain string `json:"domain" validate:"required,fqdn"`
}

func (h *Handler) createUniversity(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requestcontext.ProfileID(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing authenticated profile"))
		return
	}

	var req createUniversityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid university fields"))
		return
	}

	university, err := h.service.EnsureUniversity(r.Context(), callerID, req.Name, req.Domain)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, universityResponse{Success: true, University: university})
}

type profileResponse struct {
	Success bool            `json:"success"`
	Profile *models.Profile `json:"profile"`
}

type universityResponse struct {
	Success    bool               `json:"success"`
	University *models.University `json:"university"`
}

type universitiesResponse struct {
	Universities []*models.University `json:"universities"`
}
