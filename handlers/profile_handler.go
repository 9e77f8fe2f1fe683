package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/models"
	"github.com/upb/moderation-gateway/utils"
)

// CreateProfileRequest represents a request to create a profile
type CreateProfileRequest struct {
	Name   string   `json:"name" validate:"required,min=1,max=255"`
	Checks []string `json:"checks"`
}

// UpdateProfileRequest represents a request to update a profile.
// A nil Checks field leaves the existing check bindings untouched.
type UpdateProfileRequest struct {
	Name   string   `json:"name" validate:"required,min=1,max=255"`
	Checks []string `json:"checks,omitempty"`
}

// ProfileService defines the profile operations the handler needs
type ProfileService interface {
	CreateProfile(ctx context.Context, name string, checkNames []string) (*models.Profile, error)
	GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetProfileByName(ctx context.Context, name string) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]*models.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name string, checkNames []string) (*models.Profile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profiles ProfileService
	logger   *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger,
	}
}

// HandleCreateProfile handles POST /api/v1/profiles
func (h *ProfileHandler) HandleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	profile, err := h.profiles.CreateProfile(r.Context(), req.Name, req.Checks)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("profile created",
		zap.String("profile_id", profile.ID.String()),
		zap.String("name", profile.Name))

	_ = utils.WriteCreated(w, profile)
}

// HandleGetProfile handles GET /api/v1/profiles/{id}
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid profile ID", nil)
		return
	}

	profile, err := h.profiles.GetProfileByID(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, profile)
}

// HandleListProfiles handles GET /api/v1/profiles
func (h *ProfileHandler) HandleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.ListProfiles(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, profiles)
}

// HandleUpdateProfile handles PUT /api/v1/profiles/{id}
func (h *ProfileHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid profile ID", nil)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	profile, err := h.profiles.UpdateProfile(r.Context(), id, req.Name, req.Checks)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, profile)
}

// HandleDeleteProfile handles DELETE /api/v1/profiles/{id}
func (h *ProfileHandler) HandleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid profile ID", nil)
		return
	}

	if err := h.profiles.DeleteProfile(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}

// parseIDParam extracts and parses the {id} URL parameter
func parseIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
