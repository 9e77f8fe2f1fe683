package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/models"
	"github.com/upb/moderation-gateway/utils"
)

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=255"`
	Email          string `json:"email" validate:"required,email"`
	DefaultProfile string `json:"default_profile,omitempty"`
	IsAdmin        bool   `json:"is_admin"`
}

// UpdateUserRequest represents a request to update a user.
// Nil fields are left untouched.
type UpdateUserRequest struct {
	DefaultProfile *string `json:"default_profile,omitempty"`
	IsAdmin        *bool   `json:"is_admin,omitempty"`
}

// CreateUserResponse carries the newly created user together with its API
// key. The key is shown exactly once; only its hash is stored.
type CreateUserResponse struct {
	User   *models.User `json:"user"`
	APIKey string       `json:"api_key"`
}

// RotateKeyResponse carries a freshly rotated API key
type RotateKeyResponse struct {
	APIKey string `json:"api_key"`
}

// UserService defines the user operations the handler needs
type UserService interface {
	CreateUser(ctx context.Context, name, email, defaultProfile string, isAdmin bool) (*models.User, string, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, defaultProfile *string, isAdmin *bool) (*models.User, error)
	RotateAPIKey(ctx context.Context, id uuid.UUID) (string, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserHandler handles user administration HTTP requests
type UserHandler struct {
	users  UserService
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// HandleCreateUser handles POST /api/v1/users
func (h *UserHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	user, apiKey, err := h.users.CreateUser(r.Context(), req.Name, req.Email, req.DefaultProfile, req.IsAdmin)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.Bool("is_admin", user.IsAdmin))

	_ = utils.WriteCreated(w, CreateUserResponse{User: user, APIKey: apiKey})
}

// HandleGetUser handles GET /api/v1/users/{id}
func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid user ID", nil)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, user)
}

// HandleListUsers handles GET /api/v1/users
func (h *UserHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, users)
}

// HandleUpdateUser handles PATCH /api/v1/users/{id}
func (h *UserHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid user ID", nil)
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	user, err := h.users.UpdateUser(r.Context(), id, req.DefaultProfile, req.IsAdmin)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, user)
}

// HandleRotateAPIKey handles POST /api/v1/users/{id}/rotate-key
func (h *UserHandler) HandleRotateAPIKey(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid user ID", nil)
		return
	}

	apiKey, err := h.users.RotateAPIKey(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("API key rotated", zap.String("user_id", id.String()))

	_ = utils.WriteOK(w, RotateKeyResponse{APIKey: apiKey})
}

// HandleDeleteUser handles DELETE /api/v1/users/{id}
func (h *UserHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid user ID", nil)
		return
	}

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}
