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

// CreateCheckRequest represents a request to register a check
type CreateCheckRequest struct {
	Name             string         `json:"name" validate:"required,min=1,max=255"`
	UpstreamServices []string       `json:"upstream_services"`
	SupportedKinds   []string       `json:"supported_kinds" validate:"required,min=1,dive,oneof=text image"`
	Config           map[string]any `json:"config,omitempty"`
}

// UpdateCheckRequest represents a request to update a check.
// Nil fields are left untouched.
type UpdateCheckRequest struct {
	UpstreamServices []string       `json:"upstream_services,omitempty"`
	SupportedKinds   []string       `json:"supported_kinds,omitempty" validate:"omitempty,min=1,dive,oneof=text image"`
	Config           map[string]any `json:"config,omitempty"`
}

// CheckService defines the check operations the handler needs
type CheckService interface {
	CreateCheck(ctx context.Context, name string, upstreamServices []string, supportedKinds []models.PayloadKind, config map[string]any) (*models.Check, error)
	GetCheckByID(ctx context.Context, id uuid.UUID) (*models.Check, error)
	ListChecks(ctx context.Context) ([]*models.Check, error)
	UpdateCheck(ctx context.Context, id uuid.UUID, upstreamServices []string, supportedKinds []models.PayloadKind, config map[string]any) (*models.Check, error)
	DeleteCheck(ctx context.Context, id uuid.UUID) error
}

// CheckHandler handles check-related HTTP requests
type CheckHandler struct {
	checks CheckService
	logger *zap.Logger
}

// NewCheckHandler creates a new CheckHandler
func NewCheckHandler(checks CheckService, logger *zap.Logger) *CheckHandler {
	return &CheckHandler{
		checks: checks,
		logger: logger,
	}
}

// HandleCreateCheck handles POST /api/v1/checks
func (h *CheckHandler) HandleCreateCheck(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	check, err := h.checks.CreateCheck(r.Context(), req.Name, req.UpstreamServices, toPayloadKinds(req.SupportedKinds), req.Config)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("check registered",
		zap.String("check_id", check.ID.String()),
		zap.String("name", check.Name),
		zap.String("kind", string(check.Kind)))

	_ = utils.WriteCreated(w, check)
}

// HandleGetCheck handles GET /api/v1/checks/{id}
func (h *CheckHandler) HandleGetCheck(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid check ID", nil)
		return
	}

	check, err := h.checks.GetCheckByID(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, check)
}

// HandleListChecks handles GET /api/v1/checks
func (h *CheckHandler) HandleListChecks(w http.ResponseWriter, r *http.Request) {
	checks, err := h.checks.ListChecks(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, checks)
}

// HandleUpdateCheck handles PUT /api/v1/checks/{id}
func (h *CheckHandler) HandleUpdateCheck(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid check ID", nil)
		return
	}

	var req UpdateCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	var kinds []models.PayloadKind
	if req.SupportedKinds != nil {
		kinds = toPayloadKinds(req.SupportedKinds)
	}

	check, err := h.checks.UpdateCheck(r.Context(), id, req.UpstreamServices, kinds, req.Config)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, check)
}

// HandleDeleteCheck handles DELETE /api/v1/checks/{id}
func (h *CheckHandler) HandleDeleteCheck(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid check ID", nil)
		return
	}

	if err := h.checks.DeleteCheck(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}

func toPayloadKinds(kinds []string) []models.PayloadKind {
	out := make([]models.PayloadKind, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, models.PayloadKind(k))
	}
	return out
}
