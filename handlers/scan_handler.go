package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/middleware"
	"github.com/upb/moderation-gateway/models"
	"github.com/upb/moderation-gateway/utils"
)

// ScanRequest represents a request to evaluate a payload against a profile.
// Exactly one of text or image must be set.
type ScanRequest struct {
	Text    *string `json:"text,omitempty"`
	Image   *string `json:"image,omitempty"`
	Profile string  `json:"profile,omitempty"`
}

var errExactlyOneField = errors.New("request must contain exactly one of text or image")

// SafetyEvaluator defines the evaluation operations the scan handler needs
type SafetyEvaluator interface {
	// Evaluate runs every check bound to the named profile against the payload
	Evaluate(ctx context.Context, profileName string, payload models.Payload) (*models.Verdict, error)

	// ResolveProfileName applies the profile fallback chain
	ResolveProfileName(requested, callerDefault string) string
}

// ScanHandler handles payload evaluation HTTP requests
type ScanHandler struct {
	evaluator SafetyEvaluator
	logger    *zap.Logger
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(evaluator SafetyEvaluator, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{
		evaluator: evaluator,
		logger:    logger,
	}
}

// HandleScan handles POST /api/v1/scan
func (h *ScanHandler) HandleScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	payload, err := buildPayload(req)
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	// Profile fallback chain: request, then the caller's default, then the
	// service-wide default.
	callerDefault := ""
	if claims := middleware.GetClaimsFromContext(ctx); claims != nil {
		callerDefault = claims.DefaultProfile
	}
	profileName := h.evaluator.ResolveProfileName(req.Profile, callerDefault)

	h.logger.Debug("evaluating payload",
		zap.String("request_id", requestID),
		zap.String("profile", profileName),
		zap.String("payload_kind", string(payload.Kind())))

	verdict, err := h.evaluator.Evaluate(ctx, profileName, payload)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, verdict); err != nil {
		h.logger.Error("failed to write scan response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}

// buildPayload converts a scan request into a validated payload.
// Enforces the exactly-one-of constraint before content validation.
func buildPayload(req ScanRequest) (models.Payload, error) {
	switch {
	case req.Text != nil && req.Image != nil:
		return models.Payload{}, errExactlyOneField
	case req.Text != nil:
		return models.NewTextPayload(*req.Text)
	case req.Image != nil:
		return models.NewImagePayload(*req.Image)
	default:
		return models.Payload{}, errExactlyOneField
	}
}
