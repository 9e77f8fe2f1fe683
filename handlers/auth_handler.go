package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/middleware"
	"github.com/upb/moderation-gateway/models"
	"github.com/upb/moderation-gateway/utils"
)

// TokenRequest represents a request to exchange an API key for a session token
type TokenRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}

// TokenResponse represents an issued session token
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// APIKeyAuthenticator resolves an API key to the user that owns it
type APIKeyAuthenticator interface {
	AuthenticateAPIKey(ctx context.Context, apiKey string) (*models.User, error)
}

// TokenIssuer mints session tokens for authenticated users
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
	TTL() time.Duration
}

// AuthHandler handles token exchange HTTP requests
type AuthHandler struct {
	authenticator APIKeyAuthenticator
	issuer        TokenIssuer
	logger        *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authenticator APIKeyAuthenticator, issuer TokenIssuer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		issuer:        issuer,
		logger:        logger,
	}
}

// HandleToken handles POST /auth/token.
// Exchanges a valid API key for a short-lived bearer token.
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	user, err := h.authenticator.AuthenticateAPIKey(ctx, req.APIKey)
	if err != nil {
		// Do not distinguish unknown keys from disabled users in the response
		h.logger.Warn("API key authentication failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteUnauthorized(w, "Invalid API key")
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		h.logger.Error("failed to issue token",
			zap.String("request_id", requestID),
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to issue token")
		return
	}

	h.logger.Info("session token issued",
		zap.String("request_id", requestID),
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	_ = utils.WriteJSON(w, http.StatusOK, TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.issuer.TTL().Seconds()),
	})
}
