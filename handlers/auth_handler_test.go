package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/models"
)

// MockAPIKeyAuthenticator is a mock implementation of APIKeyAuthenticator
type MockAPIKeyAuthenticator struct {
	mock.Mock
}

func (m *MockAPIKeyAuthenticator) AuthenticateAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(user *models.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockTokenIssuer) TTL() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func TestHandleToken(t *testing.T) {
	logger := zap.NewNop()

	t.Run("valid API key returns token", func(t *testing.T) {
		authenticator := new(MockAPIKeyAuthenticator)
		issuer := new(MockTokenIssuer)
		handler := NewAuthHandler(authenticator, issuer, logger)

		user := &models.User{ID: uuid.New(), Email: "u@example.com"}
		authenticator.On("AuthenticateAPIKey", mock.Anything, "key-123").Return(user, nil)
		issuer.On("Issue", user).Return("signed-token", nil)
		issuer.On("TTL").Return(time.Hour)

		body, _ := json.Marshal(TokenRequest{APIKey: "key-123"})
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleToken(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp TokenResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "signed-token", resp.Token)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, int64(3600), resp.ExpiresIn)
		authenticator.AssertExpectations(t)
		issuer.AssertExpectations(t)
	})

	t.Run("unknown API key returns 401", func(t *testing.T) {
		authenticator := new(MockAPIKeyAuthenticator)
		issuer := new(MockTokenIssuer)
		handler := NewAuthHandler(authenticator, issuer, logger)

		authenticator.On("AuthenticateAPIKey", mock.Anything, "bad-key").
			Return(nil, errors.New("invalid API key"))

		body, _ := json.Marshal(TokenRequest{APIKey: "bad-key"})
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleToken(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		issuer.AssertNotCalled(t, "Issue")
	})

	t.Run("missing API key returns 400", func(t *testing.T) {
		authenticator := new(MockAPIKeyAuthenticator)
		handler := NewAuthHandler(authenticator, new(MockTokenIssuer), logger)

		body, _ := json.Marshal(TokenRequest{})
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleToken(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		authenticator.AssertNotCalled(t, "AuthenticateAPIKey")
	})

	t.Run("invalid JSON returns 400", func(t *testing.T) {
		handler := NewAuthHandler(new(MockAPIKeyAuthenticator), new(MockTokenIssuer), logger)

		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader([]byte("nope")))
		w := httptest.NewRecorder()

		handler.HandleToken(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("token signing failure returns 500", func(t *testing.T) {
		authenticator := new(MockAPIKeyAuthenticator)
		issuer := new(MockTokenIssuer)
		handler := NewAuthHandler(authenticator, issuer, logger)

		user := &models.User{ID: uuid.New()}
		authenticator.On("AuthenticateAPIKey", mock.Anything, "key-123").Return(user, nil)
		issuer.On("Issue", user).Return("", errors.New("signing failed"))

		body, _ := json.Marshal(TokenRequest{APIKey: "key-123"})
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleToken(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
