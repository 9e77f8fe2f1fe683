// Package auth issues and validates the signed session tokens handed out in
// exchange for an API key.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/upb/moderation-gateway/models"
	"github.com/upb/moderation-gateway/services"
)

// ParsedClaims is the validated content of a session token.
type ParsedClaims struct {
	Sub            string
	Email          string
	IsAdmin        bool
	DefaultProfile string
}

// TokenService issues and validates HS256-signed JWTs.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a TokenService.
func NewTokenService(secret string, issuer string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl == 0 {
		ttl = time.Hour
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for the user.
func (s *TokenService) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":             user.ID.String(),
		"email":           user.Email,
		"is_admin":        user.IsAdmin,
		"default_profile": user.DefaultProfile,
		"iss":             s.issuer,
		"iat":             now.Unix(),
		"exp":             now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *TokenService) ValidateToken(ctx context.Context, tokenString string) (*ParsedClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, services.ErrTokenExpired
		}
		return nil, services.NewDomainError(services.ErrorTypeUnauthorized, "invalid authentication token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, services.ErrInvalidToken
	}

	parsed := &ParsedClaims{}
	if sub, ok := claims["sub"].(string); ok {
		parsed.Sub = sub
	}
	if email, ok := claims["email"].(string); ok {
		parsed.Email = email
	}
	if isAdmin, ok := claims["is_admin"].(bool); ok {
		parsed.IsAdmin = isAdmin
	}
	if profile, ok := claims["default_profile"].(string); ok {
		parsed.DefaultProfile = profile
	}
	if parsed.Sub == "" {
		return nil, services.ErrInvalidToken
	}

	return parsed, nil
}
