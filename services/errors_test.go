package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError(ErrorTypeNotFound, "profile not found", nil)
	assert.Equal(t, "not_found: profile not found", err.Error())

	wrapped := NewDomainError(ErrorTypeInternal, "query failed", errors.New("connection reset"))
	assert.Contains(t, wrapped.Error(), "internal: query failed")
	assert.Contains(t, wrapped.Error(), "connection reset")
}

func TestDomainError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewDomainError(ErrorTypeInternal, "outer", inner)

	assert.Equal(t, inner, errors.Unwrap(err))
}

func TestDomainError_Is(t *testing.T) {
	err := NewDomainError(ErrorTypeNotFound, "some profile missing", nil)

	assert.True(t, errors.Is(err, ErrProfileNotFound))
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestDomainError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("evaluating: %w", ErrBackendUnreachable)

	assert.True(t, errors.Is(err, ErrBackendUnreachable))
	assert.True(t, IsBackendUnreachableError(err))
}

func TestDomainError_WithDetail(t *testing.T) {
	err := NewDomainError(ErrorTypeValidation, "bad input", nil).
		WithDetail("field", "name")

	assert.Equal(t, "name", err.Details["field"])
	assert.Equal(t, map[string]interface{}{"field": "name"}, GetErrorDetails(err))
}

func TestErrorTypeHelpers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
	}{
		{"not found", ErrProfileNotFound, IsNotFoundError},
		{"validation", ErrInvalidInput, IsValidationError},
		{"unauthorized", ErrInvalidAPIKey, IsUnauthorizedError},
		{"forbidden", ErrForbidden, IsForbiddenError},
		{"conflict", ErrDuplicateName, IsConflictError},
		{"internal", ErrDatabaseError, IsInternalError},
		{"unsupported payload", ErrUnsupportedPayloadKind, IsUnsupportedPayloadError},
		{"backend unreachable", ErrBackendUnreachable, IsBackendUnreachableError},
		{"protocol", ErrProtocolError, IsProtocolError},
		{"timeout", ErrCheckTimeout, IsTimeoutError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.checker(tt.err))
			assert.False(t, tt.checker(errors.New("plain error")))
		})
	}
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, ErrorTypeTimeout, GetErrorType(ErrCheckTimeout))
	assert.Equal(t, ErrorType(""), GetErrorType(errors.New("plain")))
}

func TestWrapInternal(t *testing.T) {
	inner := errors.New("boom")
	err := WrapInternal("saving profile", inner)

	assert.True(t, IsInternalError(err))
	assert.True(t, errors.Is(err, inner))
}
