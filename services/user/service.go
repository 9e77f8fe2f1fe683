// Package user manages API callers and their credentials.
package user

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/models"
	"github.com/upb/moderation-gateway/repositories"
	"github.com/upb/moderation-gateway/services"
)

// apiKeyBytes is the entropy of a generated API key (hex-encoded to double).
const apiKeyBytes = 32

// UserService handles user management and API key authentication
type UserService struct {
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(userRepo repositories.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// CreateUser creates a user with a freshly generated API key. The plaintext
// key is returned exactly once; only its hash is stored.
func (s *UserService) CreateUser(ctx context.Context, name, email, defaultProfile string, isAdmin bool) (*models.User, string, error) {
	if name == "" || email == "" {
		return nil, "", services.ErrInvalidInput
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		return nil, "", services.WrapInternal("failed to generate API key", err)
	}

	user := models.NewUser(name, email, apiKey, isAdmin)
	user.DefaultProfile = defaultProfile

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", services.WrapInternal("failed to create user", err)
	}

	s.logger.Info("user created",
		zap.String("name", name),
		zap.Bool("is_admin", isAdmin))
	return user, apiKey, nil
}

// AuthenticateAPIKey resolves a user from a plaintext API key.
func (s *UserService) AuthenticateAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	if apiKey == "" {
		return nil, services.ErrInvalidAPIKey
	}

	user, err := s.userRepo.GetByAPIKeyHash(ctx, models.HashAPIKey(apiKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrInvalidAPIKey
		}
		return nil, services.WrapInternal("failed to authenticate", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrUserNotFound
		}
		return nil, services.WrapInternal("failed to get user", err)
	}
	return user, nil
}

// ListUsers retrieves all users
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list users", err)
	}
	return users, nil
}

// UpdateUser updates a user's mutable fields
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, defaultProfile *string, isAdmin *bool) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if defaultProfile != nil {
		user.DefaultProfile = *defaultProfile
	}
	if isAdmin != nil {
		user.IsAdmin = *isAdmin
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrUserNotFound
		}
		return nil, services.WrapInternal("failed to update user", err)
	}

	return user, nil
}

// RotateAPIKey replaces a user's API key, returning the new plaintext once.
func (s *UserService) RotateAPIKey(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return "", err
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		return "", services.WrapInternal("failed to generate API key", err)
	}

	user.APIKeyHash = models.HashAPIKey(apiKey)
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", services.WrapInternal("failed to rotate API key", err)
	}

	s.logger.Info("API key rotated", zap.String("user_id", id.String()))
	return apiKey, nil
}

// DeleteUser deletes a user
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return services.ErrUserNotFound
		}
		return services.WrapInternal("failed to delete user", err)
	}

	s.logger.Info("user deleted", zap.String("id", id.String()))
	return nil
}

func generateAPIKey() (string, error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
