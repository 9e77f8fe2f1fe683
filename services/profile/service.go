// Package profile implements the policy store: named profiles and the checks
// bound to them, loaded fresh from the repository on every evaluation.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/models"
	"github.com/upb/moderation-gateway/repositories"
	"github.com/upb/moderation-gateway/services"
)

// ProfileService handles profile management and resolution
type ProfileService struct {
	profileRepo repositories.ProfileRepository
	checkRepo   repositories.CheckRepository
	logger      *zap.Logger
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(profileRepo repositories.ProfileRepository, checkRepo repositories.CheckRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		checkRepo:   checkRepo,
		logger:      logger,
	}
}

// GetProfileByName resolves a profile with its checks fully loaded. This is
// the lookup the safety evaluator performs once per evaluation; no caching.
func (s *ProfileService) GetProfileByName(ctx context.Context, name string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.NewDomainError(services.ErrorTypeNotFound,
				fmt.Sprintf("profile %q not found", name), nil)
		}
		return nil, services.WrapInternal("failed to get profile", err)
	}
	return profile, nil
}

// GetProfileByID retrieves a profile by ID
func (s *ProfileService) GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrProfileNotFound
		}
		return nil, services.WrapInternal("failed to get profile", err)
	}
	return profile, nil
}

// ListProfiles retrieves all profiles
func (s *ProfileService) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list profiles", err)
	}
	return profiles, nil
}

// CreateProfile creates a profile bound to the named checks. Binding zero
// checks is valid; such a profile always yields an unsafe verdict.
func (s *ProfileService) CreateProfile(ctx context.Context, name string, checkNames []string) (*models.Profile, error) {
	if name == "" {
		return nil, services.ErrInvalidInput
	}

	checks, err := s.resolveChecks(ctx, checkNames)
	if err != nil {
		return nil, err
	}

	profile := models.NewProfile(name, checks)
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, services.WrapInternal("failed to create profile", err)
	}

	s.logger.Info("profile created",
		zap.String("name", name),
		zap.Int("checks", len(checks)))
	return profile, nil
}

// UpdateProfile renames a profile and/or replaces its check bindings.
// Nil checkNames leaves the bindings untouched.
func (s *ProfileService) UpdateProfile(ctx context.Context, id uuid.UUID, name string, checkNames []string) (*models.Profile, error) {
	profile, err := s.GetProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		profile.Name = name
	}
	if checkNames != nil {
		checks, err := s.resolveChecks(ctx, checkNames)
		if err != nil {
			return nil, err
		}
		profile.Checks = checks
	}
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrProfileNotFound
		}
		return nil, services.WrapInternal("failed to update profile", err)
	}

	return profile, nil
}

// DeleteProfile deletes a profile
func (s *ProfileService) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	if err := s.profileRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return services.ErrProfileNotFound
		}
		return services.WrapInternal("failed to delete profile", err)
	}

	s.logger.Info("profile deleted", zap.String("id", id.String()))
	return nil
}

func (s *ProfileService) resolveChecks(ctx context.Context, checkNames []string) ([]*models.Check, error) {
	checks := make([]*models.Check, 0, len(checkNames))
	for _, name := range checkNames {
		check, err := s.checkRepo.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, services.NewDomainError(services.ErrorTypeNotFound,
					fmt.Sprintf("check %q not found", name), nil)
			}
			return nil, services.WrapInternal("failed to resolve check", err)
		}
		checks = append(checks, check)
	}
	return checks, nil
}
