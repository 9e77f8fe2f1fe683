// Package check manages check descriptors: the static configuration of each
// verification unit a profile can bind.
package check

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

// CheckService handles check management
type CheckService struct {
	checkRepo repositories.CheckRepository
	logger    *zap.Logger
}

// NewCheckService creates a new CheckService instance
func NewCheckService(checkRepo repositories.CheckRepository, logger *zap.Logger) *CheckService {
	return &CheckService{
		checkRepo: checkRepo,
		logger:    logger,
	}
}

// CreateCheck validates and creates a check. Remote checks need at least one
// upstream service; local stub checks need none.
func (s *CheckService) CreateCheck(ctx context.Context, name string, upstreamServices []string, supportedKinds []models.PayloadKind, config map[string]any) (*models.Check, error) {
	if name == "" {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "check name is required", nil)
	}
	if len(supportedKinds) == 0 {
		return nil, services.NewDomainError(services.ErrorTypeValidation,
			"check must support at least one payload kind", nil)
	}
	for _, kind := range supportedKinds {
		if kind != models.PayloadKindText && kind != models.PayloadKindImage {
			return nil, services.NewDomainError(services.ErrorTypeValidation,
				fmt.Sprintf("unknown payload kind %q", kind), nil)
		}
	}

	check := models.NewCheck(name, upstreamServices, supportedKinds, config)
	if check.Kind == models.CheckKindRemote && len(upstreamServices) == 0 {
		return nil, services.NewDomainError(services.ErrorTypeValidation,
			"remote check requires at least one upstream service", nil)
	}

	if err := s.checkRepo.Create(ctx, check); err != nil {
		return nil, services.WrapInternal("failed to create check", err)
	}

	s.logger.Info("check created",
		zap.String("name", name),
		zap.String("kind", string(check.Kind)))
	return check, nil
}

// GetCheckByID retrieves a check by ID
func (s *CheckService) GetCheckByID(ctx context.Context, id uuid.UUID) (*models.Check, error) {
	check, err := s.checkRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrCheckNotFound
		}
		return nil, services.WrapInternal("failed to get check", err)
	}
	return check, nil
}

// GetCheckByName retrieves a check by name
func (s *CheckService) GetCheckByName(ctx context.Context, name string) (*models.Check, error) {
	check, err := s.checkRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrCheckNotFound
		}
		return nil, services.WrapInternal("failed to get check", err)
	}
	return check, nil
}

// ListChecks retrieves all checks
func (s *CheckService) ListChecks(ctx context.Context) ([]*models.Check, error) {
	checks, err := s.checkRepo.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list checks", err)
	}
	return checks, nil
}

// UpdateCheck updates a check's upstream services, supported kinds and config
func (s *CheckService) UpdateCheck(ctx context.Context, id uuid.UUID, upstreamServices []string, supportedKinds []models.PayloadKind, config map[string]any) (*models.Check, error) {
	check, err := s.GetCheckByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upstreamServices != nil {
		check.UpstreamServices = upstreamServices
	}
	if supportedKinds != nil {
		check.SupportedKinds = supportedKinds
	}
	if config != nil {
		check.Config = config
	}
	check.UpdatedAt = time.Now()

	if check.Kind == models.CheckKindRemote && len(check.UpstreamServices) == 0 {
		return nil, services.NewDomainError(services.ErrorTypeValidation,
			"remote check requires at least one upstream service", nil)
	}

	if err := s.checkRepo.Update(ctx, check); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrCheckNotFound
		}
		return nil, services.WrapInternal("failed to update check", err)
	}

	return check, nil
}

// DeleteCheck deletes a check
func (s *CheckService) DeleteCheck(ctx context.Context, id uuid.UUID) error {
	if err := s.checkRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return services.ErrCheckNotFound
		}
		return services.WrapInternal("failed to delete check", err)
	}

	s.logger.Info("check deleted", zap.String("id", id.String()))
	return nil
}
