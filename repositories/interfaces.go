// Package repositories defines the persistence interfaces implemented by the
// postgres package. Services depend on these, never on database/sql directly.
package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/upb/moderation-gateway/models"
)

// ProfileRepository defines the interface for profile data access. Profiles
// load with their bound checks fully resolved; the engine never lazy-loads.
type ProfileRepository interface {
	// Create creates a new profile and its check bindings
	Create(ctx context.Context, profile *models.Profile) error

	// GetByID retrieves a profile with its checks by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)

	// GetByName retrieves a profile with its checks by name
	GetByName(ctx context.Context, name string) (*models.Profile, error)

	// List retrieves all profiles
	List(ctx context.Context) ([]*models.Profile, error)

	// Update updates a profile and replaces its check bindings
	Update(ctx context.Context, profile *models.Profile) error

	// Delete deletes a profile and its bindings
	Delete(ctx context.Context, id uuid.UUID) error
}

// CheckRepository defines the interface for check data access
type CheckRepository interface {
	// Create creates a new check
	Create(ctx context.Context, check *models.Check) error

	// GetByID retrieves a check by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Check, error)

	// GetByName retrieves a check by name
	GetByName(ctx context.Context, name string) (*models.Check, error)

	// List retrieves all checks
	List(ctx context.Context) ([]*models.Check, error)

	// Update updates a check
	Update(ctx context.Context, check *models.Check) error

	// Delete deletes a check
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByAPIKeyHash retrieves a user by the hash of their API key
	GetByAPIKeyHash(ctx context.Context, hash string) (*models.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List retrieves all users
	List(ctx context.Context) ([]*models.User, error)

	// Update updates a user
	Update(ctx context.Context, user *models.User) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error
}
