package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/models"
	"github.com/upb/moderation-gateway/repositories"
)

// ProfileRepository implements the repositories.ProfileRepository interface.
// Profiles are always returned with their checks fully resolved.
type ProfileRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *DB, logger *zap.Logger) repositories.ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new profile and its check bindings in one transaction
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO profiles (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.ExecContext(ctx, query,
		profile.ID, profile.Name, profile.CreatedAt, profile.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	if err := insertCheckBindings(ctx, tx, profile); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug("profile created",
		zap.String("id", profile.ID.String()),
		zap.String("name", profile.Name),
		zap.Int("checks", len(profile.Checks)))
	return nil
}

// GetByID retrieves a profile with its checks by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT id, name, created_at, updated_at FROM profiles WHERE id = $1`
	return r.loadProfile(ctx, r.db.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a profile with its checks by name
func (r *ProfileRepository) GetByName(ctx context.Context, name string) (*models.Profile, error) {
	query := `SELECT id, name, created_at, updated_at FROM profiles WHERE name = $1`
	return r.loadProfile(ctx, r.db.QueryRowContext(ctx, query, name))
}

// List retrieves all profiles with their checks
func (r *ProfileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	query := `SELECT id, name, created_at, updated_at FROM profiles ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*models.Profile, 0)
	for rows.Next() {
		profile := &models.Profile{}
		if err := rows.Scan(&profile.ID, &profile.Name, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	for _, profile := range profiles {
		checks, err := r.loadChecks(ctx, profile.ID)
		if err != nil {
			return nil, err
		}
		profile.Checks = checks
	}

	return profiles, nil
}

// Update updates a profile and replaces its check bindings in one transaction
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `UPDATE profiles SET name = $2, updated_at = $3 WHERE id = $1`
	result, err := tx.ExecContext(ctx, query, profile.ID, profile.Name, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles_checks WHERE profile_id = $1`, profile.ID); err != nil {
		return fmt.Errorf("failed to clear check bindings: %w", err)
	}

	if err := insertCheckBindings(ctx, tx, profile); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete deletes a profile; bindings cascade via the schema
func (r *ProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	r.logger.Debug("profile deleted", zap.String("id", id.String()))
	return nil
}

func (r *ProfileRepository) loadProfile(ctx context.Context, row *sql.Row) (*models.Profile, error) {
	profile := &models.Profile{}
	err := row.Scan(&profile.ID, &profile.Name, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	checks, err := r.loadChecks(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	profile.Checks = checks

	return profile, nil
}

func (r *ProfileRepository) loadChecks(ctx context.Context, profileID uuid.UUID) ([]*models.Check, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM checks c
		JOIN profiles_checks pc ON pc.check_id = c.id
		WHERE pc.profile_id = $1
		ORDER BY c.name
	`, prefixedCheckColumns("c"))

	rows, err := r.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile checks: %w", err)
	}
	defer rows.Close()

	return scanCheckRows(rows)
}

func insertCheckBindings(ctx context.Context, tx *sql.Tx, profile *models.Profile) error {
	for _, check := range profile.Checks {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO profiles_checks (profile_id, check_id) VALUES ($1, $2)`,
			profile.ID, check.ID)
		if err != nil {
			return fmt.Errorf("failed to bind check %s: %w", check.Name, err)
		}
	}
	return nil
}

func prefixedCheckColumns(alias string) string {
	return fmt.Sprintf("%s.id, %s.name, %s.upstream_services, %s.supported_kinds, %s.config, %s.created_at, %s.updated_at",
		alias, alias, alias, alias, alias, alias, alias)
}
