package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/models"
	"github.com/upb/moderation-gateway/repositories"
)

// CheckRepository implements the repositories.CheckRepository interface
type CheckRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCheckRepository creates a new check repository
func NewCheckRepository(db *DB, logger *zap.Logger) repositories.CheckRepository {
	return &CheckRepository{
		db:     db,
		logger: logger,
	}
}

const checkColumns = "id, name, upstream_services, supported_kinds, config, created_at, updated_at"

// Create creates a new check
func (r *CheckRepository) Create(ctx context.Context, check *models.Check) error {
	query := `
		INSERT INTO checks (id, name, upstream_services, supported_kinds, config, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	configJSON, err := marshalCheckConfig(check.Config)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		check.ID,
		check.Name,
		pq.Array(check.UpstreamServices),
		pq.Array(payloadKindsToStrings(check.SupportedKinds)),
		configJSON,
		check.CreatedAt,
		check.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create check: %w", err)
	}

	r.logger.Debug("check created", zap.String("id", check.ID.String()), zap.String("name", check.Name))
	return nil
}

// GetByID retrieves a check by ID
func (r *CheckRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Check, error) {
	query := fmt.Sprintf(`SELECT %s FROM checks WHERE id = $1`, checkColumns)
	return r.scanCheck(r.db.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a check by name
func (r *CheckRepository) GetByName(ctx context.Context, name string) (*models.Check, error) {
	query := fmt.Sprintf(`SELECT %s FROM checks WHERE name = $1`, checkColumns)
	return r.scanCheck(r.db.QueryRowContext(ctx, query, name))
}

// List retrieves all checks
func (r *CheckRepository) List(ctx context.Context) ([]*models.Check, error) {
	query := fmt.Sprintf(`SELECT %s FROM checks ORDER BY name`, checkColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}
	defer rows.Close()

	return scanCheckRows(rows)
}

// Update updates a check
func (r *CheckRepository) Update(ctx context.Context, check *models.Check) error {
	query := `
		UPDATE checks
		SET name = $2, upstream_services = $3, supported_kinds = $4, config = $5, updated_at = $6
		WHERE id = $1
	`

	configJSON, err := marshalCheckConfig(check.Config)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query,
		check.ID,
		check.Name,
		pq.Array(check.UpstreamServices),
		pq.Array(payloadKindsToStrings(check.SupportedKinds)),
		configJSON,
		check.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update check: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// Delete deletes a check
func (r *CheckRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM checks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete check: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	r.logger.Debug("check deleted", zap.String("id", id.String()))
	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scan logic
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanCheck scans one check row and resolves its kind from the name.
func (r *CheckRepository) scanCheck(row rowScanner) (*models.Check, error) {
	check := &models.Check{}
	var (
		upstreamServices pq.StringArray
		supportedKinds   pq.StringArray
		configJSON       []byte
	)

	err := row.Scan(
		&check.ID,
		&check.Name,
		&upstreamServices,
		&supportedKinds,
		&configJSON,
		&check.CreatedAt,
		&check.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan check: %w", err)
	}

	check.UpstreamServices = upstreamServices
	check.SupportedKinds = stringsToPayloadKinds(supportedKinds)
	check.Kind = models.CheckKindFromName(check.Name)

	if len(configJSON) > 0 {
		if err := json.Unmarshal(configJSON, &check.Config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal check config: %w", err)
		}
	}

	return check, nil
}

func scanCheckRows(rows *sql.Rows) ([]*models.Check, error) {
	checks := make([]*models.Check, 0)
	for rows.Next() {
		check := &models.Check{}
		var (
			upstreamServices pq.StringArray
			supportedKinds   pq.StringArray
			configJSON       []byte
		)

		err := rows.Scan(
			&check.ID,
			&check.Name,
			&upstreamServices,
			&supportedKinds,
			&configJSON,
			&check.CreatedAt,
			&check.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check: %w", err)
		}

		check.UpstreamServices = upstreamServices
		check.SupportedKinds = stringsToPayloadKinds(supportedKinds)
		check.Kind = models.CheckKindFromName(check.Name)

		if len(configJSON) > 0 {
			if err := json.Unmarshal(configJSON, &check.Config); err != nil {
				return nil, fmt.Errorf("failed to unmarshal check config: %w", err)
			}
		}

		checks = append(checks, check)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checks: %w", err)
	}

	return checks, nil
}

func marshalCheckConfig(config map[string]any) ([]byte, error) {
	if config == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal check config: %w", err)
	}
	return data, nil
}

func payloadKindsToStrings(kinds []models.PayloadKind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func stringsToPayloadKinds(values []string) []models.PayloadKind {
	out := make([]models.PayloadKind, len(values))
	for i, v := range values {
		out[i] = models.PayloadKind(v)
	}
	return out
}
