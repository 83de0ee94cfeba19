package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"supptruth/domain/core"
	"supptruth/models"
	"supptruth/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SupplementRepositoryImpl implements SupplementRepository for PostgreSQL
type SupplementRepositoryImpl struct {
	db *sqlx.DB
}

// NewSupplementRepository creates a new PostgreSQL supplement repository
func NewSupplementRepository(db *sqlx.DB) ports.SupplementRepository {
	return &SupplementRepositoryImpl{db: db}
}

const supplementColumns = `id, user_id, canonical_id, name, primary_metric, aliases,
	testing_status, restart_date, inferred_start_date, status_reset_at, created_at`

// GetByID returns one supplement owned by the user
func (r *SupplementRepositoryImpl) GetByID(ctx context.Context, userID, supplementID uuid.UUID) (*models.SupplementRow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+supplementColumns+`
		FROM supplements
		WHERE user_id = $1 AND id = $2
	`, userID, supplementID)

	supp, err := scanSupplement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSupplementNotFound
	}
	return supp, err
}

// ListForUser returns all of a user's supplements ordered by creation time
func (r *SupplementRepositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.SupplementRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+supplementColumns+`
		FROM supplements
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.SupplementRow
	for rows.Next() {
		supp, err := scanSupplement(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *supp)
	}
	return result, rows.Err()
}

// GetCanonical returns curated metadata for a canonical supplement, or nil
func (r *SupplementRepositoryImpl) GetCanonical(ctx context.Context, canonicalID uuid.UUID) (*models.CanonicalSupplementRow, error) {
	var row models.CanonicalSupplementRow
	var tagsJSON, goalsJSON []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, mechanism_tags, pathway_summary, primary_goals
		FROM canonical_supplements
		WHERE id = $1
	`, canonicalID).Scan(&row.ID, &row.Name, &tagsJSON, &row.PathwaySummary, &goalsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tagsJSON, &row.MechanismTags); err != nil {
		return nil, fmt.Errorf("decode mechanism tags: %w", err)
	}
	if err := json.Unmarshal(goalsJSON, &row.PrimaryGoals); err != nil {
		return nil, fmt.Errorf("decode primary goals: %w", err)
	}
	return &row, nil
}

// StartRetest opens a retest window for a supplement
func (r *SupplementRepositoryImpl) StartRetest(ctx context.Context, userID, supplementID uuid.UUID, restartAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE supplements
		SET restart_date = $3, testing_status = $4, status_reset_at = NOW()
		WHERE user_id = $1 AND id = $2
	`, userID, supplementID, restartAt, models.TestingStatusTesting)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrSupplementNotFound
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSupplement(s rowScanner) (*models.SupplementRow, error) {
	var row models.SupplementRow
	var aliasesJSON []byte
	err := s.Scan(
		&row.ID, &row.UserID, &row.CanonicalID, &row.Name, &row.PrimaryMetric,
		&aliasesJSON, &row.TestingStatus, &row.RestartDate, &row.InferredStartDate,
		&row.StatusResetAt, &row.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(aliasesJSON, &row.Aliases); err != nil {
		return nil, fmt.Errorf("decode supplement aliases: %w", err)
	}
	return &row, nil
}
