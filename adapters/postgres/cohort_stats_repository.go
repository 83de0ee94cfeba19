package postgres

import (
	"context"
	"database/sql"
	"errors"

	"supptruth/models"
	"supptruth/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CohortStatsRepositoryImpl implements CohortStatsRepository for PostgreSQL
type CohortStatsRepositoryImpl struct {
	db *sqlx.DB
}

// NewCohortStatsRepository creates a new PostgreSQL cohort stats repository
func NewCohortStatsRepository(db *sqlx.DB) ports.CohortStatsRepository {
	return &CohortStatsRepositoryImpl{db: db}
}

// GetByCanonicalID returns cohort statistics for a canonical supplement.
// Absent cohort data is not an error; verdict generation proceeds without it.
func (r *CohortStatsRepositoryImpl) GetByCanonicalID(ctx context.Context, canonicalID uuid.UUID) (*models.CohortStatsRow, error) {
	var row models.CohortStatsRow
	err := r.db.QueryRowContext(ctx, `
		SELECT canonical_id, sample_size, avg_effect, effect_distribution, updated_at
		FROM cohort_stats
		WHERE canonical_id = $1
	`, canonicalID).Scan(&row.CanonicalID, &row.SampleSize, &row.AvgEffect,
		&row.DistributionJSON, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
