package postgres

import (
	"context"
	"database/sql"
	"errors"

	"supptruth/domain/core"
	"supptruth/models"
	"supptruth/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// TruthReportRepositoryImpl implements TruthReportRepository for PostgreSQL
type TruthReportRepositoryImpl struct {
	db *sqlx.DB
}

// NewTruthReportRepository creates a new PostgreSQL truth report repository
func NewTruthReportRepository(db *sqlx.DB) ports.TruthReportRepository {
	return &TruthReportRepositoryImpl{db: db}
}

const reportColumns = `id, user_id, supplement_id, supplement_name, status, verdict, metric_key,
	metric_label, stats, confidence, cohort, confounded_days, confound_note,
	mechanism, biology, recommendation, source, total_days, unlocked,
	generated_at, created_at`

// Save appends one report row. Concurrent saves of the same computed report
// collide on ID and the loser is dropped; the read path takes the most
// recently created row either way.
func (r *TruthReportRepositoryImpl) Save(ctx context.Context, row *models.TruthReportRow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO truth_reports (
			id, user_id, supplement_id, supplement_name, status, verdict, metric_key, metric_label,
			stats, confidence, cohort, confounded_days, confound_note,
			mechanism, biology, recommendation, source, total_days, unlocked,
			generated_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW())
		ON CONFLICT (id) DO NOTHING
	`, row.ID, row.UserID, row.SupplementID, row.SupplementName, row.Status, row.Verdict,
		row.MetricKey, row.MetricLabel, row.StatsJSON, row.ConfidenceJSON,
		nullableJSON(row.CohortJSON), row.ConfoundedDays, row.ConfoundNote,
		row.Mechanism, row.Biology, row.Recommendation, row.Source,
		row.TotalDays, row.Unlocked, row.GeneratedAt)
	return err
}

// GetLatest returns the most recent report for a (user, supplement) pair
func (r *TruthReportRepositoryImpl) GetLatest(ctx context.Context, userID, supplementID uuid.UUID) (*models.TruthReportRow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+reportColumns+`
		FROM truth_reports
		WHERE user_id = $1 AND supplement_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, supplementID)

	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrReportNotFound
	}
	return report, err
}

// ListLatestForUser returns each supplement's most recent report for a user
func (r *TruthReportRepositoryImpl) ListLatestForUser(ctx context.Context, userID uuid.UUID) ([]models.TruthReportRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT ON (supplement_id) `+reportColumns+`
		FROM truth_reports
		WHERE user_id = $1
		ORDER BY supplement_id, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.TruthReportRow
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *report)
	}
	return result, rows.Err()
}

// CountUnlocked counts supplements whose latest report carries the free
// unlock flag. Always a fresh query so concurrent requests for the same user
// observe a consistent view from the store.
func (r *TruthReportRepositoryImpl) CountUnlocked(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT supplement_id)
		FROM truth_reports
		WHERE user_id = $1 AND unlocked
	`, userID).Scan(&count)
	return count, err
}

// MarkUnlocked flags the latest report row for a supplement as unlocked
func (r *TruthReportRepositoryImpl) MarkUnlocked(ctx context.Context, userID, supplementID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE truth_reports SET unlocked = TRUE
		WHERE id = (
			SELECT id FROM truth_reports
			WHERE user_id = $1 AND supplement_id = $2
			ORDER BY created_at DESC
			LIMIT 1
		)
	`, userID, supplementID)
	return err
}

func scanReport(s rowScanner) (*models.TruthReportRow, error) {
	var row models.TruthReportRow
	var cohort []byte
	err := s.Scan(
		&row.ID, &row.UserID, &row.SupplementID, &row.SupplementName, &row.Status, &row.Verdict,
		&row.MetricKey, &row.MetricLabel, &row.StatsJSON, &row.ConfidenceJSON,
		&cohort, &row.ConfoundedDays, &row.ConfoundNote, &row.Mechanism,
		&row.Biology, &row.Recommendation, &row.Source, &row.TotalDays,
		&row.Unlocked, &row.GeneratedAt, &row.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	row.CohortJSON = cohort
	return &row, nil
}

func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
