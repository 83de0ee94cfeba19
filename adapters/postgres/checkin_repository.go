package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"supptruth/models"
	"supptruth/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CheckinRepositoryImpl implements CheckinRepository for PostgreSQL
type CheckinRepositoryImpl struct {
	db *sqlx.DB
}

// NewCheckinRepository creates a new PostgreSQL check-in repository
func NewCheckinRepository(db *sqlx.DB) ports.CheckinRepository {
	return &CheckinRepositoryImpl{db: db}
}

// ListSince returns a user's check-ins on or after a lower date bound
func (r *CheckinRepositoryImpl) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.CheckinRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, day, energy, mood, focus, sleep_quality,
			   tags, intake_map, source, created_at
		FROM checkins
		WHERE user_id = $1 AND day >= $2
		ORDER BY day ASC
	`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.CheckinRow
	for rows.Next() {
		row, err := scanCheckin(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *row)
	}
	return result, rows.Err()
}

func scanCheckin(s rowScanner) (*models.CheckinRow, error) {
	var row models.CheckinRow
	var tagsJSON, intakeJSON []byte
	if err := s.Scan(
		&row.ID, &row.UserID, &row.Day, &row.Energy, &row.Mood, &row.Focus,
		&row.SleepQuality, &tagsJSON, &intakeJSON, &row.Source, &row.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tagsJSON, &row.Tags); err != nil {
		return nil, fmt.Errorf("decode check-in tags: %w", err)
	}
	if err := json.Unmarshal(intakeJSON, &row.IntakeMap); err != nil {
		return nil, fmt.Errorf("decode check-in intake map: %w", err)
	}
	return &row, nil
}

// CountExplicitSince counts live check-ins logged on or after a lower bound
func (r *CheckinRepositoryImpl) CountExplicitSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM checkins
		WHERE user_id = $1 AND source = $2 AND day >= $3
	`, userID, models.CheckinSourceExplicit, since).Scan(&count)
	return count, err
}

// BulkInsert inserts imported rows, leaving explicitly logged days untouched.
// Returns the number of rows actually inserted.
func (r *CheckinRepositoryImpl) BulkInsert(ctx context.Context, checkins []models.CheckinRow) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	inserted := 0
	for _, row := range checkins {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		tagsJSON, _ := json.Marshal(row.Tags)
		intakeJSON, _ := json.Marshal(row.IntakeMap)

		res, err := tx.ExecContext(ctx, `
			INSERT INTO checkins (id, user_id, day, energy, mood, focus, sleep_quality,
								  tags, intake_map, source, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
			ON CONFLICT (user_id, day) DO NOTHING
		`, row.ID, row.UserID, row.Day, row.Energy, row.Mood, row.Focus,
			row.SleepQuality, tagsJSON, intakeJSON, row.Source)
		if err != nil {
			return 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}
