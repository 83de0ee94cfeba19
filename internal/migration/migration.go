package migration

import (
	"context"

	"supptruth/internal/errors"

	"github.com/jmoiron/sqlx"
)

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{version: "1.0.0"}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createCanonicalSupplementsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create canonical_supplements table")
	}
	if err := r.createSupplementsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create supplements table")
	}
	if err := r.createCheckinsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create checkins table")
	}
	if err := r.createTruthReportsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create truth_reports table")
	}
	if err := r.createCohortStatsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create cohort_stats table")
	}
	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}
	return nil
}

func (r *MigrationRunner) createCanonicalSupplementsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS canonical_supplements (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			mechanism_tags JSONB NOT NULL DEFAULT '[]',
			pathway_summary TEXT NOT NULL DEFAULT '',
			primary_goals JSONB NOT NULL DEFAULT '[]'
		)`)
	return err
}

func (r *MigrationRunner) createSupplementsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS supplements (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			canonical_id UUID REFERENCES canonical_supplements(id),
			name TEXT NOT NULL,
			primary_metric TEXT NOT NULL DEFAULT 'energy',
			aliases JSONB NOT NULL DEFAULT '[]',
			testing_status TEXT NOT NULL DEFAULT 'active',
			restart_date TIMESTAMPTZ,
			inferred_start_date TIMESTAMPTZ,
			status_reset_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

func (r *MigrationRunner) createCheckinsTable(ctx context.Context, db *sqlx.DB) error {
	// One row per user per calendar day; imports must not clobber a day the
	// user already logged explicitly.
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS checkins (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			day DATE NOT NULL,
			energy DOUBLE PRECISION,
			mood DOUBLE PRECISION,
			focus DOUBLE PRECISION,
			sleep_quality DOUBLE PRECISION,
			tags JSONB NOT NULL DEFAULT '[]',
			intake_map JSONB NOT NULL DEFAULT '{}',
			source TEXT NOT NULL DEFAULT 'explicit',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, day)
		)`)
	return err
}

func (r *MigrationRunner) createTruthReportsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS truth_reports (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			supplement_id UUID NOT NULL,
			supplement_name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			verdict TEXT NOT NULL DEFAULT '',
			metric_key TEXT NOT NULL,
			metric_label TEXT NOT NULL DEFAULT '',
			stats JSONB NOT NULL DEFAULT '{}',
			confidence JSONB NOT NULL DEFAULT '{}',
			cohort JSONB,
			confounded_days INT NOT NULL DEFAULT 0,
			confound_note TEXT NOT NULL DEFAULT '',
			mechanism TEXT NOT NULL DEFAULT '',
			biology TEXT NOT NULL DEFAULT '',
			recommendation TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT 'explicit',
			total_days INT NOT NULL DEFAULT 0,
			unlocked BOOLEAN NOT NULL DEFAULT FALSE,
			generated_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

func (r *MigrationRunner) createCohortStatsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cohort_stats (
			canonical_id UUID PRIMARY KEY REFERENCES canonical_supplements(id),
			sample_size INT NOT NULL DEFAULT 0,
			avg_effect DOUBLE PRECISION NOT NULL DEFAULT 0,
			effect_distribution JSONB NOT NULL DEFAULT '{}',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_checkins_user_day ON checkins(user_id, day)`,
		`CREATE INDEX IF NOT EXISTS idx_checkins_user_source ON checkins(user_id, source)`,
		`CREATE INDEX IF NOT EXISTS idx_supplements_user ON supplements(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_truth_reports_user_supp ON truth_reports(user_id, supplement_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_truth_reports_unlocked ON truth_reports(user_id) WHERE unlocked`,
	}
	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}
