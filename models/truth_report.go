package models

import (
	"time"

	"github.com/google/uuid"
)

// TruthReportRow is one persisted analysis run. Stats, Confidence, and Cohort
// are JSONB columns marshaled by the repository. Rows are append-only per
// (user, supplement); the current report is the most recent by created_at.
type TruthReportRow struct {
	ID             uuid.UUID `db:"id"`
	UserID         uuid.UUID `db:"user_id"`
	SupplementID   uuid.UUID `db:"supplement_id"`
	SupplementName string    `db:"supplement_name"`
	Status         string    `db:"status"`
	Verdict        string    `db:"verdict"`
	MetricKey      string    `db:"metric_key"`
	MetricLabel    string    `db:"metric_label"`
	StatsJSON      []byte    `db:"stats"`
	ConfidenceJSON []byte    `db:"confidence"`
	CohortJSON     []byte    `db:"cohort"`
	ConfoundedDays int       `db:"confounded_days"`
	ConfoundNote   string    `db:"confound_note"`
	Mechanism      string    `db:"mechanism"`
	Biology        string    `db:"biology"`
	Recommendation string    `db:"recommendation"`
	Source         string    `db:"source"`
	TotalDays      int       `db:"total_days"`
	Unlocked       bool      `db:"unlocked"`
	GeneratedAt    time.Time `db:"generated_at"`
	CreatedAt      time.Time `db:"created_at"`
}

// CohortStatsRow is the community effect-size distribution for one canonical
// supplement. Distribution is a JSONB column marshaled by the repository.
type CohortStatsRow struct {
	CanonicalID      uuid.UUID `db:"canonical_id"`
	SampleSize       int       `db:"sample_size"`
	AvgEffect        float64   `db:"avg_effect"`
	DistributionJSON []byte    `db:"effect_distribution"`
	UpdatedAt        time.Time `db:"updated_at"`
}
