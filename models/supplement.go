package models

import (
	"time"

	"github.com/google/uuid"
)

// Testing status values for a supplement
const (
	TestingStatusActive  = "active"
	TestingStatusTesting = "testing"
	TestingStatusPaused  = "paused"
)

// SupplementRow is one user-owned supplement as stored. Aliases holds every
// historical identifier intake maps may key this supplement under (legacy
// name-based keys plus the stable ID); it is a JSONB column marshaled by the
// repository.
type SupplementRow struct {
	ID                uuid.UUID  `db:"id"`
	UserID            uuid.UUID  `db:"user_id"`
	CanonicalID       *uuid.UUID `db:"canonical_id"`
	Name              string     `db:"name"`
	PrimaryMetric     string     `db:"primary_metric"`
	Aliases           []string   `db:"-"`
	TestingStatus     string     `db:"testing_status"`
	RestartDate       *time.Time `db:"restart_date"`
	InferredStartDate *time.Time `db:"inferred_start_date"`
	StatusResetAt     *time.Time `db:"status_reset_at"`
	CreatedAt         time.Time  `db:"created_at"`
}

// RetestActive reports whether a retest window is open: the user explicitly
// restarted data collection and is still in testing status. While active,
// pre-restart implicit evidence must not influence gating or recompute.
func (s *SupplementRow) RetestActive() bool {
	return s.RestartDate != nil && s.TestingStatus == TestingStatusTesting
}

// EvidenceStart is the lower date bound for this supplement's check-in feed:
// the restart date during a retest, otherwise the inferred start when bulk
// import established one, otherwise the creation time.
func (s *SupplementRow) EvidenceStart() time.Time {
	if s.RetestActive() {
		return *s.RestartDate
	}
	if s.InferredStartDate != nil {
		return *s.InferredStartDate
	}
	return s.CreatedAt
}

// CanonicalSupplementRow is curated reference metadata shared across users,
// joined by canonical ID. MechanismTags and PrimaryGoals are JSONB columns
// marshaled by the repository.
type CanonicalSupplementRow struct {
	ID             uuid.UUID `db:"id"`
	Name           string    `db:"name"`
	MechanismTags  []string  `db:"-"`
	PathwaySummary string    `db:"pathway_summary"`
	PrimaryGoals   []string  `db:"-"`
}
