package ports

import (
	"context"

	"supptruth/models"

	"github.com/google/uuid"
)

// TruthReportRepository defines data access for persisted truth reports.
// Report history is append-only; "current" is always most recent by creation
// time, which makes concurrent last-write-wins safe.
type TruthReportRepository interface {
	// Save appends one report row. Saving the same report ID twice is a no-op.
	Save(ctx context.Context, row *models.TruthReportRow) error

	// GetLatest returns the most recent report for a (user, supplement) pair,
	// or core.ErrReportNotFound
	GetLatest(ctx context.Context, userID, supplementID uuid.UUID) (*models.TruthReportRow, error)

	// ListLatestForUser returns each supplement's most recent report for a user
	ListLatestForUser(ctx context.Context, userID uuid.UUID) ([]models.TruthReportRow, error)

	// CountUnlocked counts supplements for which the user's free unlock has
	// been spent. Queried fresh per request; never cached in process memory.
	CountUnlocked(ctx context.Context, userID uuid.UUID) (int, error)

	// MarkUnlocked flags the latest report row for a supplement as unlocked
	MarkUnlocked(ctx context.Context, userID, supplementID uuid.UUID) error
}

// CohortStatsRepository defines read access to community effect distributions
type CohortStatsRepository interface {
	// GetByCanonicalID returns cohort statistics for a canonical supplement,
	// or nil when no cohort data exists
	GetByCanonicalID(ctx context.Context, canonicalID uuid.UUID) (*models.CohortStatsRow, error)
}
