package ports

import (
	"context"
	"time"

	"supptruth/models"

	"github.com/google/uuid"
)

// SupplementRepository defines data access for user supplements and the
// curated canonical catalog
type SupplementRepository interface {
	// GetByID returns one supplement owned by the user, or
	// core.ErrSupplementNotFound
	GetByID(ctx context.Context, userID, supplementID uuid.UUID) (*models.SupplementRow, error)

	// ListForUser returns all of a user's supplements ordered by creation time
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.SupplementRow, error)

	// GetCanonical returns curated metadata for a canonical supplement, or
	// nil when none exists
	GetCanonical(ctx context.Context, canonicalID uuid.UUID) (*models.CanonicalSupplementRow, error)

	// StartRetest opens a retest window: sets the restart date, switches
	// testing status to "testing", and records the reset time for the
	// post-reset grace period
	StartRetest(ctx context.Context, userID, supplementID uuid.UUID, restartAt time.Time) error
}
