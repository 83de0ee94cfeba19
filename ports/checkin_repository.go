package ports

import (
	"context"
	"time"

	"supptruth/models"

	"github.com/google/uuid"
)

// CheckinRepository defines data access for daily check-in rows
type CheckinRepository interface {
	// ListSince returns a user's check-ins on or after a lower date bound,
	// ordered by day ascending
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.CheckinRow, error)

	// CountExplicitSince counts a user's live (non-imported) check-ins logged
	// on or after a lower date bound
	CountExplicitSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)

	// BulkInsert inserts imported check-in rows, skipping days the user has
	// already logged explicitly
	BulkInsert(ctx context.Context, rows []models.CheckinRow) (int, error)
}
