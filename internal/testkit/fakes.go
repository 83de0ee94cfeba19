package testkit

import (
	"context"
	"sync"
	"time"

	"supptruth/domain/core"
	"supptruth/models"

	"github.com/google/uuid"
)

// In-memory repository fakes. They carry real state so service and handler
// tests exercise the full read-recompute-gate flow without a database, and
// they mirror the SQL adapters' filter semantics.

// FakeCheckinRepository holds check-in rows in memory
type FakeCheckinRepository struct {
	Rows []models.CheckinRow

	mu        sync.Mutex
	listCalls int
}

func (f *FakeCheckinRepository) ListSince(_ context.Context, userID uuid.UUID, since time.Time) ([]models.CheckinRow, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()

	var out []models.CheckinRow
	for _, r := range f.Rows {
		if r.UserID == userID && !r.Day.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

// CountExplicitSince filters on the check-in day, matching the SQL adapter's
// WHERE day >= bound
func (f *FakeCheckinRepository) CountExplicitSince(_ context.Context, userID uuid.UUID, since time.Time) (int, error) {
	n := 0
	for _, r := range f.Rows {
		if r.UserID == userID && r.Source == models.CheckinSourceExplicit && !r.Day.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *FakeCheckinRepository) BulkInsert(_ context.Context, rows []models.CheckinRow) (int, error) {
	inserted := 0
	for _, row := range rows {
		dup := false
		for _, have := range f.Rows {
			if have.UserID == row.UserID && have.Day.Equal(row.Day) {
				dup = true
				break
			}
		}
		if !dup {
			f.Rows = append(f.Rows, row)
			inserted++
		}
	}
	return inserted, nil
}

// ListSinceCalls reports how many times the check-in feed was read, which is
// how tests observe analysis work being skipped
func (f *FakeCheckinRepository) ListSinceCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// FakeSupplementRepository holds supplements and canonical metadata in memory
type FakeSupplementRepository struct {
	Supps      []models.SupplementRow
	Canonicals map[uuid.UUID]*models.CanonicalSupplementRow
}

func (f *FakeSupplementRepository) GetByID(_ context.Context, userID, supplementID uuid.UUID) (*models.SupplementRow, error) {
	for i := range f.Supps {
		if f.Supps[i].UserID == userID && f.Supps[i].ID == supplementID {
			return &f.Supps[i], nil
		}
	}
	return nil, core.ErrSupplementNotFound
}

func (f *FakeSupplementRepository) ListForUser(_ context.Context, userID uuid.UUID) ([]models.SupplementRow, error) {
	var out []models.SupplementRow
	for _, s := range f.Supps {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *FakeSupplementRepository) GetCanonical(_ context.Context, canonicalID uuid.UUID) (*models.CanonicalSupplementRow, error) {
	return f.Canonicals[canonicalID], nil
}

func (f *FakeSupplementRepository) StartRetest(_ context.Context, userID, supplementID uuid.UUID, restartAt time.Time) error {
	for i := range f.Supps {
		if f.Supps[i].UserID == userID && f.Supps[i].ID == supplementID {
			f.Supps[i].RestartDate = &restartAt
			f.Supps[i].TestingStatus = models.TestingStatusTesting
			f.Supps[i].StatusResetAt = &restartAt
			return nil
		}
	}
	return core.ErrSupplementNotFound
}

// FakeTruthReportRepository holds append-only report rows in memory
type FakeTruthReportRepository struct {
	mu   sync.Mutex
	rows []*models.TruthReportRow
}

func (f *FakeTruthReportRepository) Save(_ context.Context, row *models.TruthReportRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, have := range f.rows {
		if have.ID == row.ID {
			return nil
		}
	}
	saved := *row
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = saved.GeneratedAt
	}
	f.rows = append(f.rows, &saved)
	return nil
}

func (f *FakeTruthReportRepository) GetLatest(_ context.Context, userID, supplementID uuid.UUID) (*models.TruthReportRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	latest := f.latestLocked(userID, supplementID)
	if latest == nil {
		return nil, core.ErrReportNotFound
	}
	copied := *latest
	return &copied, nil
}

func (f *FakeTruthReportRepository) ListLatestForUser(_ context.Context, userID uuid.UUID) ([]models.TruthReportRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	latest := map[uuid.UUID]*models.TruthReportRow{}
	for _, r := range f.rows {
		if r.UserID != userID {
			continue
		}
		if have, ok := latest[r.SupplementID]; !ok || r.CreatedAt.After(have.CreatedAt) {
			latest[r.SupplementID] = r
		}
	}
	var out []models.TruthReportRow
	for _, r := range latest {
		out = append(out, *r)
	}
	return out, nil
}

func (f *FakeTruthReportRepository) CountUnlocked(_ context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[uuid.UUID]bool{}
	for _, r := range f.rows {
		if r.UserID == userID && r.Unlocked {
			seen[r.SupplementID] = true
		}
	}
	return len(seen), nil
}

func (f *FakeTruthReportRepository) MarkUnlocked(_ context.Context, userID, supplementID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	latest := f.latestLocked(userID, supplementID)
	if latest == nil {
		return core.ErrReportNotFound
	}
	latest.Unlocked = true
	return nil
}

// SaveCount reports how many rows have been persisted
func (f *FakeTruthReportRepository) SaveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func (f *FakeTruthReportRepository) latestLocked(userID, supplementID uuid.UUID) *models.TruthReportRow {
	var latest *models.TruthReportRow
	for _, r := range f.rows {
		if r.UserID == userID && r.SupplementID == supplementID {
			if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
				latest = r
			}
		}
	}
	return latest
}

// FakeCohortStatsRepository holds cohort distributions in memory
type FakeCohortStatsRepository struct {
	ByCanonical map[uuid.UUID]*models.CohortStatsRow
}

func (f *FakeCohortStatsRepository) GetByCanonicalID(_ context.Context, canonicalID uuid.UUID) (*models.CohortStatsRow, error) {
	return f.ByCanonical[canonicalID], nil
}
