package models

import (
	"time"

	"github.com/google/uuid"
)

// Check-in sources. Imported history is implicit evidence; live daily entries
// are explicit and count toward confirmation gating.
const (
	CheckinSourceExplicit = "explicit"
	CheckinSourceImplicit = "implicit"
)

// CheckinRow is one daily check-in as stored. Tags and IntakeMap are JSONB
// columns marshaled by the repository.
type CheckinRow struct {
	ID           uuid.UUID              `db:"id"`
	UserID       uuid.UUID              `db:"user_id"`
	Day          time.Time              `db:"day"`
	Energy       *float64               `db:"energy"`
	Mood         *float64               `db:"mood"`
	Focus        *float64               `db:"focus"`
	SleepQuality *float64               `db:"sleep_quality"`
	Tags         []string               `db:"-"`
	IntakeMap    map[string]interface{} `db:"-"`
	Source       string                 `db:"source"`
	CreatedAt    time.Time              `db:"created_at"`
}
