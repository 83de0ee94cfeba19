package container

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"supptruth/adapters/postgres"
	"supptruth/app"
	"supptruth/internal"
	"supptruth/internal/config"
	"supptruth/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	CheckinRepo    ports.CheckinRepository
	SupplementRepo ports.SupplementRepository
	ReportRepo     ports.TruthReportRepository
	CohortRepo     ports.CohortStatsRepository

	// Services
	TruthService *app.TruthService
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Container{Config: cfg, Logger: logger}, nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	c.DB = db

	c.CheckinRepo = postgres.NewCheckinRepository(db)
	c.SupplementRepo = postgres.NewSupplementRepository(db)
	c.ReportRepo = postgres.NewTruthReportRepository(db)
	c.CohortRepo = postgres.NewCohortStatsRepository(db)

	c.TruthService = app.NewTruthService(
		c.CheckinRepo,
		c.SupplementRepo,
		c.ReportRepo,
		c.CohortRepo,
		c.Config.Engine,
		c.Logger,
	)
	return nil
}

// Close releases container resources
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
