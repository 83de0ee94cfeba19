package main

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"supptruth/internal"
	"supptruth/internal/config"
	"supptruth/internal/container"
	"supptruth/internal/errors"
	"supptruth/internal/migration"
	"supptruth/ui"
)

// initDatabase initializes the PostgreSQL database connection
func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	c, err := container.New(cfg, logger)
	if err != nil {
		log.Fatalf("container init failed: %v", err)
	}
	if err := c.InitWithDatabase(db); err != nil {
		log.Fatalf("container wiring failed: %v", err)
	}
	defer c.Close()

	server := ui.NewServer(cfg.Server, c.TruthService, logger)
	if err := server.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
