package config

import (
	"os"
	"strconv"
	"time"

	"supptruth/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Engine   EngineConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// EngineConfig holds truth-engine tuning knobs
type EngineConfig struct {
	// PercentChangeFloor guards the percent-change denominator. The default
	// suits 1-10 rating scales; deployments adding metrics on other scales
	// (minutes, milligrams) should raise it.
	PercentChangeFloor float64

	// StalenessWindow is how old a report may be before a dashboard read
	// triggers recompute.
	StalenessWindow time.Duration

	// ResetGracePeriod skips recompute right after a testing-status reset so
	// analysis never races the write the user just made.
	ResetGracePeriod time.Duration

	// FallbackWindowDays bounds the check-in feed when a supplement has no
	// usable start date.
	FallbackWindowDays int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port:    envOr("PORT", "8080"),
			GinMode: envOr("GIN_MODE", "release"),
		},
		Engine: EngineConfig{
			PercentChangeFloor: envFloat("ENGINE_PERCENT_CHANGE_FLOOR", 0.01),
			StalenessWindow:    envDuration("ENGINE_STALENESS_WINDOW", time.Hour),
			ResetGracePeriod:   envDuration("ENGINE_RESET_GRACE_PERIOD", 5*time.Minute),
			FallbackWindowDays: envInt("ENGINE_FALLBACK_WINDOW_DAYS", 365),
		},
	}

	if cfg.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}
	if cfg.Engine.PercentChangeFloor <= 0 {
		return nil, errors.ConfigInvalid("ENGINE_PERCENT_CHANGE_FLOOR must be positive")
	}
	if cfg.Engine.FallbackWindowDays <= 0 {
		return nil, errors.ConfigInvalid("ENGINE_FALLBACK_WINDOW_DAYS must be positive")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
