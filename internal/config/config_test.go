package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/supptruth_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.InDelta(t, 0.01, cfg.Engine.PercentChangeFloor, 1e-12)
	assert.Equal(t, time.Hour, cfg.Engine.StalenessWindow)
	assert.Equal(t, 5*time.Minute, cfg.Engine.ResetGracePeriod)
	assert.Equal(t, 365, cfg.Engine.FallbackWindowDays)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/supptruth_test")
	t.Setenv("ENGINE_PERCENT_CHANGE_FLOOR", "1.0")
	t.Setenv("ENGINE_STALENESS_WINDOW", "15m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cfg.Engine.PercentChangeFloor, 1e-12)
	assert.Equal(t, 15*time.Minute, cfg.Engine.StalenessWindow)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	assert.Error(t, err)
}
