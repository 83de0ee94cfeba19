package core

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_UniqueAndParseable(t *testing.T) {
	a := NewID()
	b := NewID()

	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a.String())
	assert.NoError(t, err)
	assert.False(t, a.IsEmpty())
	assert.True(t, ID("").IsEmpty())
}

func TestParseUserID(t *testing.T) {
	valid := uuid.New().String()
	id, err := ParseUserID(valid)
	require.NoError(t, err)
	assert.Equal(t, valid, id.String())

	_, err = ParseUserID("")
	assert.Error(t, err)

	_, err = ParseUserID("not-a-uuid")
	assert.Error(t, err)
}

func TestParseMetricKey_Normalizes(t *testing.T) {
	key, err := ParseMetricKey("  Sleep_Quality ")
	require.NoError(t, err)
	assert.Equal(t, MetricSleepQuality, key)

	_, err = ParseMetricKey("   ")
	assert.Error(t, err)
}

func TestDayKey_CollapsesToCalendarDay(t *testing.T) {
	morning := time.Date(2025, 6, 1, 1, 30, 0, 0, time.UTC)
	evening := time.Date(2025, 6, 1, 23, 45, 0, 0, time.UTC)

	assert.Equal(t, DayKey(morning), DayKey(evening))

	parsed, err := ParseDay(DayKey(morning))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), parsed)
}
