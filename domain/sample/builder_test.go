package sample

import (
	"testing"
	"time"

	"supptruth/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func day(offset int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

// TestNormalizeIntake_AllKnownEncodings exercises every intake marker shape
// clients have ever logged
func TestNormalizeIntake_AllKnownEncodings(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want *bool
	}{
		{"string taken", "taken", boolPtr(true)},
		{"string on", "on", boolPtr(true)},
		{"string true", "true", boolPtr(true)},
		{"string one", "1", boolPtr(true)},
		{"string taken uppercase", "TAKEN", boolPtr(true)},
		{"string taken padded", "  taken ", boolPtr(true)},
		{"string off", "off", boolPtr(false)},
		{"string skipped", "skipped", boolPtr(false)},
		{"string skip", "skip", boolPtr(false)},
		{"string false", "false", boolPtr(false)},
		{"string zero", "0", boolPtr(false)},
		{"bool true", true, boolPtr(true)},
		{"bool false", false, boolPtr(false)},
		{"float one", float64(1), boolPtr(true)},
		{"float zero", float64(0), boolPtr(false)},
		{"int one", 1, boolPtr(true)},
		{"int zero", 0, boolPtr(false)},
		{"int64 one", int64(1), boolPtr(true)},
		{"unknown string", "maybe", nil},
		{"unknown number", float64(2), nil},
		{"nil marker", nil, nil},
		{"unsupported type", []string{"taken"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeIntake(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestIsConfoundTag(t *testing.T) {
	for _, tag := range []string{"alcohol", "Travel", "ILLNESS", "high stress", "poor sleep", " intense exercise "} {
		assert.True(t, IsConfoundTag(tag), tag)
	}
	for _, tag := range []string{"caffeine", "stress", "sleep", ""} {
		assert.False(t, IsConfoundTag(tag), tag)
	}
}

func TestBuilder_AliasProbing_FirstMatchWins(t *testing.T) {
	b := NewBuilder(core.MetricEnergy, []string{"supp-id", "Magnesium", "mag"})

	days := []CheckinDay{
		{
			Date:    day(0),
			Metrics: map[core.MetricKey]*float64{core.MetricEnergy: fptr(7)},
			Intake:  map[string]interface{}{"Magnesium": "taken", "mag": "skipped"},
		},
		{
			Date:    day(1),
			Metrics: map[core.MetricKey]*float64{core.MetricEnergy: fptr(5)},
			Intake:  map[string]interface{}{"mag": "skipped"},
		},
		{
			Date:    day(2),
			Metrics: map[core.MetricKey]*float64{core.MetricEnergy: fptr(6)},
			Intake:  map[string]interface{}{"other-supp": "taken"},
		},
	}

	samples := b.Build(days)
	require.Len(t, samples, 3)

	require.NotNil(t, samples[0].Taken)
	assert.True(t, *samples[0].Taken, "earlier alias wins over later alias")

	require.NotNil(t, samples[1].Taken)
	assert.False(t, *samples[1].Taken)

	assert.Nil(t, samples[2].Taken, "unmatched aliases leave intake unknown")
}

func TestBuilder_SortsByDateAscending(t *testing.T) {
	b := NewBuilder(core.MetricMood, []string{"s"})
	days := []CheckinDay{
		{Date: day(5), Intake: map[string]interface{}{"s": "taken"}},
		{Date: day(1), Intake: map[string]interface{}{"s": "off"}},
		{Date: day(3), Intake: map[string]interface{}{"s": "taken"}},
	}

	samples := b.Build(days)
	require.Len(t, samples, 3)
	assert.True(t, samples[0].Date.Before(samples[1].Date))
	assert.True(t, samples[1].Date.Before(samples[2].Date))
}

func TestBuilder_ConfoundsAndSecondaryMetrics(t *testing.T) {
	b := NewBuilder(core.MetricEnergy, []string{"s"})
	days := []CheckinDay{
		{
			Date: day(0),
			Metrics: map[core.MetricKey]*float64{
				core.MetricEnergy: fptr(8),
				core.MetricMood:   fptr(6),
			},
			Tags:   []string{"Alcohol", "gym"},
			Intake: map[string]interface{}{"s": "taken"},
		},
	}

	samples := b.Build(days)
	require.Len(t, samples, 1)
	s := samples[0]

	assert.True(t, s.Confounded)
	assert.Equal(t, []string{"alcohol"}, s.ConfoundTags)
	require.NotNil(t, s.MetricValue)
	assert.Equal(t, 8.0, *s.MetricValue)
	require.Contains(t, s.SecondaryMetrics, core.MetricMood)
	assert.NotContains(t, s.SecondaryMetrics, core.MetricEnergy)
}

func TestBuilder_MissingMetricValueKeepsSample(t *testing.T) {
	b := NewBuilder(core.MetricFocus, []string{"s"})
	days := []CheckinDay{
		{Date: day(0), Intake: map[string]interface{}{"s": "taken"}},
	}

	samples := b.Build(days)
	require.Len(t, samples, 1)
	assert.Nil(t, samples[0].MetricValue)
	require.NotNil(t, samples[0].Taken)
	assert.True(t, *samples[0].Taken)
}

func TestCleanAndCountConfounded(t *testing.T) {
	taken := true
	samples := []DaySample{
		{Date: day(0), Taken: &taken},
		{Date: day(1), Taken: &taken, Confounded: true, ConfoundTags: []string{"travel"}},
		{Date: day(2), Taken: nil},
		{Date: day(3), Taken: nil, Confounded: true, ConfoundTags: []string{"illness"}},
	}

	clean := Clean(samples)
	require.Len(t, clean, 1)
	assert.Equal(t, day(0), clean[0].Date)

	// Confound count includes only intake-confirmed days; the day with no
	// decoded intake does not contribute even though it carries a tag.
	assert.Equal(t, 1, CountConfounded(samples))
}

func boolPtr(v bool) *bool { return &v }
