// Package testkit generates deterministic check-in histories for tests.
// Everything here is seedless and reproducible: the same options always
// produce the same days, so statistical assertions stay exact.
package testkit

import (
	"time"

	"supptruth/domain/core"
	"supptruth/domain/sample"
	"supptruth/models"

	"github.com/google/uuid"
)

// HistoryStart is the fixed first day of every generated history
var HistoryStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// HistoryOptions shapes a generated check-in history
type HistoryOptions struct {
	Start         time.Time // first day; zero means HistoryStart
	Days          int
	Metric        core.MetricKey
	OnValue       float64 // metric value on taken days
	OffValue      float64 // metric value on skipped days
	SupplementKey string  // intake map key
	OnCycle       int     // days taken per cycle
	OffCycle      int     // days skipped per cycle
	ConfoundEvery int     // every Nth day gets an "alcohol" tag (0 = never)
	GapEvery      int     // every Nth day has no intake marker (0 = never)
}

// GenerateHistory produces Days check-in days following the cyclic ON/OFF
// pattern. Day 1 starts the ON phase.
func GenerateHistory(opts HistoryOptions) []sample.CheckinDay {
	if opts.OnCycle <= 0 {
		opts.OnCycle = 4
	}
	if opts.OffCycle <= 0 {
		opts.OffCycle = 2
	}
	if opts.Start.IsZero() {
		opts.Start = HistoryStart
	}

	cycle := opts.OnCycle + opts.OffCycle
	days := make([]sample.CheckinDay, 0, opts.Days)
	for i := 0; i < opts.Days; i++ {
		taken := i%cycle < opts.OnCycle
		value := opts.OffValue
		marker := "skipped"
		if taken {
			value = opts.OnValue
			marker = "taken"
		}

		day := sample.CheckinDay{
			Date:    opts.Start.AddDate(0, 0, i),
			Metrics: map[core.MetricKey]*float64{opts.Metric: ptr(value)},
			Intake:  map[string]interface{}{opts.SupplementKey: marker},
		}
		if opts.GapEvery > 0 && (i+1)%opts.GapEvery == 0 {
			day.Intake = map[string]interface{}{}
		}
		if opts.ConfoundEvery > 0 && (i+1)%opts.ConfoundEvery == 0 {
			day.Tags = []string{"alcohol"}
		}
		days = append(days, day)
	}
	return days
}

// CheckinRows converts generated days into stored rows for one user
func CheckinRows(userID uuid.UUID, days []sample.CheckinDay, source string) []models.CheckinRow {
	rows := make([]models.CheckinRow, 0, len(days))
	for _, day := range days {
		row := models.CheckinRow{
			ID:        uuid.New(),
			UserID:    userID,
			Day:       day.Date,
			Tags:      day.Tags,
			IntakeMap: day.Intake,
			Source:    source,
			CreatedAt: day.Date,
		}
		row.Energy = day.Metrics[core.MetricEnergy]
		row.Mood = day.Metrics[core.MetricMood]
		row.Focus = day.Metrics[core.MetricFocus]
		row.SleepQuality = day.Metrics[core.MetricSleepQuality]
		rows = append(rows, row)
	}
	return rows
}

// Samples builds day samples from explicit ON/OFF metric values, the shape
// most unit tests want
func Samples(onValues, offValues []float64) []sample.DaySample {
	samples := make([]sample.DaySample, 0, len(onValues)+len(offValues))
	day := HistoryStart
	for _, v := range onValues {
		samples = append(samples, sample.DaySample{Date: day, MetricValue: ptr(v), Taken: ptr(true)})
		day = day.AddDate(0, 0, 1)
	}
	for _, v := range offValues {
		samples = append(samples, sample.DaySample{Date: day, MetricValue: ptr(v), Taken: ptr(false)})
		day = day.AddDate(0, 0, 1)
	}
	return samples
}

// Repeat returns a slice of n copies of v
func Repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
