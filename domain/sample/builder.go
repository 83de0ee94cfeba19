package sample

import (
	"sort"

	"supptruth/domain/core"
)

// Builder joins raw check-in days and intake markers into canonical DaySamples
// for one supplement. Supplements can be addressed by more than one historical
// identifier in old intake maps (a legacy schema carried per-name keys before
// supplements got stable IDs), so the builder probes every known alias and
// takes the first marker that resolves.
type Builder struct {
	metric  core.MetricKey
	aliases []string
}

// NewBuilder creates a builder for one supplement's aliases and one primary metric.
// The first alias should be the canonical supplement ID.
func NewBuilder(metric core.MetricKey, aliases []string) *Builder {
	return &Builder{metric: metric, aliases: aliases}
}

// Build produces one DaySample per check-in day, ordered by date ascending.
// Days whose intake marker does not decode keep Taken=nil so downstream
// consumers can still count them toward all-time date coverage. A day with
// intake but no logged metric yields a sample with MetricValue=nil; it counts
// toward arm totals but not toward the numeric aggregate.
func (b *Builder) Build(days []CheckinDay) []DaySample {
	samples := make([]DaySample, 0, len(days))
	for _, day := range days {
		confounds := confoundsFor(day.Tags)
		s := DaySample{
			Date:         day.Date,
			MetricValue:  day.Metrics[b.metric],
			Taken:        b.resolveIntake(day.Intake),
			Confounded:   len(confounds) > 0,
			ConfoundTags: confounds,
		}
		if len(day.Metrics) > 1 {
			s.SecondaryMetrics = make(map[core.MetricKey]*float64, len(day.Metrics)-1)
			for key, val := range day.Metrics {
				if key != b.metric {
					s.SecondaryMetrics[key] = val
				}
			}
		}
		samples = append(samples, s)
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Date.Before(samples[j].Date)
	})
	return samples
}

// resolveIntake probes all known aliases against a day's intake map and
// normalizes the first marker found
func (b *Builder) resolveIntake(intake map[string]interface{}) *bool {
	if len(intake) == 0 {
		return nil
	}
	for _, alias := range b.aliases {
		if raw, ok := intake[alias]; ok {
			return NormalizeIntake(raw)
		}
	}
	return nil
}

// Clean filters samples down to the statistical set: an intake marker decoded
// and the day carries no confound tag
func Clean(samples []DaySample) []DaySample {
	clean := make([]DaySample, 0, len(samples))
	for _, s := range samples {
		if s.Taken != nil && !s.Confounded {
			clean = append(clean, s)
		}
	}
	return clean
}

// CountConfounded counts intake-confirmed days that were excluded for confounds
func CountConfounded(samples []DaySample) int {
	n := 0
	for _, s := range samples {
		if s.Taken != nil && s.Confounded {
			n++
		}
	}
	return n
}
