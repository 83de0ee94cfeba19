package effect

import (
	"supptruth/domain/core"
)

// MetricSpec describes how one outcome metric is measured and how much
// evidence its verdicts require. LowerIsBetter inverts the sign of the
// absolute change so that positive always means improvement (e.g. sleep-onset
// latency in minutes, where a drop is the win).
type MetricSpec struct {
	Key           core.MetricKey
	Label         string
	LowerIsBetter bool
	RequiredOn    int
}

// Catalog of tracked metrics. Sleep quality needs fewer ON days because its
// day-to-day variance is lower than the cognitive metrics.
var metricCatalog = map[core.MetricKey]MetricSpec{
	core.MetricSleepQuality: {Key: core.MetricSleepQuality, Label: "Sleep Quality", LowerIsBetter: false, RequiredOn: 10},
	core.MetricEnergy:       {Key: core.MetricEnergy, Label: "Energy", LowerIsBetter: false, RequiredOn: 12},
	core.MetricMood:         {Key: core.MetricMood, Label: "Mood", LowerIsBetter: false, RequiredOn: 14},
	core.MetricFocus:        {Key: core.MetricFocus, Label: "Focus", LowerIsBetter: false, RequiredOn: 14},
}

const defaultRequiredOn = 14

// MetricFor resolves a metric key to its spec. Unknown keys get a default
// spec so future metrics degrade to conservative requirements instead of
// failing analysis.
func MetricFor(key core.MetricKey) MetricSpec {
	if spec, ok := metricCatalog[key]; ok {
		return spec
	}
	return MetricSpec{Key: key, Label: key.String(), RequiredOn: defaultRequiredOn}
}

// RequiredOff derives the OFF-arm requirement from the ON requirement:
// round(on/4) clamped to [3, 5]
func (m MetricSpec) RequiredOff() int {
	off := (m.RequiredOn + 2) / 4
	if off < 3 {
		return 3
	}
	if off > 5 {
		return 5
	}
	return off
}
