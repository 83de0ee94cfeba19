package effect

import (
	"math"
)

// TruthStatus is the terminal classification of one analysis run. A new run
// over more data can re-derive a different status; nothing transitions a
// persisted instance in place.
type TruthStatus string

const (
	StatusTooEarly           TruthStatus = "too_early"
	StatusConfounded         TruthStatus = "confounded"
	StatusNoDetectableEffect TruthStatus = "no_detectable_effect"
	StatusProvenPositive     TruthStatus = "proven_positive"
	StatusNegative           TruthStatus = "negative"
)

// IsFinal reports whether a status is a final verdict eligible for
// user-facing disclosure. too_early and confounded are provisional.
func (s TruthStatus) IsFinal() bool {
	switch s {
	case StatusNoDetectableEffect, StatusProvenPositive, StatusNegative:
		return true
	}
	return false
}

// Classification thresholds. The verdict cutoff (0.3) is intentionally
// stricter than the direction-neutrality cutoff (0.1).
const (
	confoundedConfidenceMax = 0.4
	verdictConfidenceMin    = 0.6
	verdictEffectSizeMin    = 0.3
)

// Classify maps effect stats and confidence onto a truth status for one
// analysis run. Rules apply strictly in order: sample sufficiency first, then
// noise, then effect strength, then direction.
func Classify(s EffectStats, conf Confidence, metric MetricSpec) TruthStatus {
	if s.SampleOn < metric.RequiredOn || s.SampleOff < metric.RequiredOff() {
		return StatusTooEarly
	}
	if conf.Score < confoundedConfidenceMax {
		return StatusConfounded
	}
	if math.Abs(s.EffectSize) < verdictEffectSizeMin || conf.Score < verdictConfidenceMin {
		return StatusNoDetectableEffect
	}
	switch s.Direction {
	case DirectionPositive:
		return StatusProvenPositive
	case DirectionNegative:
		return StatusNegative
	}
	return StatusNoDetectableEffect
}
