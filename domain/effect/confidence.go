package effect

import (
	"math"
)

// ConfidenceLabel buckets the heuristic confidence score
type ConfidenceLabel string

const (
	ConfidenceHigh   ConfidenceLabel = "high"
	ConfidenceMedium ConfidenceLabel = "medium"
	ConfidenceLow    ConfidenceLabel = "low"
)

// Confidence is a 0-1 heuristic combining effect magnitude and replication.
// It is not a p-value; it exists to be explainable.
type Confidence struct {
	Score float64         `json:"score"`
	Label ConfidenceLabel `json:"label"`
}

// EstimateConfidence scores an effect from its standardized size and the
// smaller arm's clean-day count. Each sub-score caps at 2 so a huge effect
// with n=1 cannot alone reach high confidence, and vice versa.
func EstimateConfidence(effectSize float64, sampleOn, sampleOff int) Confidence {
	n := sampleOn
	if sampleOff < n {
		n = sampleOff
	}

	sizeScore := math.Min(math.Abs(effectSize)/0.5, 2)
	nScore := math.Min(float64(n)/10, 2)
	score := clamp01((sizeScore + nScore) / 4)

	return Confidence{Score: score, Label: labelFor(score)}
}

func labelFor(score float64) ConfidenceLabel {
	switch {
	case score >= 0.75:
		return ConfidenceHigh
	case score >= 0.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
