package insight

import (
	"math"
)

// ResponderLabel ranks a user within the community response distribution
type ResponderLabel string

const (
	SuperResponder ResponderLabel = "super_responder"
	Responder      ResponderLabel = "responder"
	NonResponder   ResponderLabel = "non_responder"
)

// Distribution is a community effect-size histogram for one canonical
// supplement: Bins holds the upper edge of each bucket, Counts the number of
// community members whose effect size fell at or below that edge (and above
// the previous one).
type Distribution struct {
	Bins   []float64 `json:"bins"`
	Counts []int     `json:"counts"`
}

// CohortComparison places one user's effect size inside the community
// distribution
type CohortComparison struct {
	Percentile int            `json:"percentile"`
	Label      ResponderLabel `json:"label"`
	SampleSize int            `json:"sample_size"`
}

// CompareToCohort computes the cumulative fraction of the community at or
// below the user's effect size, as an integer percentile. Returns nil when no
// cohort data exists; a percentile is never fabricated from zero samples.
func CompareToCohort(effectSize float64, dist *Distribution) *CohortComparison {
	if dist == nil || len(dist.Bins) == 0 || len(dist.Bins) != len(dist.Counts) {
		return nil
	}

	total := 0
	atOrBelow := 0
	for i, count := range dist.Counts {
		total += count
		if dist.Bins[i] <= effectSize {
			atOrBelow += count
		}
	}
	if total == 0 {
		return nil
	}

	percentile := int(math.Round(float64(atOrBelow) / float64(total) * 100))
	return &CohortComparison{
		Percentile: percentile,
		Label:      labelForPercentile(percentile),
		SampleSize: total,
	}
}

func labelForPercentile(p int) ResponderLabel {
	switch {
	case p >= 80:
		return SuperResponder
	case p >= 50:
		return Responder
	default:
		return NonResponder
	}
}
