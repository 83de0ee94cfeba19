package effect

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"supptruth/domain/sample"
)

// Direction classifies which way an effect points
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
	DirectionNeutral  Direction = "neutral"
)

const (
	// pooledSDFloor prevents the effect size from exploding when both arms
	// land on near-zero variance, which happens routinely on a bounded 1-10
	// rating scale.
	pooledSDFloor = 0.5

	// neutralThreshold is the |effect size| below which direction is neutral.
	// This is deliberately looser than the classifier's 0.3 verdict cutoff: a
	// signal can be directionally positive yet too weak to call a verdict.
	neutralThreshold = 0.1

	// DefaultPercentChangeFloor guards the percent-change denominator against
	// near-zero OFF baselines. Tuned for 1-10 rating scales; metrics on other
	// scales (e.g. minutes) should override it through Options.
	DefaultPercentChangeFloor = 0.01
)

// EffectStats is the immutable statistical comparison of ON vs OFF days
type EffectStats struct {
	MeanOn         float64   `json:"mean_on"`
	MeanOff        float64   `json:"mean_off"`
	AbsoluteChange float64   `json:"absolute_change"`
	PercentChange  float64   `json:"percent_change"`
	EffectSize     float64   `json:"effect_size"`
	Direction      Direction `json:"direction"`
	SampleOn       int       `json:"sample_on"`
	SampleOff      int       `json:"sample_off"`
	PValue         float64   `json:"p_value"`
}

// Options tunes effect computation per deployment
type Options struct {
	PercentChangeFloor float64
}

// DefaultOptions returns the standard computation options
func DefaultOptions() Options {
	return Options{PercentChangeFloor: DefaultPercentChangeFloor}
}

// Compute derives EffectStats from clean day samples (non-confounded, intake
// decoded). SampleOn/SampleOff count every clean day in each arm, including
// days with no logged metric value; means and SDs use only days with a value.
// Recomputing from identical samples yields identical stats.
func Compute(samples []sample.DaySample, metric MetricSpec, opts Options) EffectStats {
	if opts.PercentChangeFloor <= 0 {
		opts.PercentChangeFloor = DefaultPercentChangeFloor
	}

	var onValues, offValues []float64
	var sampleOn, sampleOff int
	for _, s := range samples {
		if s.Taken == nil || s.Confounded {
			continue
		}
		if *s.Taken {
			sampleOn++
			if s.MetricValue != nil {
				onValues = append(onValues, *s.MetricValue)
			}
		} else {
			sampleOff++
			if s.MetricValue != nil {
				offValues = append(offValues, *s.MetricValue)
			}
		}
	}

	meanOn := meanOf(onValues)
	meanOff := meanOf(offValues)

	rawChange := meanOn - meanOff
	absoluteChange := rawChange
	if metric.LowerIsBetter {
		absoluteChange = -absoluteChange
	}

	pooled := pooledSD(onValues, offValues)
	effectSize := 0.0
	if pooled > 0 || absoluteChange != 0 {
		effectSize = absoluteChange / math.Max(pooled, pooledSDFloor)
	}

	// True percent change relative to the OFF baseline. This is a different
	// unit than the standardized effect size and must never be derived from it.
	percentChange := rawChange / math.Max(meanOff, opts.PercentChangeFloor) * 100

	return EffectStats{
		MeanOn:         meanOn,
		MeanOff:        meanOff,
		AbsoluteChange: absoluteChange,
		PercentChange:  percentChange,
		EffectSize:     effectSize,
		Direction:      directionOf(effectSize),
		SampleOn:       sampleOn,
		SampleOff:      sampleOff,
		PValue:         welchPValue(onValues, offValues),
	}
}

func directionOf(effectSize float64) Direction {
	if math.Abs(effectSize) < neutralThreshold {
		return DirectionNeutral
	}
	if effectSize > 0 {
		return DirectionPositive
	}
	return DirectionNegative
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, _ := stats.Mean(values)
	return m
}

// pooledSD applies the standard two-sample pooling formula. Returns 0 when
// either arm is too small to carry a sample variance.
func pooledSD(on, off []float64) float64 {
	n1, n2 := float64(len(on)), float64(len(off))
	if n1 < 2 || n2 < 2 {
		return 0
	}
	var1, _ := stats.SampleVariance(on)
	var2, _ := stats.SampleVariance(off)
	return math.Sqrt(((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2))
}

// welchPValue computes a two-sided Welch t-test p-value over the arms. The
// verdict pipeline never consults it; it rides along on reports so humans can
// audit the heuristic confidence against a classical test.
func welchPValue(on, off []float64) float64 {
	n1, n2 := float64(len(on)), float64(len(off))
	if n1 < 2 || n2 < 2 {
		return 1
	}
	var1, _ := stats.SampleVariance(on)
	var2, _ := stats.SampleVariance(off)
	se := math.Sqrt(var1/n1 + var2/n2)
	if se == 0 {
		return 1
	}
	t := (meanOf(on) - meanOf(off)) / se

	// Welch-Satterthwaite degrees of freedom
	df := math.Pow(var1/n1+var2/n2, 2) /
		(math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1))
	if df <= 0 || math.IsNaN(df) {
		return 1
	}

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * (1 - dist.CDF(math.Abs(t)))
	return math.Min(math.Max(p, 0), 1)
}
