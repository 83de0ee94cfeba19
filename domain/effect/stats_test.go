package effect

import (
	"math"
	"testing"

	"supptruth/domain/core"
	"supptruth/domain/sample"
	"supptruth/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func energySpec() MetricSpec {
	return MetricFor(core.MetricEnergy)
}

// TestCompute_PositiveEffect covers the small-sample positive case: ON days
// [7,8,7,9] vs OFF days [5,4,5] on energy.
func TestCompute_PositiveEffect(t *testing.T) {
	samples := testkit.Samples([]float64{7, 8, 7, 9}, []float64{5, 4, 5})

	s := Compute(samples, energySpec(), DefaultOptions())

	assert.InDelta(t, 7.75, s.MeanOn, 1e-9)
	assert.InDelta(t, 4.6667, s.MeanOff, 1e-3)
	assert.InDelta(t, 3.0833, s.AbsoluteChange, 1e-3)
	assert.Equal(t, DirectionPositive, s.Direction)
	assert.Equal(t, 4, s.SampleOn)
	assert.Equal(t, 3, s.SampleOff)
	assert.Greater(t, s.EffectSize, 0.3)
}

// TestCompute_ZeroVariance covers identical arms: 14 ON at 8, 5 OFF at 8.
// The pooled-SD floor must keep the division defined and the effect at zero.
func TestCompute_ZeroVariance(t *testing.T) {
	samples := testkit.Samples(testkit.Repeat(8, 14), testkit.Repeat(8, 5))

	s := Compute(samples, energySpec(), DefaultOptions())

	assert.Zero(t, s.AbsoluteChange)
	assert.Zero(t, s.EffectSize)
	assert.Equal(t, DirectionNeutral, s.Direction)
	assert.Equal(t, 14, s.SampleOn)
	assert.Equal(t, 5, s.SampleOff)
	assert.False(t, math.IsNaN(s.PercentChange))
	assert.False(t, math.IsInf(s.EffectSize, 0))
}

func TestCompute_LowerIsBetterInvertsSign(t *testing.T) {
	// Sleep-onset minutes style metric: ON days drop the raw value, which is
	// the improvement.
	spec := MetricSpec{Key: "sleep_latency", Label: "Sleep Latency", LowerIsBetter: true, RequiredOn: 14}
	samples := testkit.Samples([]float64{20, 22, 18, 21}, []float64{40, 38, 42, 41})

	s := Compute(samples, spec, DefaultOptions())

	assert.Less(t, s.MeanOn, s.MeanOff)
	assert.Greater(t, s.AbsoluteChange, 0.0, "drop in a lower-is-better metric is a positive change")
	assert.Equal(t, DirectionPositive, s.Direction)
	assert.Less(t, s.PercentChange, 0.0, "raw percent change keeps the raw sign")
}

// TestCompute_PercentChangeIsNotEffectSize pins the two quantities to
// different units. With a tiny OFF baseline the percent change explodes while
// the standardized effect size stays bounded by the SD floor.
func TestCompute_PercentChangeIsNotEffectSize(t *testing.T) {
	samples := testkit.Samples([]float64{1.0, 1.1, 0.9, 1.0}, []float64{0.1, 0.1, 0.1, 0.1})

	s := Compute(samples, energySpec(), DefaultOptions())

	assert.Greater(t, s.PercentChange, 500.0)
	assert.Less(t, s.EffectSize, 20.0)
	assert.Greater(t, math.Abs(s.PercentChange-s.EffectSize*100), 1.0)
}

func TestCompute_PercentChangeFloorGuardsZeroBaseline(t *testing.T) {
	samples := testkit.Samples([]float64{2, 2, 2, 2}, []float64{0, 0, 0, 0})

	s := Compute(samples, energySpec(), Options{PercentChangeFloor: 0.01})

	assert.False(t, math.IsInf(s.PercentChange, 0))
	assert.InDelta(t, 20000, s.PercentChange, 1e-6)
}

func TestCompute_SkipsConfoundedAndUnknownIntake(t *testing.T) {
	taken := true
	off := false
	samples := []sample.DaySample{
		{Taken: &taken, MetricValue: fval(8)},
		{Taken: &taken, MetricValue: fval(9), Confounded: true},
		{Taken: nil, MetricValue: fval(10)},
		{Taken: &off, MetricValue: fval(4)},
	}

	s := Compute(samples, energySpec(), DefaultOptions())

	assert.Equal(t, 1, s.SampleOn, "confounded and unknown days stay out of the arms")
	assert.Equal(t, 1, s.SampleOff)
	assert.InDelta(t, 8, s.MeanOn, 1e-9)
	assert.InDelta(t, 4, s.MeanOff, 1e-9)
}

func TestCompute_ValuelessDayCountsTowardArm(t *testing.T) {
	taken := true
	off := false
	samples := []sample.DaySample{
		{Taken: &taken, MetricValue: fval(8)},
		{Taken: &taken}, // intake logged, metric missing
		{Taken: &off, MetricValue: fval(4)},
	}

	s := Compute(samples, energySpec(), DefaultOptions())

	assert.Equal(t, 2, s.SampleOn)
	assert.InDelta(t, 8, s.MeanOn, 1e-9, "mean uses only valued days")
}

func TestCompute_Idempotent(t *testing.T) {
	samples := testkit.Samples([]float64{7, 8, 6, 9, 8, 7}, []float64{5, 4, 6, 5})

	first := Compute(samples, energySpec(), DefaultOptions())
	second := Compute(samples, energySpec(), DefaultOptions())

	assert.Equal(t, first, second)
}

func TestCompute_WelchPValue(t *testing.T) {
	separated := Compute(testkit.Samples([]float64{8, 9, 8, 9, 8, 9, 8}, []float64{3, 4, 3, 4, 3}), energySpec(), DefaultOptions())
	assert.Less(t, separated.PValue, 0.01, "clearly separated arms should be significant")

	flat := Compute(testkit.Samples(testkit.Repeat(8, 14), testkit.Repeat(8, 5)), energySpec(), DefaultOptions())
	assert.Equal(t, 1.0, flat.PValue, "zero standard error degrades to p=1")

	tiny := Compute(testkit.Samples([]float64{8}, []float64{4}), energySpec(), DefaultOptions())
	assert.Equal(t, 1.0, tiny.PValue, "single-sample arms carry no test")
}

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, DirectionNeutral, directionOf(0.05))
	assert.Equal(t, DirectionNeutral, directionOf(-0.099))
	assert.Equal(t, DirectionPositive, directionOf(0.1))
	assert.Equal(t, DirectionNegative, directionOf(-0.4))
}

func TestPooledSD(t *testing.T) {
	assert.Zero(t, pooledSD([]float64{8}, []float64{4, 5}), "one-element arm has no sample variance")

	got := pooledSD([]float64{7, 8, 7, 9}, []float64{5, 4, 5})
	// var1 = 0.9167 (n1=4), var2 = 0.3333 (n2=3)
	want := math.Sqrt((3*0.916666667 + 2*0.333333333) / 5)
	require.InDelta(t, want, got, 1e-6)
}

func TestRequiredOff(t *testing.T) {
	tests := []struct {
		on   int
		want int
	}{
		{10, 3},
		{12, 3},
		{14, 4},
		{20, 5},
		{40, 5},
		{4, 3},
	}
	for _, tt := range tests {
		spec := MetricSpec{RequiredOn: tt.on}
		assert.Equal(t, tt.want, spec.RequiredOff(), "on=%d", tt.on)
	}
}

func TestMetricFor_UnknownKeyGetsDefaults(t *testing.T) {
	spec := MetricFor(core.MetricKey("libido"))
	assert.Equal(t, 14, spec.RequiredOn)
	assert.Equal(t, "libido", spec.Label)
	assert.False(t, spec.LowerIsBetter)
}

func fval(v float64) *float64 { return &v }
