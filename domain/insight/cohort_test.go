package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareToCohort_Percentile(t *testing.T) {
	dist := &Distribution{
		Bins:   []float64{-0.5, 0, 0.5, 1.0, 2.0},
		Counts: []int{5, 10, 40, 30, 15},
	}

	// Effect size 1.0 covers the first four bins: 85 of 100.
	c := CompareToCohort(1.0, dist)
	require.NotNil(t, c)
	assert.Equal(t, 85, c.Percentile)
	assert.Equal(t, SuperResponder, c.Label)
	assert.Equal(t, 100, c.SampleSize)

	// Effect size 0.6 covers three bins: 55 of 100.
	c = CompareToCohort(0.6, dist)
	require.NotNil(t, c)
	assert.Equal(t, 55, c.Percentile)
	assert.Equal(t, Responder, c.Label)

	// Below every bin edge.
	c = CompareToCohort(-1.0, dist)
	require.NotNil(t, c)
	assert.Equal(t, 0, c.Percentile)
	assert.Equal(t, NonResponder, c.Label)
}

func TestCompareToCohort_DegradesToNil(t *testing.T) {
	assert.Nil(t, CompareToCohort(1.0, nil))
	assert.Nil(t, CompareToCohort(1.0, &Distribution{}))
	assert.Nil(t, CompareToCohort(1.0, &Distribution{Bins: []float64{0, 1}, Counts: []int{5}}), "mismatched lengths")
	assert.Nil(t, CompareToCohort(1.0, &Distribution{Bins: []float64{0, 1}, Counts: []int{0, 0}}), "zero community members")
}

func TestLabelForPercentile_Boundaries(t *testing.T) {
	assert.Equal(t, SuperResponder, labelForPercentile(80))
	assert.Equal(t, Responder, labelForPercentile(79))
	assert.Equal(t, Responder, labelForPercentile(50))
	assert.Equal(t, NonResponder, labelForPercentile(49))
}
