package gate

import (
	"testing"

	"supptruth/domain/effect"
	"supptruth/domain/report"

	"github.com/stretchr/testify/assert"
)

func TestDecide_NonFinalNeverDisclosed(t *testing.T) {
	for _, status := range []effect.TruthStatus{effect.StatusTooEarly, effect.StatusConfounded} {
		state := Decide(Input{
			Status:                 status,
			Source:                 report.SourceExplicit,
			ConfidenceScore:        1.0,
			SampleOn:               100,
			SampleOff:              100,
			CompletedConfirmations: 50,
			Unlocked:               true,
		})
		assert.False(t, state.Disclosed, string(status))
	}
}

func TestDecide_ExplicitNeedsThreeConfirmations(t *testing.T) {
	in := Input{
		Status:          effect.StatusProvenPositive,
		Source:          report.SourceExplicit,
		ConfidenceScore: 0.9,
		SampleOn:        14,
		SampleOff:       5,
	}

	in.CompletedConfirmations = 2
	state := Decide(in)
	assert.False(t, state.Disclosed)
	assert.Equal(t, 3, state.RequiredConfirmations)
	assert.Equal(t, 2, state.CompletedConfirmations)

	in.CompletedConfirmations = 3
	assert.True(t, Decide(in).Disclosed)
}

func TestDecide_StrongImplicitNeedsOne(t *testing.T) {
	in := Input{
		Status:          effect.StatusProvenPositive,
		Source:          report.SourceImplicit,
		ConfidenceScore: 0.5,
		SampleOn:        30,
		SampleOff:       30,
	}

	state := Decide(in)
	assert.Equal(t, 1, state.RequiredConfirmations)
	assert.False(t, state.Disclosed)

	in.CompletedConfirmations = 1
	assert.True(t, Decide(in).Disclosed)
}

func TestRequiredConfirmations_ImplicitThresholds(t *testing.T) {
	tests := []struct {
		name       string
		source     report.DataSource
		confidence float64
		on, off    int
		want       int
	}{
		{"explicit source", report.SourceExplicit, 0.9, 100, 100, 3},
		{"implicit strong", report.SourceImplicit, 0.5, 30, 30, 1},
		{"implicit low confidence", report.SourceImplicit, 0.49, 30, 30, 3},
		{"implicit thin on arm", report.SourceImplicit, 0.8, 29, 30, 3},
		{"implicit thin off arm", report.SourceImplicit, 0.8, 30, 29, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequiredConfirmations(tt.source, tt.confidence, tt.on, tt.off))
		})
	}
}

func TestDecide_UnlockBypassesConfirmations(t *testing.T) {
	state := Decide(Input{
		Status:                 effect.StatusNoDetectableEffect,
		Source:                 report.SourceExplicit,
		ConfidenceScore:        0.7,
		SampleOn:               14,
		SampleOff:              5,
		CompletedConfirmations: 0,
		Unlocked:               true,
	})
	assert.True(t, state.Disclosed)
}

// TestDecide_RetestResetsConfirmations models a retest: confirmations are
// counted from the restart date by the caller, so a stale high-sample report
// plus zero post-restart confirmations stays hidden.
func TestDecide_RetestResetsConfirmations(t *testing.T) {
	state := Decide(Input{
		Status:                 effect.StatusProvenPositive,
		Source:                 report.SourceImplicit,
		ConfidenceScore:        0.9,
		SampleOn:               120,
		SampleOff:              60,
		CompletedConfirmations: 0,
	})
	assert.False(t, state.Disclosed)
	assert.Equal(t, 1, state.RequiredConfirmations)
}
