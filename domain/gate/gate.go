// Package gate decides when a computed verdict may be shown to the user.
// It is policy, not statistics: without it, a bulk import of history would
// unlock every verdict simultaneously on the next dashboard load.
package gate

import (
	"supptruth/domain/effect"
	"supptruth/domain/report"
)

const (
	// DefaultRequiredConfirmations is how many explicit check-ins must be
	// logged after the supplement was added before a verdict is shown.
	DefaultRequiredConfirmations = 3

	// ImplicitRequiredConfirmations applies when the verdict rests on strong
	// imported evidence; it still demands one live check-in.
	ImplicitRequiredConfirmations = 1

	// Strong implicit evidence: confidence at least this, both arms at least
	// this many days.
	implicitConfidenceMin = 0.5
	implicitArmMin        = 30
)

// Input is everything the gate policy consumes for one supplement
type Input struct {
	Status                 effect.TruthStatus
	Source                 report.DataSource
	ConfidenceScore        float64
	SampleOn               int
	SampleOff              int
	CompletedConfirmations int
	Unlocked               bool // free unlock already granted and persisted for this supplement
}

// State is the derived gate decision consumed by the dashboard. It is
// recomputed on every read and never stored as authoritative state.
type State struct {
	Disclosed              bool `json:"disclosed"`
	RequiredConfirmations  int  `json:"required_confirmations"`
	CompletedConfirmations int  `json:"completed_confirmations"`
}

// RequiredConfirmations returns how many explicit check-ins this verdict
// needs before disclosure
func RequiredConfirmations(source report.DataSource, confidence float64, sampleOn, sampleOff int) int {
	if source == report.SourceImplicit &&
		confidence >= implicitConfidenceMin &&
		sampleOn >= implicitArmMin && sampleOff >= implicitArmMin {
		return ImplicitRequiredConfirmations
	}
	return DefaultRequiredConfirmations
}

// Decide computes the gate state for one supplement's current report.
// Non-final statuses are never disclosed regardless of confirmation count or
// unlock flags.
func Decide(in Input) State {
	required := RequiredConfirmations(in.Source, in.ConfidenceScore, in.SampleOn, in.SampleOff)
	state := State{
		RequiredConfirmations:  required,
		CompletedConfirmations: in.CompletedConfirmations,
	}

	if !in.Status.IsFinal() {
		return state
	}
	state.Disclosed = in.Unlocked || in.CompletedConfirmations >= required
	return state
}
