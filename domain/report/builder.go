package report

import (
	"fmt"

	"supptruth/domain/core"
	"supptruth/domain/effect"
	"supptruth/domain/insight"
	"supptruth/domain/sample"
)

// BuildInput carries everything the builder needs to assemble one report
type BuildInput struct {
	UserID         core.UserID
	SupplementID   core.SupplementID
	SupplementName string
	Metric         effect.MetricSpec
	Samples        []sample.DaySample
	Stats          effect.EffectStats
	Confidence     effect.Confidence
	Status         effect.TruthStatus
	MechanismTags  []string
	PathwaySummary string
	Cohort         *insight.Distribution
	Source         DataSource
	GeneratedAt    core.Timestamp
}

// Builder assembles TruthReports from computed analysis parts. It holds the
// explainer so copy tables stay swappable without touching callers.
type Builder struct {
	explainer *insight.Explainer
}

// NewBuilder creates a report builder with the default explainer
func NewBuilder() *Builder {
	return &Builder{explainer: insight.NewExplainer()}
}

// NewBuilderWithExplainer creates a report builder with a custom explainer
func NewBuilderWithExplainer(e *insight.Explainer) *Builder {
	return &Builder{explainer: e}
}

// Build assembles the persisted report object. Cohort comparison degrades to
// nil when no community data exists.
func (b *Builder) Build(in BuildInput) TruthReport {
	explainIn := insight.Input{
		MechanismTags:  in.MechanismTags,
		PathwaySummary: in.PathwaySummary,
		Metric:         in.Metric.Key,
		Direction:      in.Stats.Direction,
	}

	confounded := sample.CountConfounded(in.Samples)

	return TruthReport{
		ID:             core.ReportID(core.NewID()),
		UserID:         in.UserID,
		SupplementID:   in.SupplementID,
		SupplementName: in.SupplementName,
		Status:         in.Status,
		Verdict:        verdictCopy(in.Status, in.SupplementName, in.Metric.Label, in.Stats),
		MetricKey:      in.Metric.Key,
		MetricLabel:    in.Metric.Label,
		Stats:          in.Stats,
		Confidence:     in.Confidence,
		ConfoundedDays: confounded,
		ConfoundNote:   confoundNote(confounded),
		Mechanism:      b.explainer.Mechanism(explainIn),
		Biology:        b.explainer.Biology(explainIn),
		Cohort:         insight.CompareToCohort(in.Stats.EffectSize, in.Cohort),
		Recommendation: insight.Recommend(in.Status, in.Metric.Label),
		Source:         in.Source,
		TotalDays:      len(in.Samples),
		GeneratedAt:    in.GeneratedAt,
	}
}

// verdictCopy renders the one-line user-facing verdict for a status
func verdictCopy(status effect.TruthStatus, name, metricLabel string, s effect.EffectStats) string {
	switch status {
	case effect.StatusTooEarly:
		return fmt.Sprintf("Still collecting data on %s. %d ON days and %d OFF days logged so far.", name, s.SampleOn, s.SampleOff)
	case effect.StatusConfounded:
		return fmt.Sprintf("Your %s data is too noisy to call. Too many confounded or inconsistent days.", name)
	case effect.StatusNoDetectableEffect:
		return fmt.Sprintf("%s shows no detectable effect on your %s.", name, metricLabel)
	case effect.StatusProvenPositive:
		return fmt.Sprintf("%s improves your %s by %.0f%% on days you take it.", name, metricLabel, s.PercentChange)
	case effect.StatusNegative:
		return fmt.Sprintf("%s appears to worsen your %s. Worth reconsidering.", name, metricLabel)
	}
	return fmt.Sprintf("Still collecting data on %s.", name)
}

func confoundNote(days int) string {
	switch {
	case days == 0:
		return ""
	case days == 1:
		return "1 day excluded for confounds (alcohol, travel, illness, stress, poor sleep, or intense exercise)."
	default:
		return fmt.Sprintf("%d days excluded for confounds (alcohol, travel, illness, stress, poor sleep, or intense exercise).", days)
	}
}
