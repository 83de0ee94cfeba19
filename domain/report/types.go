package report

import (
	"supptruth/domain/core"
	"supptruth/domain/effect"
	"supptruth/domain/insight"
)

// DataSource records where a report's evidence came from. Implicit reports
// derive mostly from bulk-imported history; explicit reports from live daily
// check-ins. The confirmation gate treats the two differently.
type DataSource string

const (
	SourceImplicit DataSource = "implicit"
	SourceExplicit DataSource = "explicit"
)

// TruthReport is the persisted output of one analysis run for one
// (user, supplement) pair. History is append-only; the current report is the
// most recent by creation time.
type TruthReport struct {
	ID             core.ReportID             `json:"id"`
	UserID         core.UserID               `json:"user_id"`
	SupplementID   core.SupplementID         `json:"supplement_id"`
	SupplementName string                    `json:"supplement_name"`
	Status         effect.TruthStatus        `json:"status"`
	Verdict        string                    `json:"verdict"`
	MetricKey      core.MetricKey            `json:"metric_key"`
	MetricLabel    string                    `json:"metric_label"`
	Stats          effect.EffectStats        `json:"stats"`
	Confidence     effect.Confidence         `json:"confidence"`
	ConfoundedDays int                       `json:"confounded_days"`
	ConfoundNote   string                    `json:"confound_note,omitempty"`
	Mechanism      string                    `json:"mechanism"`
	Biology        string                    `json:"biology"`
	Cohort         *insight.CohortComparison `json:"cohort,omitempty"`
	Recommendation string                    `json:"recommendation"`
	Source         DataSource                `json:"source"`
	TotalDays      int                       `json:"total_days"`
	GeneratedAt    core.Timestamp            `json:"generated_at"`
}
