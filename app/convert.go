package app

import (
	"encoding/json"

	"supptruth/domain/core"
	"supptruth/domain/effect"
	"supptruth/domain/insight"
	"supptruth/domain/report"
	"supptruth/domain/sample"
	"supptruth/models"

	"github.com/google/uuid"
)

// checkinDays converts stored check-in rows into builder input, counting
// implicit vs explicit rows along the way for source attribution
func checkinDays(rows []models.CheckinRow) (days []sample.CheckinDay, implicit, explicit int) {
	days = make([]sample.CheckinDay, 0, len(rows))
	for _, row := range rows {
		if row.Source == models.CheckinSourceImplicit {
			implicit++
		} else {
			explicit++
		}
		days = append(days, sample.CheckinDay{
			Date: row.Day,
			Metrics: map[core.MetricKey]*float64{
				core.MetricEnergy:       row.Energy,
				core.MetricMood:         row.Mood,
				core.MetricFocus:        row.Focus,
				core.MetricSleepQuality: row.SleepQuality,
			},
			Tags:   row.Tags,
			Intake: row.IntakeMap,
		})
	}
	return days, implicit, explicit
}

// supplementAliases returns every identifier an intake map may key this
// supplement under, canonical ID first
func supplementAliases(supp *models.SupplementRow) []string {
	aliases := make([]string, 0, len(supp.Aliases)+2)
	aliases = append(aliases, supp.ID.String())
	for _, a := range supp.Aliases {
		if a != "" && a != supp.ID.String() {
			aliases = append(aliases, a)
		}
	}
	if supp.Name != "" {
		aliases = append(aliases, supp.Name)
	}
	return aliases
}

// reportToRow marshals a domain report into its persisted row shape
func reportToRow(rpt *report.TruthReport) (*models.TruthReportRow, error) {
	id, err := uuid.Parse(rpt.ID.String())
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(rpt.UserID.String())
	if err != nil {
		return nil, err
	}
	suppID, err := uuid.Parse(rpt.SupplementID.String())
	if err != nil {
		return nil, err
	}

	statsJSON, err := json.Marshal(rpt.Stats)
	if err != nil {
		return nil, err
	}
	confJSON, err := json.Marshal(rpt.Confidence)
	if err != nil {
		return nil, err
	}
	var cohortJSON []byte
	if rpt.Cohort != nil {
		if cohortJSON, err = json.Marshal(rpt.Cohort); err != nil {
			return nil, err
		}
	}

	return &models.TruthReportRow{
		ID:             id,
		UserID:         userID,
		SupplementID:   suppID,
		SupplementName: rpt.SupplementName,
		Status:         string(rpt.Status),
		Verdict:        rpt.Verdict,
		MetricKey:      rpt.MetricKey.String(),
		MetricLabel:    rpt.MetricLabel,
		StatsJSON:      statsJSON,
		ConfidenceJSON: confJSON,
		CohortJSON:     cohortJSON,
		ConfoundedDays: rpt.ConfoundedDays,
		ConfoundNote:   rpt.ConfoundNote,
		Mechanism:      rpt.Mechanism,
		Biology:        rpt.Biology,
		Recommendation: rpt.Recommendation,
		Source:         string(rpt.Source),
		TotalDays:      rpt.TotalDays,
		GeneratedAt:    rpt.GeneratedAt.Time(),
	}, nil
}

// rowToReport unmarshals a persisted row back into the domain report
func rowToReport(row *models.TruthReportRow) (*report.TruthReport, error) {
	rpt := &report.TruthReport{
		ID:             core.ReportID(row.ID.String()),
		UserID:         core.UserID(row.UserID.String()),
		SupplementID:   core.SupplementID(row.SupplementID.String()),
		SupplementName: row.SupplementName,
		Status:         effect.TruthStatus(row.Status),
		Verdict:        row.Verdict,
		MetricKey:      core.MetricKey(row.MetricKey),
		MetricLabel:    row.MetricLabel,
		ConfoundedDays: row.ConfoundedDays,
		ConfoundNote:   row.ConfoundNote,
		Mechanism:      row.Mechanism,
		Biology:        row.Biology,
		Recommendation: row.Recommendation,
		Source:         report.DataSource(row.Source),
		TotalDays:      row.TotalDays,
		GeneratedAt:    core.NewTimestamp(row.GeneratedAt),
	}
	if err := json.Unmarshal(row.StatsJSON, &rpt.Stats); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.ConfidenceJSON, &rpt.Confidence); err != nil {
		return nil, err
	}
	if len(row.CohortJSON) > 0 {
		var cohort insight.CohortComparison
		if err := json.Unmarshal(row.CohortJSON, &cohort); err != nil {
			return nil, err
		}
		rpt.Cohort = &cohort
	}
	return rpt, nil
}

// distributionFromRow decodes a cohort stats row's histogram. Empty or
// malformed distributions resolve to nil so verdicts degrade gracefully.
func distributionFromRow(row *models.CohortStatsRow) (*insight.Distribution, error) {
	if len(row.DistributionJSON) == 0 {
		return nil, nil
	}
	var dist insight.Distribution
	if err := json.Unmarshal(row.DistributionJSON, &dist); err != nil {
		return nil, err
	}
	if len(dist.Bins) == 0 {
		return nil, nil
	}
	return &dist, nil
}
