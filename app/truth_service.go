package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"supptruth/domain/core"
	"supptruth/domain/effect"
	"supptruth/domain/gate"
	"supptruth/domain/insight"
	"supptruth/domain/report"
	"supptruth/domain/sample"
	"supptruth/internal"
	"supptruth/internal/config"
	"supptruth/models"
	"supptruth/ports"

	"github.com/google/uuid"
)

// maxParallelAnalyses bounds per-supplement analysis concurrency within one
// dashboard request.
const maxParallelAnalyses = 4

// TruthService runs the supplement effect truth engine for dashboard reads.
// All computation happens synchronously inside the request; the persistent
// report store is the only shared state between requests.
type TruthService struct {
	checkins    ports.CheckinRepository
	supplements ports.SupplementRepository
	reports     ports.TruthReportRepository
	cohorts     ports.CohortStatsRepository
	builder     *report.Builder
	cfg         config.EngineConfig
	log         *internal.Logger
	now         func() time.Time
}

// NewTruthService creates a truth service
func NewTruthService(
	checkins ports.CheckinRepository,
	supplements ports.SupplementRepository,
	reports ports.TruthReportRepository,
	cohorts ports.CohortStatsRepository,
	cfg config.EngineConfig,
	logger *internal.Logger,
) *TruthService {
	return &TruthService{
		checkins:    checkins,
		supplements: supplements,
		reports:     reports,
		cohorts:     cohorts,
		builder:     report.NewBuilder(),
		cfg:         cfg,
		log:         logger.Named("truth"),
		now:         time.Now,
	}
}

// SupplementTruth is the per-supplement dashboard view: gate state always,
// report contents only once the gate discloses them. Building covers both
// "not analyzed yet" and "analysis unavailable" so internal failures never
// leak to the user.
type SupplementTruth struct {
	SupplementID   core.SupplementID   `json:"supplement_id"`
	SupplementName string              `json:"supplement_name"`
	Building       bool                `json:"building"`
	Status         effect.TruthStatus  `json:"status,omitempty"`
	Report         *report.TruthReport `json:"report,omitempty"`
	Gate           gate.State          `json:"gate"`
}

// DashboardTruth computes the full dashboard payload for a user: one
// SupplementTruth per supplement, recomputing stale reports within the
// per-request budget and applying the confirmation gate.
func (s *TruthService) DashboardTruth(ctx context.Context, userID uuid.UUID) ([]SupplementTruth, error) {
	supps, err := s.supplements.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(supps) == 0 {
		return []SupplementTruth{}, nil
	}

	latest, err := s.reports.ListLatestForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	latestBySupp := make(map[uuid.UUID]*models.TruthReportRow, len(latest))
	for i := range latest {
		latestBySupp[latest[i].SupplementID] = &latest[i]
	}

	// At most one implicit-source report may be recomputed per request; a
	// bulk import followed by a dashboard load must not trigger dozens of
	// recomputations at once.
	budget := newImplicitBudget(1)

	results := make([]*models.TruthReportRow, len(supps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelAnalyses)
	for i := range supps {
		g.Go(func() error {
			row, err := s.currentReport(gctx, &supps[i], latestBySupp[supps[i].ID], budget)
			if err != nil {
				// Analysis failure degrades to a building view, never a 500.
				s.log.Warn("analysis unavailable for supplement %s: %v", supps[i].ID, err)
				return nil
			}
			results[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.grantFreeUnlock(ctx, userID, supps, results); err != nil {
		s.log.Warn("free unlock pass failed: %v", err)
	}

	views := make([]SupplementTruth, len(supps))
	for i := range supps {
		view, err := s.buildView(ctx, &supps[i], results[i])
		if err != nil {
			s.log.Warn("gate computation failed for supplement %s: %v", supps[i].ID, err)
			view = SupplementTruth{
				SupplementID:   core.SupplementID(supps[i].ID.String()),
				SupplementName: supps[i].Name,
				Building:       true,
				Gate:           gate.State{RequiredConfirmations: gate.DefaultRequiredConfirmations},
			}
		}
		views[i] = view
	}
	return views, nil
}

// currentReport returns the report row to show for a supplement, recomputing
// when stale and allowed. Recompute is skipped during an active retest window
// and for a grace period right after a testing-status reset.
func (s *TruthService) currentReport(ctx context.Context, supp *models.SupplementRow, latest *models.TruthReportRow, budget *implicitBudget) (*models.TruthReportRow, error) {
	if supp.RetestActive() {
		// Stale pre-restart verdicts must not snap back onto a fresh test.
		return nil, nil
	}
	if supp.StatusResetAt != nil && s.now().Sub(*supp.StatusResetAt) < s.cfg.ResetGracePeriod {
		return latest, nil
	}
	if latest != nil && s.now().Sub(latest.CreatedAt) < s.cfg.StalenessWindow {
		return latest, nil
	}

	// Implicit-source recomputes claim the budget before any analysis work
	// happens, so a bulk import followed by repeated dashboard loads pays for
	// at most one analysis per request. The prediction comes from the prior
	// report's source, or from an inferred start date when no report exists.
	predictedImplicit := supp.InferredStartDate != nil
	if latest != nil {
		predictedImplicit = latest.Source == string(report.SourceImplicit)
	}
	if predictedImplicit && !budget.claim() {
		// Budget spent this request; serve whatever we had.
		return latest, nil
	}

	rpt, err := s.analyze(ctx, supp)
	if err != nil {
		return latest, err
	}
	if !predictedImplicit && rpt.Source == report.SourceImplicit && !budget.claim() {
		// The prediction missed; the budget still caps persisted implicit work.
		return latest, nil
	}

	row, err := reportToRow(rpt)
	if err != nil {
		return latest, err
	}
	if latest != nil && latest.Unlocked {
		// A granted unlock is permanent for the supplement; a staleness
		// recompute must not re-lock the verdict.
		row.Unlocked = true
	}
	if err := s.reports.Save(ctx, row); err != nil {
		return latest, err
	}
	return row, nil
}

// AnalyzeSupplement runs the full pipeline for one supplement and persists
// the result. Unresolvable supplement identity surfaces as
// core.ErrSupplementNotFound; the engine never analyzes the wrong supplement.
func (s *TruthService) AnalyzeSupplement(ctx context.Context, userID, supplementID uuid.UUID) (*report.TruthReport, error) {
	supp, err := s.supplements.GetByID(ctx, userID, supplementID)
	if err != nil {
		return nil, err
	}
	rpt, err := s.analyze(ctx, supp)
	if err != nil {
		return nil, err
	}
	row, err := reportToRow(rpt)
	if err != nil {
		return nil, err
	}
	if latest, err := s.reports.GetLatest(ctx, userID, supplementID); err == nil && latest.Unlocked {
		row.Unlocked = true
	}
	if err := s.reports.Save(ctx, row); err != nil {
		return nil, err
	}
	return rpt, nil
}

// SupplementTruth computes the gated view for a single supplement, going
// through the same staleness and recompute-budget rules as the dashboard.
// Report contents are attached only once the confirmation gate discloses them.
func (s *TruthService) SupplementTruth(ctx context.Context, userID, supplementID uuid.UUID) (SupplementTruth, error) {
	supp, err := s.supplements.GetByID(ctx, userID, supplementID)
	if err != nil {
		return SupplementTruth{}, err
	}
	latest, err := s.reports.GetLatest(ctx, userID, supplementID)
	if err != nil {
		if !errors.Is(err, core.ErrReportNotFound) {
			return SupplementTruth{}, err
		}
		latest = nil
	}
	row, err := s.currentReport(ctx, supp, latest, newImplicitBudget(1))
	if err != nil {
		// currentReport degrades to the stored row on failure.
		s.log.Warn("analysis unavailable for supplement %s: %v", supplementID, err)
	}
	return s.buildView(ctx, supp, row)
}

// analyze computes a fresh report without persisting it
func (s *TruthService) analyze(ctx context.Context, supp *models.SupplementRow) (*report.TruthReport, error) {
	metricKey, err := core.ParseMetricKey(supp.PrimaryMetric)
	if err != nil {
		return nil, core.ErrUnknownMetric
	}
	metric := effect.MetricFor(metricKey)

	since := supp.EvidenceStart()
	if fallback := s.now().AddDate(0, 0, -s.cfg.FallbackWindowDays); since.Before(fallback) {
		since = fallback
	}

	checkinRows, err := s.checkins.ListSince(ctx, supp.UserID, since)
	if err != nil {
		return nil, err
	}

	days, implicitDays, explicitDays := checkinDays(checkinRows)
	builder := sample.NewBuilder(metric.Key, supplementAliases(supp))
	samples := builder.Build(days)

	stats := effect.Compute(samples, metric, effect.Options{PercentChangeFloor: s.cfg.PercentChangeFloor})
	conf := effect.EstimateConfidence(stats.EffectSize, stats.SampleOn, stats.SampleOff)
	status := effect.Classify(stats, conf, metric)

	var mechanismTags []string
	var pathwaySummary string
	var cohortDist *insight.Distribution
	if supp.CanonicalID != nil {
		canonical, err := s.supplements.GetCanonical(ctx, *supp.CanonicalID)
		if err != nil {
			return nil, err
		}
		if canonical != nil {
			mechanismTags = canonical.MechanismTags
			pathwaySummary = canonical.PathwaySummary
		}
		cohortDist, err = s.cohortDistribution(ctx, *supp.CanonicalID)
		if err != nil {
			// Cohort data is optional; never block verdict generation on it.
			s.log.Debug("cohort lookup failed for %s: %v", supp.CanonicalID, err)
		}
	}

	source := report.SourceExplicit
	if implicitDays > explicitDays {
		source = report.SourceImplicit
	}

	rpt := s.builder.Build(report.BuildInput{
		UserID:         core.UserID(supp.UserID.String()),
		SupplementID:   core.SupplementID(supp.ID.String()),
		SupplementName: supp.Name,
		Metric:         metric,
		Samples:        samples,
		Stats:          stats,
		Confidence:     conf,
		Status:         status,
		MechanismTags:  mechanismTags,
		PathwaySummary: pathwaySummary,
		Cohort:         cohortDist,
		Source:         source,
		GeneratedAt:    core.NewTimestamp(s.now()),
	})
	return &rpt, nil
}

// StartRetest opens a retest window for one supplement
func (s *TruthService) StartRetest(ctx context.Context, userID, supplementID uuid.UUID) error {
	return s.supplements.StartRetest(ctx, userID, supplementID, s.now())
}

// ImportHistory parses and stores bulk check-in history for a user. Returns
// the number of rows inserted (explicitly logged days are never overwritten).
func (s *TruthService) ImportHistory(ctx context.Context, userID uuid.UUID, rows []models.CheckinRow) (int, error) {
	inserted, err := s.checkins.BulkInsert(ctx, rows)
	if err != nil {
		return 0, err
	}
	s.log.Info("imported %d check-in rows for user %s", inserted, userID)
	return inserted, nil
}

// buildView assembles the dashboard view for one supplement, applying the
// confirmation gate
func (s *TruthService) buildView(ctx context.Context, supp *models.SupplementRow, row *models.TruthReportRow) (SupplementTruth, error) {
	view := SupplementTruth{
		SupplementID:   core.SupplementID(supp.ID.String()),
		SupplementName: supp.Name,
	}

	// Confirmations count only explicit check-ins after the supplement was
	// added; a retest restart moves the bound so pre-restart history never
	// counts.
	confirmSince := supp.CreatedAt
	if supp.RestartDate != nil && supp.RestartDate.After(confirmSince) {
		confirmSince = *supp.RestartDate
	}
	completed, err := s.checkins.CountExplicitSince(ctx, supp.UserID, confirmSince)
	if err != nil {
		return view, err
	}

	if row == nil {
		view.Building = true
		view.Gate = gate.State{
			RequiredConfirmations:  gate.DefaultRequiredConfirmations,
			CompletedConfirmations: completed,
		}
		return view, nil
	}

	rpt, err := rowToReport(row)
	if err != nil {
		return view, err
	}

	view.Gate = gate.Decide(gate.Input{
		Status:                 rpt.Status,
		Source:                 rpt.Source,
		ConfidenceScore:        rpt.Confidence.Score,
		SampleOn:               rpt.Stats.SampleOn,
		SampleOff:              rpt.Stats.SampleOff,
		CompletedConfirmations: completed,
		Unlocked:               row.Unlocked,
	})
	if view.Gate.Disclosed {
		view.Status = rpt.Status
		view.Report = rpt
		return view, nil
	}
	// The status field is the verdict in miniature. Until the gate discloses,
	// the view carries only gate counters and building progress.
	view.Building = rpt.Status == effect.StatusTooEarly
	return view, nil
}

// grantFreeUnlock spends the account's single free unlock on the
// highest-confidence final verdict, if the unlock is still available. The
// availability check is a fresh store query, never process memory.
func (s *TruthService) grantFreeUnlock(ctx context.Context, userID uuid.UUID, supps []models.SupplementRow, rows []*models.TruthReportRow) error {
	used, err := s.reports.CountUnlocked(ctx, userID)
	if err != nil {
		return err
	}
	if used > 0 {
		return nil
	}

	bestIdx := -1
	bestScore := -1.0
	for i, row := range rows {
		if row == nil || !effect.TruthStatus(row.Status).IsFinal() {
			continue
		}
		rpt, err := rowToReport(row)
		if err != nil {
			continue
		}
		if rpt.Confidence.Score > bestScore {
			bestScore = rpt.Confidence.Score
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil
	}

	if err := s.reports.MarkUnlocked(ctx, userID, supps[bestIdx].ID); err != nil {
		return err
	}
	rows[bestIdx].Unlocked = true
	s.log.Info("free unlock granted to user %s for supplement %s", userID, supps[bestIdx].ID)
	return nil
}

func (s *TruthService) cohortDistribution(ctx context.Context, canonicalID uuid.UUID) (*insight.Distribution, error) {
	row, err := s.cohorts.GetByCanonicalID(ctx, canonicalID)
	if err != nil || row == nil {
		return nil, err
	}
	return distributionFromRow(row)
}

// implicitBudget caps implicit-source recomputes within one request
type implicitBudget struct {
	mu        sync.Mutex
	remaining int
}

func newImplicitBudget(n int) *implicitBudget {
	return &implicitBudget{remaining: n}
}

// claim takes one recompute slot, returning false once exhausted
func (b *implicitBudget) claim() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}
