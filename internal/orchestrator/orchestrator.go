// Package orchestrator coordinates the analytical core: it accepts snapshot
// and metric pushes from the external collector boundary, writes through to
// the metric store, and fans analysis requests out to the consistency,
// trend, and correlation analyzers.
//
// The orchestrator holds only configuration handed to it at construction,
// treated as immutable for its lifetime. Reconfiguration means constructing
// a new orchestrator; multiple instances can coexist in one process.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ovnsight/ovnsight/internal/analysis"
	"github.com/ovnsight/ovnsight/internal/config"
	"github.com/ovnsight/ovnsight/internal/logging"
	"github.com/ovnsight/ovnsight/internal/models"
	"github.com/ovnsight/ovnsight/internal/storage"
)

// RuleCountMetric is the derived series recorded on every snapshot push.
const RuleCountMetric = "ovn_rule_count"

type snapshotKey struct {
	kind models.RuleKind
	node string
}

// Orchestrator is the seam exposed to the external tool-dispatch layer.
type Orchestrator struct {
	cfg     config.Analysis
	store   *storage.Store
	logger  *logging.Logger
	metrics *Metrics

	mu      sync.RWMutex
	latest  map[snapshotKey]*models.RuleSnapshot
	history map[snapshotKey][]*models.RuleSnapshot
}

// New creates an orchestrator over the given store. The configuration is
// copied and never mutated afterwards.
func New(cfg config.Analysis, store *storage.Store) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		store:   store,
		logger:  logging.GetLogger("orchestrator"),
		latest:  make(map[snapshotKey]*models.RuleSnapshot),
		history: make(map[snapshotKey][]*models.RuleSnapshot),
	}
}

// WithMetrics attaches orchestrator-level Prometheus metrics.
func (o *Orchestrator) WithMetrics(m *Metrics) *Orchestrator {
	o.metrics = m
	return o
}

// PushSnapshot records one node's rule snapshot. The latest snapshot per
// (kind, node) participates in consistency analysis; a bounded history per
// node feeds stability assessment. The snapshot's rule count is written
// through to the metric store as a derived series.
func (o *Orchestrator) PushSnapshot(snap *models.RuleSnapshot) error {
	if snap == nil || snap.NodeID == "" {
		return models.NewInputMismatchError("snapshot must have a node ID")
	}
	if _, err := models.ParseRuleKind(string(snap.Kind)); err != nil {
		return err
	}

	key := snapshotKey{kind: snap.Kind, node: snap.NodeID}

	o.mu.Lock()
	o.latest[key] = snap
	hist := append(o.history[key], snap)
	if depth := o.cfg.SnapshotHistoryDepth; depth > 0 && len(hist) > depth {
		hist = hist[len(hist)-depth:]
	}
	o.history[key] = hist
	o.mu.Unlock()

	if o.metrics != nil {
		o.metrics.SnapshotsTotal.Inc()
	}
	o.logger.DebugWithFields("snapshot recorded",
		logging.Field("node", snap.NodeID),
		logging.Field("rule_kind", snap.Kind),
		logging.Field("rules", snap.RuleCount()),
	)

	return o.store.Append(
		models.SeriesID{
			Name:   RuleCountMetric,
			Labels: map[string]string{"node": snap.NodeID, "kind": string(snap.Kind)},
		},
		models.MetricPoint{Timestamp: snap.CapturedAt, Value: float64(snap.RuleCount())},
	)
}

// PushMetric writes one sample through to the metric store.
func (o *Orchestrator) PushMetric(id models.SeriesID, point models.MetricPoint) error {
	return o.store.Append(id, point)
}

// MetricQuery names one series window to analyze for trends.
type MetricQuery struct {
	Series  models.SeriesID  `json:"series"`
	Range   models.TimeRange `json:"range"`
	Horizon time.Duration    `json:"horizon,omitempty"`
}

// AnalysisRequest is the single synchronous analysis entry point's input.
type AnalysisRequest struct {
	Kind    models.RuleKind
	Nodes   []string
	Queries []MetricQuery

	// Thresholds overrides the configured thresholds when non-nil.
	Thresholds []models.Threshold

	// CoOccurrenceWindow enables bottleneck correlation when positive.
	CoOccurrenceWindow time.Duration
}

// RequestAnalysis runs consistency analysis over the latest snapshots of the
// requested nodes, trend detection over each requested metric window, and
// optionally the bottleneck correlator. Every failure to compute a report is
// returned as an explicit typed error, never as a partial report.
func (o *Orchestrator) RequestAnalysis(ctx context.Context, req AnalysisRequest) (*models.AnalysisReport, error) {
	if o.metrics != nil {
		o.metrics.AnalysesTotal.Inc()
	}

	report, err := o.runAnalysis(ctx, req)
	if err != nil {
		if o.metrics != nil {
			o.metrics.AnalysisErrorsTotal.Inc()
		}
		o.logger.ErrorWithFields("analysis request failed",
			logging.Field("rule_kind", req.Kind),
			logging.Field("error_kind", models.ErrorKind(err)),
			logging.Field("error", err.Error()),
		)
		return nil, err
	}
	return report, nil
}

func (o *Orchestrator) runAnalysis(ctx context.Context, req AnalysisRequest) (*models.AnalysisReport, error) {
	snapshots, err := o.snapshotsFor(req.Kind, req.Nodes)
	if err != nil {
		return nil, err
	}

	consistency, err := analysis.AnalyzeConsistency(ctx, snapshots)
	if err != nil {
		return nil, err
	}

	trends, err := o.AnalyzeTrends(ctx, req.Queries, req.Thresholds)
	if err != nil {
		return nil, err
	}

	report := &models.AnalysisReport{
		Consistency: consistency,
		Trends:      trends,
	}
	if req.CoOccurrenceWindow > 0 {
		report.Candidates = analysis.Correlate(consistency, trends,
			req.CoOccurrenceWindow, o.cfg.ConsistencyMinScore)
	}
	return report, nil
}

// AnalyzeTrends runs trend detection over each requested metric window,
// fanning the store reads out concurrently. Results come back in request
// order. A nil thresholds slice falls back to the configured thresholds.
func (o *Orchestrator) AnalyzeTrends(ctx context.Context, queries []MetricQuery, thresholds []models.Threshold) ([]models.TrendResult, error) {
	if thresholds == nil {
		thresholds = o.cfg.Thresholds
	}

	trends := make([]models.TrendResult, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			points, err := o.store.Query(gctx, q.Series, q.Range)
			if err != nil {
				return err
			}
			result, err := analysis.DetectTrend(gctx, q.Series.Key(), points,
				thresholdsForMetric(thresholds, q.Series.Name),
				analysis.TrendOptions{Epsilon: o.cfg.TrendEpsilon, Horizon: q.Horizon},
			)
			if err != nil {
				return err
			}
			trends[i] = *result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trends, nil
}

// snapshotsFor returns the latest snapshot of each requested node, in
// request order. A node that never pushed a snapshot of the kind is an
// InsufficientDataError: the caller must be able to distinguish "consistent"
// from "could not be evaluated".
func (o *Orchestrator) snapshotsFor(kind models.RuleKind, nodes []string) ([]*models.RuleSnapshot, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	snapshots := make([]*models.RuleSnapshot, 0, len(nodes))
	for _, node := range nodes {
		snap, ok := o.latest[snapshotKey{kind: kind, node: node}]
		if !ok {
			return nil, models.NewInsufficientDataError(
				"no %s snapshot recorded for node %s", kind, node)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

func thresholdsForMetric(thresholds []models.Threshold, metric string) []models.Threshold {
	var matched []models.Threshold
	for _, th := range thresholds {
		if th.Metric == metric {
			matched = append(matched, th)
		}
	}
	return matched
}

// AssessStability runs the stability analyzer over the recorded snapshot
// history of one node.
func (o *Orchestrator) AssessStability(ctx context.Context, kind models.RuleKind, node string) (*models.StabilityAssessment, error) {
	o.mu.RLock()
	hist := o.history[snapshotKey{kind: kind, node: node}]
	snapshots := make([]*models.RuleSnapshot, len(hist))
	copy(snapshots, hist)
	o.mu.RUnlock()

	return analysis.AssessStability(ctx, snapshots)
}

// RecordTestResult persists the outcome of one externally executed
// performance test run as metric points.
func (o *Orchestrator) RecordTestResult(name string, passed bool, duration time.Duration, at time.Time) error {
	if name == "" {
		return models.NewInputMismatchError("test name must not be empty")
	}
	if at.IsZero() {
		at = time.Now()
	}

	labels := map[string]string{"test": name}
	if err := o.store.Append(
		models.SeriesID{Name: "test_duration_seconds", Labels: labels},
		models.MetricPoint{Timestamp: at, Value: duration.Seconds()},
	); err != nil {
		return err
	}

	passedValue := 0.0
	if passed {
		passedValue = 1.0
	}
	return o.store.Append(
		models.SeriesID{Name: "test_passed", Labels: labels},
		models.MetricPoint{Timestamp: at, Value: passedValue},
	)
}

// Sweep applies the configured retention policy to the store. The external
// scheduler decides when to call it.
func (o *Orchestrator) Sweep() (int, error) {
	return o.store.Retain(storage.RetentionPolicy{
		MaxAge:    o.cfg.RetentionMaxAge,
		MaxPoints: o.cfg.RetentionMaxPoints,
	})
}

// StoreSummary lists per-series point counts and latest values.
func (o *Orchestrator) StoreSummary() []storage.SeriesSummary {
	return o.store.Summarize()
}
