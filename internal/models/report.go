package models

import "time"

// TrendDirection classifies the sign of a fitted slope.
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendFlat    TrendDirection = "flat"
)

// ConsistencyReport is the result of comparing rule snapshots across a node
// set. It is created fresh per analysis and never mutated afterwards.
type ConsistencyReport struct {
	ReportID    string    `json:"report_id"`
	EvaluatedAt time.Time `json:"evaluated_at"`
	Kind        RuleKind  `json:"rule_kind"`

	// Nodes preserves the input order of the compared snapshots. It is not
	// a ranking.
	Nodes []string `json:"nodes"`

	// Missing maps node ID to rules absent there but present on at least
	// one other node (union baseline).
	Missing map[string][]RuleEntry `json:"missing"`

	// Extra maps node ID to rules present only there, on no other compared
	// node.
	Extra map[string][]RuleEntry `json:"extra"`

	// Score is |intersection| / |union| across all compared snapshots, in
	// [0, 1]. 1.0 when no rules exist anywhere.
	Score float64 `json:"score"`

	// Recommendations are human-readable advisories derived from the
	// missing/extra sets.
	Recommendations []string `json:"recommendations,omitempty"`
}

// TrendResult is the outcome of least-squares trend detection over one
// metric series window. Derived and ephemeral; recomputed per query.
type TrendResult struct {
	SeriesKey string         `json:"series_key"`
	Window    TimeRange      `json:"window"`
	Slope     float64        `json:"slope"`
	Direction TrendDirection `json:"direction"`

	// BreachedThreshold is the first supplied threshold violated by the
	// most recent point, if any.
	BreachedThreshold *Threshold `json:"breached_threshold,omitempty"`

	// ForecastAtHorizon is a linear point estimate with no confidence
	// interval. Callers must not treat it as a guarantee.
	ForecastAtHorizon *float64 `json:"forecast_at_horizon,omitempty"`

	EvaluatedAt time.Time `json:"evaluated_at"`
}

// CandidateConfidence is the qualitative confidence of a bottleneck
// candidate.
type CandidateConfidence string

const (
	ConfidenceHigh CandidateConfidence = "high"
	ConfidenceLow  CandidateConfidence = "low"
)

// Candidate pairs a consistency regression with a co-occurring trend breach.
// It surfaces a root-cause candidate for review; it never asserts causation.
type Candidate struct {
	SignalA    string              `json:"signal_a"`
	SignalB    string              `json:"signal_b"`
	Confidence CandidateConfidence `json:"confidence"`
}

// AnalysisReport is the response of a full analysis request.
type AnalysisReport struct {
	Consistency *ConsistencyReport `json:"consistency,omitempty"`
	Trends      []TrendResult      `json:"trends"`
	Candidates  []Candidate        `json:"candidates,omitempty"`
}

// StabilityLevel grades how stable a node's rule state has been over
// successive snapshots.
type StabilityLevel string

const (
	StabilityStable       StabilityLevel = "stable"
	StabilityMostlyStable StabilityLevel = "mostly_stable"
	StabilityUnstable     StabilityLevel = "unstable"
)

// StabilityAssessment summarizes rule churn for one node over a sequence of
// snapshots.
type StabilityAssessment struct {
	NodeID       string         `json:"node_id"`
	Kind         RuleKind       `json:"rule_kind"`
	Snapshots    int            `json:"snapshots"`
	ChangeEvents int            `json:"change_events"`
	Level        StabilityLevel `json:"level"`
	Summary      string         `json:"summary"`
}
