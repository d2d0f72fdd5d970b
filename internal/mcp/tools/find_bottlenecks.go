package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ovnsight/ovnsight/internal/models"
	"github.com/ovnsight/ovnsight/internal/orchestrator"
)

// defaultCoOccurrenceWindow applies when the caller does not bound the
// rule-change/metric-breach time gap.
const defaultCoOccurrenceWindow = 5 * time.Minute

// FindBottlenecksTool implements the find_bottlenecks MCP tool.
type FindBottlenecksTool struct {
	orch *orchestrator.Orchestrator
}

// NewFindBottlenecksTool creates a new bottleneck correlation tool.
func NewFindBottlenecksTool(orch *orchestrator.Orchestrator) *FindBottlenecksTool {
	return &FindBottlenecksTool{orch: orch}
}

// FindBottlenecksInput represents the input for find_bottlenecks.
type FindBottlenecksInput struct {
	RuleKind      string             `json:"rule_kind"`
	Nodes         []string           `json:"nodes"`
	Queries       []MetricQueryInput `json:"queries"`
	Thresholds    []ThresholdInput   `json:"thresholds,omitempty"`
	WindowSeconds int64              `json:"window_seconds,omitempty"`
}

// Execute runs the find_bottlenecks tool.
func (t *FindBottlenecksTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var params FindBottlenecksInput
	if err := json.Unmarshal(input, &params); err != nil {
		return nil, models.NewInputMismatchError("invalid input: %v", err)
	}

	kind, err := models.ParseRuleKind(params.RuleKind)
	if err != nil {
		return nil, err
	}
	if len(params.Nodes) < 2 {
		return nil, models.NewInsufficientDataError(
			"bottleneck correlation needs at least 2 nodes, got %d", len(params.Nodes))
	}
	if len(params.Queries) == 0 {
		return nil, models.NewInputMismatchError("at least one metric query is required")
	}

	thresholds, err := parseThresholds(params.Thresholds)
	if err != nil {
		return nil, err
	}

	window := defaultCoOccurrenceWindow
	if params.WindowSeconds > 0 {
		window = time.Duration(params.WindowSeconds) * time.Second
	}

	queries := make([]orchestrator.MetricQuery, 0, len(params.Queries))
	for _, q := range params.Queries {
		queries = append(queries, orchestrator.MetricQuery{
			Series:  q.seriesID(),
			Range:   q.timeRange(),
			Horizon: time.Duration(q.HorizonSeconds) * time.Second,
		})
	}

	return t.orch.RequestAnalysis(ctx, orchestrator.AnalysisRequest{
		Kind:               kind,
		Nodes:              params.Nodes,
		Queries:            queries,
		Thresholds:         thresholds,
		CoOccurrenceWindow: window,
	})
}
