package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ovnsight/ovnsight/internal/models"
	"github.com/ovnsight/ovnsight/internal/orchestrator"
)

// AnalyzeTrendsTool implements the analyze_metric_trends MCP tool.
type AnalyzeTrendsTool struct {
	orch *orchestrator.Orchestrator
}

// NewAnalyzeTrendsTool creates a new metric trend analysis tool.
func NewAnalyzeTrendsTool(orch *orchestrator.Orchestrator) *AnalyzeTrendsTool {
	return &AnalyzeTrendsTool{orch: orch}
}

// AnalyzeTrendsInput represents the input for analyze_metric_trends.
type AnalyzeTrendsInput struct {
	Queries    []MetricQueryInput `json:"queries"`
	Thresholds []ThresholdInput   `json:"thresholds,omitempty"`
}

// AnalyzeTrendsOutput represents the output of analyze_metric_trends.
type AnalyzeTrendsOutput struct {
	Trends []models.TrendResult `json:"trends"`
}

// Execute runs the analyze_metric_trends tool.
func (t *AnalyzeTrendsTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var params AnalyzeTrendsInput
	if err := json.Unmarshal(input, &params); err != nil {
		return nil, models.NewInputMismatchError("invalid input: %v", err)
	}
	if len(params.Queries) == 0 {
		return nil, models.NewInputMismatchError("at least one metric query is required")
	}

	thresholds, err := parseThresholds(params.Thresholds)
	if err != nil {
		return nil, err
	}

	queries := make([]orchestrator.MetricQuery, 0, len(params.Queries))
	for _, q := range params.Queries {
		queries = append(queries, orchestrator.MetricQuery{
			Series:  q.seriesID(),
			Range:   q.timeRange(),
			Horizon: time.Duration(q.HorizonSeconds) * time.Second,
		})
	}

	trends, err := t.orch.AnalyzeTrends(ctx, queries, thresholds)
	if err != nil {
		return nil, err
	}
	return &AnalyzeTrendsOutput{Trends: trends}, nil
}
