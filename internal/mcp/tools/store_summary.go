package tools

import (
	"context"
	"encoding/json"

	"github.com/ovnsight/ovnsight/internal/orchestrator"
	"github.com/ovnsight/ovnsight/internal/storage"
)

// StoreSummaryTool implements the store_summary MCP tool.
type StoreSummaryTool struct {
	orch *orchestrator.Orchestrator
}

// NewStoreSummaryTool creates a new store summary tool.
func NewStoreSummaryTool(orch *orchestrator.Orchestrator) *StoreSummaryTool {
	return &StoreSummaryTool{orch: orch}
}

// StoreSummaryOutput represents the output of store_summary.
type StoreSummaryOutput struct {
	SeriesCount int                     `json:"series_count"`
	Series      []storage.SeriesSummary `json:"series"`
}

// Execute runs the store_summary tool.
func (t *StoreSummaryTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	summaries := t.orch.StoreSummary()
	return &StoreSummaryOutput{
		SeriesCount: len(summaries),
		Series:      summaries,
	}, nil
}
