package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ovnsight/ovnsight/internal/models"
	"github.com/ovnsight/ovnsight/internal/orchestrator"
)

// CompareConsistencyTool implements the compare_rule_consistency MCP tool.
type CompareConsistencyTool struct {
	orch *orchestrator.Orchestrator
}

// NewCompareConsistencyTool creates a new rule consistency comparison tool.
func NewCompareConsistencyTool(orch *orchestrator.Orchestrator) *CompareConsistencyTool {
	return &CompareConsistencyTool{orch: orch}
}

// RuleInput is the wire form of one rule entry.
type RuleInput struct {
	Match    string `json:"match"`
	Action   string `json:"action"`
	Priority int    `json:"priority"`
}

// SnapshotInput is the wire form of one node's rule snapshot.
type SnapshotInput struct {
	Node       string      `json:"node"`
	CapturedAt int64       `json:"captured_at,omitempty"`
	Rules      []RuleInput `json:"rules"`
}

// CompareConsistencyInput represents the input for compare_rule_consistency.
// Snapshots provided inline are recorded before analysis; nodes listed
// without an inline snapshot must have pushed one earlier.
type CompareConsistencyInput struct {
	RuleKind  string          `json:"rule_kind"`
	Snapshots []SnapshotInput `json:"snapshots,omitempty"`
	Nodes     []string        `json:"nodes,omitempty"`
}

// Execute runs the compare_rule_consistency tool.
func (t *CompareConsistencyTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var params CompareConsistencyInput
	if err := json.Unmarshal(input, &params); err != nil {
		return nil, models.NewInputMismatchError("invalid input: %v", err)
	}

	kind, err := models.ParseRuleKind(params.RuleKind)
	if err != nil {
		return nil, err
	}

	nodes := params.Nodes
	for _, in := range params.Snapshots {
		capturedAt := parseTimestamp(in.CapturedAt)
		if capturedAt.IsZero() {
			capturedAt = time.Now()
		}
		entries := make([]models.RuleEntry, 0, len(in.Rules))
		for _, r := range in.Rules {
			entries = append(entries, models.RuleEntry{
				Match:    r.Match,
				Action:   r.Action,
				Priority: r.Priority,
			})
		}
		snap := models.NewRuleSnapshot(in.Node, kind, capturedAt, entries)
		if err := t.orch.PushSnapshot(snap); err != nil {
			return nil, err
		}
		if !containsNode(nodes, in.Node) {
			nodes = append(nodes, in.Node)
		}
	}

	report, err := t.orch.RequestAnalysis(ctx, orchestrator.AnalysisRequest{
		Kind:  kind,
		Nodes: nodes,
	})
	if err != nil {
		return nil, err
	}
	return report.Consistency, nil
}

func containsNode(nodes []string, node string) bool {
	for _, n := range nodes {
		if n == node {
			return true
		}
	}
	return false
}
