package tools

import (
	"context"
	"encoding/json"

	"github.com/ovnsight/ovnsight/internal/models"
	"github.com/ovnsight/ovnsight/internal/orchestrator"
)

// AssessStabilityTool implements the assess_rule_stability MCP tool.
type AssessStabilityTool struct {
	orch *orchestrator.Orchestrator
}

// NewAssessStabilityTool creates a new rule stability assessment tool.
func NewAssessStabilityTool(orch *orchestrator.Orchestrator) *AssessStabilityTool {
	return &AssessStabilityTool{orch: orch}
}

// AssessStabilityInput represents the input for assess_rule_stability.
type AssessStabilityInput struct {
	Node     string `json:"node"`
	RuleKind string `json:"rule_kind"`
}

// Execute runs the assess_rule_stability tool.
func (t *AssessStabilityTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var params AssessStabilityInput
	if err := json.Unmarshal(input, &params); err != nil {
		return nil, models.NewInputMismatchError("invalid input: %v", err)
	}
	if params.Node == "" {
		return nil, models.NewInputMismatchError("node must not be empty")
	}

	kind, err := models.ParseRuleKind(params.RuleKind)
	if err != nil {
		return nil, err
	}
	return t.orch.AssessStability(ctx, kind, params.Node)
}
