package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ovnsight/ovnsight/internal/models"
	"github.com/ovnsight/ovnsight/internal/orchestrator"
)

// RecordTestResultTool implements the record_test_result MCP tool.
type RecordTestResultTool struct {
	orch *orchestrator.Orchestrator
}

// NewRecordTestResultTool creates a new test result recording tool.
func NewRecordTestResultTool(orch *orchestrator.Orchestrator) *RecordTestResultTool {
	return &RecordTestResultTool{orch: orch}
}

// RecordTestResultInput represents the input for record_test_result.
type RecordTestResultInput struct {
	Test            string  `json:"test"`
	Passed          bool    `json:"passed"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       int64   `json:"timestamp,omitempty"`
}

// RecordTestResultOutput acknowledges the recorded result.
type RecordTestResultOutput struct {
	Test     string    `json:"test"`
	Recorded time.Time `json:"recorded_at"`
}

// Execute runs the record_test_result tool.
func (t *RecordTestResultTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var params RecordTestResultInput
	if err := json.Unmarshal(input, &params); err != nil {
		return nil, models.NewInputMismatchError("invalid input: %v", err)
	}
	if params.DurationSeconds < 0 {
		return nil, models.NewInputMismatchError("duration_seconds must not be negative")
	}

	at := parseTimestamp(params.Timestamp)
	if at.IsZero() {
		at = time.Now()
	}
	duration := time.Duration(params.DurationSeconds * float64(time.Second))
	if err := t.orch.RecordTestResult(params.Test, params.Passed, duration, at); err != nil {
		return nil, err
	}
	return &RecordTestResultOutput{Test: params.Test, Recorded: at}, nil
}
