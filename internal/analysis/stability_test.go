package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovnsight/ovnsight/internal/models"
)

func TestAssessStability_Stable(t *testing.T) {
	snapshots := []*models.RuleSnapshot{
		snapshot("node-1", models.RuleKindSNAT, ruleR1, ruleR2),
		snapshot("node-1", models.RuleKindSNAT, ruleR1, ruleR2),
		snapshot("node-1", models.RuleKindSNAT, ruleR2, ruleR1),
	}

	assessment, err := AssessStability(context.Background(), snapshots)
	require.NoError(t, err)

	assert.Equal(t, models.StabilityStable, assessment.Level)
	assert.Equal(t, 0, assessment.ChangeEvents)
	assert.Equal(t, 3, assessment.Snapshots)
	assert.Equal(t, "node-1", assessment.NodeID)
}

func TestAssessStability_MostlyStable(t *testing.T) {
	snapshots := []*models.RuleSnapshot{
		snapshot("node-1", models.RuleKindSNAT, ruleR1),
		snapshot("node-1", models.RuleKindSNAT, ruleR1, ruleR2),
		snapshot("node-1", models.RuleKindSNAT, ruleR1, ruleR2),
	}

	assessment, err := AssessStability(context.Background(), snapshots)
	require.NoError(t, err)

	assert.Equal(t, models.StabilityMostlyStable, assessment.Level)
	assert.Equal(t, 1, assessment.ChangeEvents)
}

func TestAssessStability_Unstable(t *testing.T) {
	snapshots := []*models.RuleSnapshot{
		snapshot("node-1", models.RuleKindSNAT, ruleR1),
		snapshot("node-1", models.RuleKindSNAT, ruleR2),
		snapshot("node-1", models.RuleKindSNAT, ruleR1),
		snapshot("node-1", models.RuleKindSNAT, ruleR3),
	}

	assessment, err := AssessStability(context.Background(), snapshots)
	require.NoError(t, err)

	assert.Equal(t, models.StabilityUnstable, assessment.Level)
	assert.Equal(t, 3, assessment.ChangeEvents)
	assert.Contains(t, assessment.Summary, "frequent")
}

func TestAssessStability_TooFewSnapshots(t *testing.T) {
	_, err := AssessStability(context.Background(), []*models.RuleSnapshot{
		snapshot("node-1", models.RuleKindSNAT, ruleR1),
	})
	require.Error(t, err)
	assert.True(t, models.IsInsufficientDataError(err))
}

func TestAssessStability_MixedNodes(t *testing.T) {
	_, err := AssessStability(context.Background(), []*models.RuleSnapshot{
		snapshot("node-1", models.RuleKindSNAT, ruleR1),
		snapshot("node-2", models.RuleKindSNAT, ruleR1),
	})
	require.Error(t, err)
	assert.True(t, models.IsInputMismatchError(err))
}
