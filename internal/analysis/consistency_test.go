package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovnsight/ovnsight/internal/models"
)

func snapshot(node string, kind models.RuleKind, entries ...models.RuleEntry) *models.RuleSnapshot {
	return models.NewRuleSnapshot(node, kind, time.Now(), entries)
}

var (
	ruleR1 = models.RuleEntry{Match: "ip4.src == 10.0.0.1", Action: "snat 192.168.1.10", Priority: 100}
	ruleR2 = models.RuleEntry{Match: "ip4.src == 10.0.0.2", Action: "snat 192.168.1.10", Priority: 100}
	ruleR3 = models.RuleEntry{Match: "ip4.src == 10.0.0.3", Action: "snat 192.168.1.11", Priority: 100}
)

func TestAnalyzeConsistency_PartialOverlap(t *testing.T) {
	// Three nodes, two sharing the full set and one missing a rule.
	snapshots := []*models.RuleSnapshot{
		snapshot("node-1", models.RuleKindSNAT, ruleR1, ruleR2),
		snapshot("node-2", models.RuleKindSNAT, ruleR1, ruleR2),
		snapshot("node-3", models.RuleKindSNAT, ruleR1),
	}

	report, err := AnalyzeConsistency(context.Background(), snapshots)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, report.Score, 1e-9)
	assert.Equal(t, []string{"node-1", "node-2", "node-3"}, report.Nodes)
	assert.Equal(t, models.RuleKindSNAT, report.Kind)

	require.Len(t, report.Missing, 1)
	assert.Equal(t, []models.RuleEntry{ruleR2}, report.Missing["node-3"])

	// ruleR2 lives on two nodes, so nobody holds it uniquely.
	assert.Empty(t, report.Extra)
	assert.NotEmpty(t, report.ReportID)
	assert.NotEmpty(t, report.Recommendations)
}

func TestAnalyzeConsistency_IdenticalSets(t *testing.T) {
	snapshots := []*models.RuleSnapshot{
		snapshot("node-1", models.RuleKindSNAT, ruleR1, ruleR2),
		snapshot("node-2", models.RuleKindSNAT, ruleR2, ruleR1),
	}

	report, err := AnalyzeConsistency(context.Background(), snapshots)
	require.NoError(t, err)

	assert.Equal(t, 1.0, report.Score)
	assert.Empty(t, report.Missing)
	assert.Empty(t, report.Extra)
}

func TestAnalyzeConsistency_AllEmpty(t *testing.T) {
	snapshots := []*models.RuleSnapshot{
		snapshot("node-1", models.RuleKindLRP),
		snapshot("node-2", models.RuleKindLRP),
	}

	report, err := AnalyzeConsistency(context.Background(), snapshots)
	require.NoError(t, err)

	// No rules anywhere is vacuously consistent.
	assert.Equal(t, 1.0, report.Score)
}

func TestAnalyzeConsistency_UniqueRuleIsExtra(t *testing.T) {
	snapshots := []*models.RuleSnapshot{
		snapshot("node-1", models.RuleKindSNAT, ruleR1, ruleR3),
		snapshot("node-2", models.RuleKindSNAT, ruleR1),
		snapshot("node-3", models.RuleKindSNAT, ruleR1),
	}

	report, err := AnalyzeConsistency(context.Background(), snapshots)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, report.Score, 1e-9)
	assert.Equal(t, []models.RuleEntry{ruleR3}, report.Extra["node-1"])
	assert.Equal(t, []models.RuleEntry{ruleR3}, report.Missing["node-2"])
	assert.Equal(t, []models.RuleEntry{ruleR3}, report.Missing["node-3"])
}

func TestAnalyzeConsistency_TooFewSnapshots(t *testing.T) {
	_, err := AnalyzeConsistency(context.Background(), []*models.RuleSnapshot{
		snapshot("node-1", models.RuleKindSNAT, ruleR1),
	})
	require.Error(t, err)
	assert.True(t, models.IsInsufficientDataError(err))
}

func TestAnalyzeConsistency_MixedRuleKinds(t *testing.T) {
	_, err := AnalyzeConsistency(context.Background(), []*models.RuleSnapshot{
		snapshot("node-1", models.RuleKindSNAT, ruleR1),
		snapshot("node-2", models.RuleKindLRP, ruleR1),
	})
	require.Error(t, err)
	assert.True(t, models.IsInputMismatchError(err))
}

func TestAnalyzeConsistency_DuplicateEntriesCollapse(t *testing.T) {
	snapshots := []*models.RuleSnapshot{
		snapshot("node-1", models.RuleKindSNAT, ruleR1, ruleR1, ruleR1),
		snapshot("node-2", models.RuleKindSNAT, ruleR1),
	}

	report, err := AnalyzeConsistency(context.Background(), snapshots)
	require.NoError(t, err)
	assert.Equal(t, 1.0, report.Score)
}
