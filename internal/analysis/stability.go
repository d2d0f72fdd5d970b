package analysis

import (
	"context"
	"fmt"

	"github.com/ovnsight/ovnsight/internal/models"
)

// AssessStability grades rule churn for one node over an ordered sequence
// of snapshots. A change event is any difference in the canonical rule set
// between consecutive snapshots. Fewer than 2 snapshots yield
// InsufficientDataError; a mixed node or kind in the sequence yields
// InputMismatchError.
func AssessStability(ctx context.Context, snapshots []*models.RuleSnapshot) (*models.StabilityAssessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(snapshots) < 2 {
		return nil, models.NewInsufficientDataError(
			"stability assessment requires at least 2 snapshots, got %d", len(snapshots))
	}

	node := snapshots[0].NodeID
	kind := snapshots[0].Kind
	for _, snap := range snapshots[1:] {
		if snap.NodeID != node || snap.Kind != kind {
			return nil, models.NewInputMismatchError(
				"stability assessment requires snapshots of one node and kind, got %s/%s and %s/%s",
				node, kind, snap.NodeID, snap.Kind)
		}
	}

	changes := 0
	prev := snapshots[0].CanonicalForms()
	for _, snap := range snapshots[1:] {
		curr := snap.CanonicalForms()
		if !equalForms(prev, curr) {
			changes++
		}
		prev = curr
	}

	assessment := &models.StabilityAssessment{
		NodeID:       node,
		Kind:         kind,
		Snapshots:    len(snapshots),
		ChangeEvents: changes,
	}

	switch {
	case changes == 0:
		assessment.Level = models.StabilityStable
		assessment.Summary = fmt.Sprintf("no %s rule changes across %d snapshots", kind, len(snapshots))
	case changes <= 2:
		assessment.Level = models.StabilityMostlyStable
		assessment.Summary = fmt.Sprintf("minor %s rule churn: %d change event(s) across %d snapshots", kind, changes, len(snapshots))
	default:
		assessment.Level = models.StabilityUnstable
		assessment.Summary = fmt.Sprintf("frequent %s rule churn: %d change event(s) across %d snapshots", kind, changes, len(snapshots))
	}
	return assessment, nil
}

func equalForms(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
