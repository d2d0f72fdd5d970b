package analysis

import (
	"fmt"

	"github.com/ovnsight/ovnsight/internal/models"
)

// consistencyRecommendations derives human-readable advisories from a
// consistency report. They are hints for an operator or an agent reviewing
// the report, not machine-actionable output.
func consistencyRecommendations(report *models.ConsistencyReport) []string {
	var recs []string

	for _, node := range report.Nodes {
		if missing := report.Missing[node]; len(missing) > 0 {
			recs = append(recs, fmt.Sprintf(
				"node %s is missing %d %s rule(s) held by other nodes - verify EgressIP assignment distribution",
				node, len(missing), report.Kind))
		}
	}
	for _, node := range report.Nodes {
		if extra := report.Extra[node]; len(extra) > 0 {
			recs = append(recs, fmt.Sprintf(
				"node %s holds %d %s rule(s) found on no other node - check for stale rules",
				node, len(extra), report.Kind))
		}
	}

	if report.Score < 0.5 {
		recs = append(recs, fmt.Sprintf(
			"consistency score %.2f indicates widespread divergence - investigate %s rule synchronization",
			report.Score, report.Kind))
	}

	if len(recs) == 0 {
		recs = append(recs, fmt.Sprintf(
			"%s rules are consistent across all analyzed nodes", report.Kind))
	}
	return recs
}
