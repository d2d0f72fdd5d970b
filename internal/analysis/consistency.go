// Package analysis contains the pure analytical functions: cross-node rule
// consistency, least-squares trend detection, rule stability assessment,
// and bottleneck correlation. Nothing in this package holds state across
// calls; every report is a fresh value owned by the caller.
package analysis

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ovnsight/ovnsight/internal/models"
)

// AnalyzeConsistency compares rule snapshots across a node set and produces
// a scored consistency report.
//
// All snapshots must share the same rule kind (InputMismatchError otherwise)
// and at least two snapshots are required (InsufficientDataError). The score
// is |intersection| / |union| of canonical rule forms, 1.0 when no rules
// exist anywhere. Missing is computed against the union baseline; extra
// holds rules a node uniquely holds, present nowhere else. Node order in
// the report mirrors input order.
func AnalyzeConsistency(ctx context.Context, snapshots []*models.RuleSnapshot) (*models.ConsistencyReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(snapshots) < 2 {
		return nil, models.NewInsufficientDataError(
			"consistency analysis requires at least 2 snapshots, got %d", len(snapshots))
	}

	kind := snapshots[0].Kind
	for _, snap := range snapshots[1:] {
		if snap.Kind != kind {
			return nil, models.NewInputMismatchError(
				"snapshot for node %s has rule kind %s, expected %s", snap.NodeID, snap.Kind, kind)
		}
	}

	// holders counts how many snapshots contain each canonical form.
	holders := make(map[string]int)
	entries := make(map[string]models.RuleEntry)
	for _, snap := range snapshots {
		for _, canonical := range snap.CanonicalForms() {
			holders[canonical]++
			if _, ok := entries[canonical]; !ok {
				e, _ := snap.Entry(canonical)
				entries[canonical] = e
			}
		}
	}

	unionSize := len(holders)
	intersectionSize := 0
	for _, n := range holders {
		if n == len(snapshots) {
			intersectionSize++
		}
	}

	report := &models.ConsistencyReport{
		ReportID:    uuid.NewString(),
		EvaluatedAt: time.Now(),
		Kind:        kind,
		Nodes:       make([]string, 0, len(snapshots)),
		Missing:     make(map[string][]models.RuleEntry),
		Extra:       make(map[string][]models.RuleEntry),
	}

	for _, snap := range snapshots {
		report.Nodes = append(report.Nodes, snap.NodeID)

		var missing, extra []models.RuleEntry
		for canonical, n := range holders {
			if !snap.Contains(canonical) {
				missing = append(missing, entries[canonical])
				continue
			}
			if n == 1 {
				extra = append(extra, entries[canonical])
			}
		}
		if len(missing) > 0 {
			report.Missing[snap.NodeID] = sortEntries(missing)
		}
		if len(extra) > 0 {
			report.Extra[snap.NodeID] = sortEntries(extra)
		}
	}

	if unionSize == 0 {
		// Vacuously consistent when no rules exist anywhere.
		report.Score = 1.0
	} else {
		report.Score = float64(intersectionSize) / float64(unionSize)
	}

	report.Recommendations = consistencyRecommendations(report)
	return report, nil
}

func sortEntries(entries []models.RuleEntry) []models.RuleEntry {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Canonical() < entries[j].Canonical()
	})
	return entries
}
