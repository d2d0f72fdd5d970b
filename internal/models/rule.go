package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RuleKind identifies the class of OVN rule a snapshot was taken from.
type RuleKind string

const (
	// RuleKindSNAT covers source-NAT entries on the cluster router.
	RuleKindSNAT RuleKind = "SNAT"
	// RuleKindLRP covers logical router policy entries.
	RuleKindLRP RuleKind = "LRP"
)

// ParseRuleKind validates a rule kind string.
func ParseRuleKind(s string) (RuleKind, error) {
	switch RuleKind(strings.ToUpper(s)) {
	case RuleKindSNAT:
		return RuleKindSNAT, nil
	case RuleKindLRP:
		return RuleKindLRP, nil
	default:
		return "", NewConfigurationError("unknown rule kind %q (must be SNAT or LRP)", s)
	}
}

// RuleEntry is one normalized rule tuple. It is a value type: two entries
// are the same rule iff their canonical forms are equal.
type RuleEntry struct {
	Match    string `json:"match"`
	Action   string `json:"action"`
	Priority int    `json:"priority"`
}

// Canonical returns the stable string form of the entry, used as the set/map
// key for all cross-node comparisons.
func (e RuleEntry) Canonical() string {
	return fmt.Sprintf("%d|%s|%s", e.Priority, e.Match, e.Action)
}

// RuleSnapshot is one node's rule state at one point in time. Snapshots are
// immutable once constructed; the external collector creates one per node
// per collection cycle.
type RuleSnapshot struct {
	NodeID     string    `json:"node_id"`
	CapturedAt time.Time `json:"captured_at"`
	Kind       RuleKind  `json:"rule_kind"`

	// rules is keyed by canonical form. Duplicate canonical forms collapse
	// at construction time.
	rules map[string]RuleEntry
}

// NewRuleSnapshot builds a snapshot from a list of entries. Entries with
// identical canonical forms collapse into one.
func NewRuleSnapshot(nodeID string, kind RuleKind, capturedAt time.Time, entries []RuleEntry) *RuleSnapshot {
	rules := make(map[string]RuleEntry, len(entries))
	for _, e := range entries {
		rules[e.Canonical()] = e
	}
	return &RuleSnapshot{
		NodeID:     nodeID,
		CapturedAt: capturedAt,
		Kind:       kind,
		rules:      rules,
	}
}

// RuleCount returns the number of distinct rules in the snapshot.
func (s *RuleSnapshot) RuleCount() int {
	return len(s.rules)
}

// Contains reports whether the snapshot holds a rule with the given
// canonical form.
func (s *RuleSnapshot) Contains(canonical string) bool {
	_, ok := s.rules[canonical]
	return ok
}

// Entry returns the entry for a canonical form, if present.
func (s *RuleSnapshot) Entry(canonical string) (RuleEntry, bool) {
	e, ok := s.rules[canonical]
	return e, ok
}

// CanonicalForms returns the sorted canonical forms of all rules in the
// snapshot. The copy is the caller's to keep.
func (s *RuleSnapshot) CanonicalForms() []string {
	forms := make([]string, 0, len(s.rules))
	for c := range s.rules {
		forms = append(forms, c)
	}
	sort.Strings(forms)
	return forms
}

// Entries returns the snapshot's rules sorted by canonical form.
func (s *RuleSnapshot) Entries() []RuleEntry {
	forms := s.CanonicalForms()
	entries := make([]RuleEntry, 0, len(forms))
	for _, c := range forms {
		entries = append(entries, s.rules[c])
	}
	return entries
}
