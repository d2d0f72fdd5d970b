package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MetricPoint is one sample in a series.
type MetricPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// SeriesID identifies a metric series by name plus disambiguating labels,
// e.g. {Name: "egress_latency_ms", Labels: {"node": "worker-0"}}.
type SeriesID struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
}

// Key returns the canonical series key: the metric name followed by sorted
// label pairs. Two SeriesIDs with equal keys address the same series.
func (id SeriesID) Key() string {
	if len(id.Labels) == 0 {
		return id.Name
	}
	keys := make([]string, 0, len(id.Labels))
	for k := range id.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(id.Name)
	for _, k := range keys {
		fmt.Fprintf(&b, ",%s=%s", k, id.Labels[k])
	}
	return b.String()
}

// TimeRange is a half-open interval [Start, End). A zero End means
// unbounded.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	if t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && !t.Before(r.End) {
		return false
	}
	return true
}
