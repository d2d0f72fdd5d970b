package models

import (
	"testing"
	"time"
)

func TestSeriesID_KeyIsLabelOrderIndependent(t *testing.T) {
	a := SeriesID{Name: "cpu_usage", Labels: map[string]string{"node": "w1", "zone": "a"}}
	b := SeriesID{Name: "cpu_usage", Labels: map[string]string{"zone": "a", "node": "w1"}}

	if a.Key() != b.Key() {
		t.Errorf("Keys differ for equal series: %q vs %q", a.Key(), b.Key())
	}
	if want := "cpu_usage,node=w1,zone=a"; a.Key() != want {
		t.Errorf("Expected key %q, got %q", want, a.Key())
	}
}

func TestSeriesID_KeyWithoutLabels(t *testing.T) {
	id := SeriesID{Name: "cpu_usage"}
	if id.Key() != "cpu_usage" {
		t.Errorf("Expected bare name, got %q", id.Key())
	}
}

func TestTimeRange_HalfOpen(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	r := TimeRange{Start: start, End: end}

	if !r.Contains(start) {
		t.Error("Start must be inclusive")
	}
	if r.Contains(end) {
		t.Error("End must be exclusive")
	}
	if r.Contains(start.Add(-time.Second)) {
		t.Error("Before start must be excluded")
	}

	unbounded := TimeRange{Start: start}
	if !unbounded.Contains(end.Add(24 * time.Hour)) {
		t.Error("Zero End must mean unbounded")
	}
}

func TestThreshold_Breached(t *testing.T) {
	cases := []struct {
		comparator Comparator
		bound      float64
		value      float64
		want       bool
	}{
		{ComparatorGT, 10, 11, true},
		{ComparatorGT, 10, 10, false},
		{ComparatorGTE, 10, 10, true},
		{ComparatorLT, 10, 9, true},
		{ComparatorLT, 10, 10, false},
		{ComparatorLTE, 10, 10, true},
	}
	for _, c := range cases {
		th := Threshold{Metric: "m", Comparator: c.comparator, Bound: c.bound}
		if got := th.Breached(c.value); got != c.want {
			t.Errorf("%s %v against %v: expected %v, got %v", c.comparator, c.bound, c.value, c.want, got)
		}
	}
}

func TestErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{NewInputMismatchError("x"), "input_mismatch"},
		{NewInsufficientDataError("x"), "insufficient_data"},
		{NewUnknownSeriesError("cpu"), "unknown_series"},
		{NewConfigurationError("x"), "configuration"},
	}
	for _, c := range cases {
		if got := ErrorKind(c.err); got != c.want {
			t.Errorf("Expected kind %q, got %q", c.want, got)
		}
	}
}
