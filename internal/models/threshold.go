package models

// Comparator is the comparison operator of a threshold.
type Comparator string

const (
	ComparatorLT  Comparator = "lt"
	ComparatorLTE Comparator = "lte"
	ComparatorGT  Comparator = "gt"
	ComparatorGTE Comparator = "gte"
)

// ParseComparator validates a comparator string.
func ParseComparator(s string) (Comparator, error) {
	switch Comparator(s) {
	case ComparatorLT, ComparatorLTE, ComparatorGT, ComparatorGTE:
		return Comparator(s), nil
	default:
		return "", NewConfigurationError("unknown comparator %q (must be lt, lte, gt, or gte)", s)
	}
}

// Threshold is an externally supplied alerting bound. Read-only to the core.
type Threshold struct {
	Metric     string     `json:"metric" yaml:"metric"`
	Comparator Comparator `json:"comparator" yaml:"comparator"`
	Bound      float64    `json:"bound" yaml:"bound"`
}

// Breached reports whether the given value violates the threshold.
func (t Threshold) Breached(value float64) bool {
	switch t.Comparator {
	case ComparatorLT:
		return value < t.Bound
	case ComparatorLTE:
		return value <= t.Bound
	case ComparatorGT:
		return value > t.Bound
	case ComparatorGTE:
		return value >= t.Bound
	default:
		return false
	}
}

// Validate checks the threshold's fields.
func (t Threshold) Validate() error {
	if t.Metric == "" {
		return NewConfigurationError("threshold metric name must not be empty")
	}
	if _, err := ParseComparator(string(t.Comparator)); err != nil {
		return err
	}
	return nil
}
