package tools

import (
	"time"

	"github.com/ovnsight/ovnsight/internal/models"
)

// parseTimestamp converts a Unix timestamp into time.Time, accepting either
// seconds or milliseconds. A zero value returns the zero time.
func parseTimestamp(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	// Values this large are milliseconds.
	if ts > 10000000000 {
		return time.UnixMilli(ts)
	}
	return time.Unix(ts, 0)
}

// ThresholdInput is the wire form of a threshold override.
type ThresholdInput struct {
	Metric     string  `json:"metric"`
	Comparator string  `json:"comparator"`
	Bound      float64 `json:"bound"`
}

func parseThresholds(inputs []ThresholdInput) ([]models.Threshold, error) {
	if inputs == nil {
		return nil, nil
	}
	thresholds := make([]models.Threshold, 0, len(inputs))
	for _, in := range inputs {
		cmp, err := models.ParseComparator(in.Comparator)
		if err != nil {
			return nil, err
		}
		th := models.Threshold{Metric: in.Metric, Comparator: cmp, Bound: in.Bound}
		if err := th.Validate(); err != nil {
			return nil, err
		}
		thresholds = append(thresholds, th)
	}
	return thresholds, nil
}

// MetricQueryInput is the wire form of one series window to analyze.
type MetricQueryInput struct {
	Metric         string            `json:"metric"`
	Labels         map[string]string `json:"labels,omitempty"`
	StartTime      int64             `json:"start_time,omitempty"`
	EndTime        int64             `json:"end_time,omitempty"`
	HorizonSeconds int64             `json:"horizon_seconds,omitempty"`
}

func (q MetricQueryInput) seriesID() models.SeriesID {
	return models.SeriesID{Name: q.Metric, Labels: q.Labels}
}

func (q MetricQueryInput) timeRange() models.TimeRange {
	return models.TimeRange{
		Start: parseTimestamp(q.StartTime),
		End:   parseTimestamp(q.EndTime),
	}
}
