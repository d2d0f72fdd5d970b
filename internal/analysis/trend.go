package analysis

import (
	"context"
	"math"
	"time"

	"github.com/ovnsight/ovnsight/internal/models"
)

// TrendOptions configures trend detection.
type TrendOptions struct {
	// Epsilon is the relative tolerance under which a slope counts as
	// flat, as a fraction of the series' observed value range. The range
	// derivation keeps classification scale-invariant.
	Epsilon float64

	// Horizon, when positive, requests a linear forecast that far past the
	// newest point.
	Horizon time.Duration
}

// DetectTrend fits an ordinary least-squares line over one series window and
// classifies its direction. Points must be ordered ascending by timestamp
// (the store's query contract); spacing may be irregular, the fit is over
// elapsed time rather than index.
//
// Thresholds are evaluated in input order against the most recent point;
// the first breach wins. Fewer than 2 points yield InsufficientDataError.
func DetectTrend(ctx context.Context, seriesKey string, points []models.MetricPoint, thresholds []models.Threshold, opts TrendOptions) (*models.TrendResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(points) < 2 {
		return nil, models.NewInsufficientDataError(
			"trend detection requires at least 2 points, got %d", len(points))
	}

	first := points[0]
	last := points[len(points)-1]

	slope, intercept := fitLine(points)

	result := &models.TrendResult{
		SeriesKey:   seriesKey,
		Window:      models.TimeRange{Start: first.Timestamp, End: last.Timestamp},
		Slope:       slope,
		Direction:   classifyDirection(points, slope, opts.Epsilon),
		EvaluatedAt: time.Now(),
	}

	for i := range thresholds {
		if thresholds[i].Breached(last.Value) {
			th := thresholds[i]
			result.BreachedThreshold = &th
			break
		}
	}

	if opts.Horizon > 0 {
		elapsedLast := last.Timestamp.Sub(first.Timestamp).Seconds()
		forecast := intercept + slope*(elapsedLast+opts.Horizon.Seconds())
		result.ForecastAtHorizon = &forecast
	}

	return result, nil
}

// fitLine computes the least-squares slope (per second) and intercept of
// value over elapsed time from the first point.
func fitLine(points []models.MetricPoint) (slope, intercept float64) {
	n := float64(len(points))
	base := points[0].Timestamp

	var sumT, sumV, sumTT, sumTV float64
	for _, p := range points {
		t := p.Timestamp.Sub(base).Seconds()
		sumT += t
		sumV += p.Value
		sumTT += t * t
		sumTV += t * p.Value
	}

	denom := n*sumTT - sumT*sumT
	if denom == 0 {
		// All points share one timestamp; no slope is definable, treat as
		// constant at the mean.
		return 0, sumV / n
	}
	slope = (n*sumTV - sumT*sumV) / denom
	intercept = (sumV - slope*sumT) / n
	return slope, intercept
}

// classifyDirection grades the slope against the series' own value range:
// the fitted total change over the window must exceed epsilon times the
// range to count as rising or falling.
func classifyDirection(points []models.MetricPoint, slope, epsilon float64) models.TrendDirection {
	minV, maxV := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		if p.Value < minV {
			minV = p.Value
		}
		if p.Value > maxV {
			maxV = p.Value
		}
	}
	valueRange := maxV - minV
	if valueRange == 0 {
		return models.TrendFlat
	}

	elapsed := points[len(points)-1].Timestamp.Sub(points[0].Timestamp).Seconds()
	if math.Abs(slope)*elapsed < epsilon*valueRange {
		return models.TrendFlat
	}
	if slope > 0 {
		return models.TrendRising
	}
	return models.TrendFalling
}
