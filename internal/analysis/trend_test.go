package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovnsight/ovnsight/internal/models"
)

func pointsAt(base time.Time, step time.Duration, values ...float64) []models.MetricPoint {
	points := make([]models.MetricPoint, 0, len(values))
	for i, v := range values {
		points = append(points, models.MetricPoint{
			Timestamp: base.Add(time.Duration(i) * step),
			Value:     v,
		})
	}
	return points
}

func TestDetectTrend_RisingWithBreach(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	points := pointsAt(base, time.Minute, 10, 20, 30)
	thresholds := []models.Threshold{
		{Metric: "cpu_usage", Comparator: models.ComparatorGT, Bound: 25},
	}

	result, err := DetectTrend(context.Background(), "cpu_usage", points, thresholds,
		TrendOptions{Epsilon: 0.01})
	require.NoError(t, err)

	// 20 units over 120 seconds.
	assert.InDelta(t, 1.0/6.0, result.Slope, 1e-9)
	assert.Equal(t, models.TrendRising, result.Direction)
	require.NotNil(t, result.BreachedThreshold)
	assert.Equal(t, "cpu_usage", result.BreachedThreshold.Metric)
	assert.Nil(t, result.ForecastAtHorizon)
}

func TestDetectTrend_Falling(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	points := pointsAt(base, time.Minute, 30, 20, 10)

	result, err := DetectTrend(context.Background(), "latency_ms", points, nil,
		TrendOptions{Epsilon: 0.01})
	require.NoError(t, err)

	assert.InDelta(t, -1.0/6.0, result.Slope, 1e-9)
	assert.Equal(t, models.TrendFalling, result.Direction)
	assert.Nil(t, result.BreachedThreshold)
}

func TestDetectTrend_ConstantSeriesIsFlat(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	points := pointsAt(base, time.Minute, 5, 5, 5, 5)

	result, err := DetectTrend(context.Background(), "mem_usage", points, nil,
		TrendOptions{Epsilon: 0.01})
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Slope)
	assert.Equal(t, models.TrendFlat, result.Direction)
}

func TestDetectTrend_EpsilonSuppressesNoise(t *testing.T) {
	// Noisy series whose fitted change over the window is small relative to
	// its value range: flat with a wide epsilon, rising with a narrow one.
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	points := pointsAt(base, time.Minute, 10, 30, 11)

	flat, err := DetectTrend(context.Background(), "jitter", points, nil,
		TrendOptions{Epsilon: 0.1})
	require.NoError(t, err)
	assert.Equal(t, models.TrendFlat, flat.Direction)

	rising, err := DetectTrend(context.Background(), "jitter", points, nil,
		TrendOptions{Epsilon: 0.01})
	require.NoError(t, err)
	assert.Equal(t, models.TrendRising, rising.Direction)
}

func TestDetectTrend_Forecast(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	points := pointsAt(base, time.Minute, 10, 20, 30)

	result, err := DetectTrend(context.Background(), "cpu_usage", points, nil,
		TrendOptions{Epsilon: 0.01, Horizon: time.Minute})
	require.NoError(t, err)

	// The line continues at 10 units per minute.
	require.NotNil(t, result.ForecastAtHorizon)
	assert.InDelta(t, 40.0, *result.ForecastAtHorizon, 1e-9)
}

func TestDetectTrend_FirstMatchingThresholdWins(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	points := pointsAt(base, time.Minute, 10, 20, 30)
	thresholds := []models.Threshold{
		{Metric: "cpu_usage", Comparator: models.ComparatorGT, Bound: 5},
		{Metric: "cpu_usage", Comparator: models.ComparatorGT, Bound: 25},
	}

	result, err := DetectTrend(context.Background(), "cpu_usage", points, thresholds,
		TrendOptions{Epsilon: 0.01})
	require.NoError(t, err)

	require.NotNil(t, result.BreachedThreshold)
	assert.Equal(t, 5.0, result.BreachedThreshold.Bound)
}

func TestDetectTrend_ThresholdAgainstNewestPoint(t *testing.T) {
	// Older points exceed the bound but the newest does not.
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	points := pointsAt(base, time.Minute, 50, 40, 10)
	thresholds := []models.Threshold{
		{Metric: "cpu_usage", Comparator: models.ComparatorGT, Bound: 30},
	}

	result, err := DetectTrend(context.Background(), "cpu_usage", points, thresholds,
		TrendOptions{Epsilon: 0.01})
	require.NoError(t, err)
	assert.Nil(t, result.BreachedThreshold)
}

func TestDetectTrend_TooFewPoints(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	_, err := DetectTrend(context.Background(), "cpu_usage",
		pointsAt(base, time.Minute, 10), nil, TrendOptions{})
	require.Error(t, err)
	assert.True(t, models.IsInsufficientDataError(err))
}

func TestDetectTrend_IrregularSpacing(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	points := []models.MetricPoint{
		{Timestamp: base, Value: 0},
		{Timestamp: base.Add(10 * time.Second), Value: 10},
		{Timestamp: base.Add(100 * time.Second), Value: 100},
	}

	result, err := DetectTrend(context.Background(), "bytes", points, nil,
		TrendOptions{Epsilon: 0.01})
	require.NoError(t, err)

	// Perfectly linear in elapsed time despite uneven spacing.
	assert.InDelta(t, 1.0, result.Slope, 1e-9)
	assert.Equal(t, models.TrendRising, result.Direction)
}
