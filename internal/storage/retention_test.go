package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovnsight/ovnsight/internal/models"
)

func TestRetain_MaxAge(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	require.NoError(t, store.Append(cpuSeries, models.MetricPoint{
		Timestamp: now.Add(-48 * time.Hour), Value: 1,
	}))
	require.NoError(t, store.Append(cpuSeries, models.MetricPoint{
		Timestamp: now.Add(-time.Hour), Value: 2,
	}))

	removed, err := store.Retain(RetentionPolicy{MaxAge: 24 * time.Hour})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	points, err := store.Query(context.Background(), cpuSeries, models.TimeRange{})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 2.0, points[0].Value)
}

func TestRetain_MaxPointsKeepsNewest(t *testing.T) {
	store := openTestStore(t)
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 10; i++ {
		require.NoError(t, store.Append(cpuSeries, models.MetricPoint{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Value:     float64(i),
		}))
	}

	removed, err := store.Retain(RetentionPolicy{MaxPoints: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, removed)

	points, err := store.Query(context.Background(), cpuSeries, models.TimeRange{})
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, 7.0, points[0].Value)
	assert.Equal(t, 9.0, points[2].Value)
}

func TestRetain_NoPolicyIsNoop(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Append(cpuSeries, models.MetricPoint{
		Timestamp: time.Now(), Value: 1,
	}))

	removed, err := store.Retain(RetentionPolicy{})
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestRetain_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	store, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Append(cpuSeries, models.MetricPoint{
		Timestamp: now.Add(-48 * time.Hour), Value: 1,
	}))
	require.NoError(t, store.Append(cpuSeries, models.MetricPoint{
		Timestamp: now, Value: 2,
	}))

	_, err = store.Retain(RetentionPolicy{MaxAge: 24 * time.Hour})
	require.NoError(t, err)

	// The rewritten file keeps accepting appends.
	require.NoError(t, store.Append(cpuSeries, models.MetricPoint{
		Timestamp: now.Add(time.Minute), Value: 3,
	}))
	require.NoError(t, store.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	points, err := reopened.Query(context.Background(), cpuSeries, models.TimeRange{})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 2.0, points[0].Value)
	assert.Equal(t, 3.0, points[1].Value)
}
