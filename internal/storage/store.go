// Package storage implements the append-only metric store: per-series
// persistence under a data directory, query-by-range with ascending sort,
// and retention sweeps by age and per-series point cap.
package storage

import (
	"context"
	"os"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ovnsight/ovnsight/internal/logging"
	"github.com/ovnsight/ovnsight/internal/models"
)

// sortedCacheSize bounds the number of series whose sorted point view is
// cached between appends.
const sortedCacheSize = 256

// series holds one metric series. Its mutex serializes appends to the same
// series; appends to different series only contend on the store's map lock.
type series struct {
	mu     sync.Mutex
	id     models.SeriesID
	points []models.MetricPoint
	file   *seriesFile
}

// Store is the metric store. It exclusively owns all series data: callers
// get copies on read, never internal slices.
type Store struct {
	dataDir string
	logger  *logging.Logger
	metrics *Metrics

	mu     sync.RWMutex
	series map[string]*series

	// sorted caches an ascending copy of a series' points, invalidated on
	// append and retention. Queries against a quiet series skip re-sorting.
	sorted *lru.Cache[string, []models.MetricPoint]
}

// Open creates a store over the given data directory, loading any series
// persisted by a previous process. Points appended before a restart and not
// yet purged by retention are visible again after Open.
func Open(dataDir string) (*Store, error) {
	return OpenWithMetrics(dataDir, nil)
}

// OpenWithMetrics is Open with an optional metrics instance for
// observability. A nil metrics disables instrumentation.
func OpenWithMetrics(dataDir string, metrics *Metrics) (*Store, error) {
	logger := logging.GetLogger("storage")

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	sorted, err := lru.New[string, []models.MetricPoint](sortedCacheSize)
	if err != nil {
		return nil, err
	}

	s := &Store{
		dataDir: dataDir,
		logger:  logger,
		metrics: metrics,
		series:  make(map[string]*series),
		sorted:  sorted,
	}

	if err := s.loadExisting(); err != nil {
		return nil, err
	}

	logger.Info("metric store opened at %s (%d series)", dataDir, len(s.series))
	return s, nil
}

// Append records one point. Duplicate timestamps are retained as distinct
// points; the store never overwrites. Callers needing idempotence must
// dedupe upstream.
func (s *Store) Append(id models.SeriesID, point models.MetricPoint) error {
	key := id.Key()

	s.mu.RLock()
	ser, ok := s.series[key]
	s.mu.RUnlock()

	if !ok {
		var err error
		ser, err = s.createSeries(id, key)
		if err != nil {
			return err
		}
	}

	ser.mu.Lock()
	defer ser.mu.Unlock()

	if err := ser.file.appendPoint(point); err != nil {
		return err
	}
	ser.points = append(ser.points, point)

	s.sorted.Remove(key)
	if s.metrics != nil {
		s.metrics.AppendsTotal.Inc()
	}
	return nil
}

// createSeries registers a new series and opens its backing file. A racing
// append to the same key returns the winner's series.
func (s *Store) createSeries(id models.SeriesID, key string) (*series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.series[key]; ok {
		return existing, nil
	}

	file, err := createSeriesFile(s.dataDir, id)
	if err != nil {
		return nil, err
	}

	ser := &series{id: id, file: file}
	s.series[key] = ser
	if s.metrics != nil {
		s.metrics.SeriesGauge.Inc()
	}
	s.logger.Debug("created series %s", key)
	return ser, nil
}

// Query returns the points of a series inside the half-open time range,
// sorted ascending by timestamp regardless of insertion order. A series
// that was never written yields UnknownSeriesError; a written series with
// no points in range yields an empty slice.
func (s *Store) Query(ctx context.Context, id models.SeriesID, tr models.TimeRange) ([]models.MetricPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := id.Key()

	s.mu.RLock()
	ser, ok := s.series[key]
	s.mu.RUnlock()

	if !ok {
		return nil, models.NewUnknownSeriesError(key)
	}

	all := s.sortedPoints(key, ser)
	if s.metrics != nil {
		s.metrics.QueriesTotal.Inc()
	}

	// Binary-search the window bounds on the sorted copy.
	lo := sort.Search(len(all), func(i int) bool {
		return !all[i].Timestamp.Before(tr.Start)
	})
	hi := len(all)
	if !tr.End.IsZero() {
		hi = sort.Search(len(all), func(i int) bool {
			return !all[i].Timestamp.Before(tr.End)
		})
	}
	if lo >= hi {
		return []models.MetricPoint{}, nil
	}

	out := make([]models.MetricPoint, hi-lo)
	copy(out, all[lo:hi])
	return out, nil
}

// sortedPoints returns an ascending snapshot of a series' points, serving
// from the cache when the series has not changed since the last query.
func (s *Store) sortedPoints(key string, ser *series) []models.MetricPoint {
	if cached, ok := s.sorted.Get(key); ok {
		return cached
	}

	ser.mu.Lock()
	defer ser.mu.Unlock()

	snapshot := make([]models.MetricPoint, len(ser.points))
	copy(snapshot, ser.points)

	// Stable keeps duplicate timestamps in append order.
	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].Timestamp.Before(snapshot[j].Timestamp)
	})

	// Install while still holding the series lock. Append invalidates under
	// the same lock, so a concurrent write cannot land between the copy and
	// the cache write and leave a stale snapshot installed.
	s.sorted.Add(key, snapshot)
	return snapshot
}

// Series returns the identifiers of all known series.
func (s *Store) Series() []models.SeriesID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]models.SeriesID, 0, len(s.series))
	for _, ser := range s.series {
		ids = append(ids, ser.id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Key() < ids[j].Key() })
	return ids
}

// SeriesSummary describes one series for reporting purposes.
type SeriesSummary struct {
	ID         models.SeriesID     `json:"series"`
	PointCount int                 `json:"point_count"`
	Latest     *models.MetricPoint `json:"latest,omitempty"`
}

// Summarize returns per-series point counts and latest values.
func (s *Store) Summarize() []SeriesSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]SeriesSummary, 0, len(s.series))
	for key, ser := range s.series {
		sorted := s.sortedPoints(key, ser)
		summary := SeriesSummary{ID: ser.id, PointCount: len(sorted)}
		if len(sorted) > 0 {
			latest := sorted[len(sorted)-1]
			summary.Latest = &latest
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID.Key() < summaries[j].ID.Key() })
	return summaries
}

// Close flushes and closes all series files.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, ser := range s.series {
		ser.mu.Lock()
		if err := ser.file.close(); err != nil && firstErr == nil {
			firstErr = err
		}
		ser.mu.Unlock()
	}
	s.logger.Info("metric store closed")
	return firstErr
}
