package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ovnsight/ovnsight/internal/models"
)

const seriesFileExt = ".series"

// On disk a series is one append-only file: a header line identifying the
// series followed by one JSON line per point. The layout is private; the
// only portability contract is that Open reads back what Append wrote.

type headerRecord struct {
	Series models.SeriesID `json:"series"`
}

type pointRecord struct {
	Timestamp time.Time `json:"ts"`
	Value     float64   `json:"v"`
}

// seriesFile is the persistent backing of one series.
type seriesFile struct {
	path string
	w    *os.File
}

// seriesFilePath builds a filesystem-safe path from a series key.
func seriesFilePath(dataDir, key string) string {
	return filepath.Join(dataDir, url.QueryEscape(key)+seriesFileExt)
}

// createSeriesFile opens (or creates) the backing file for a series and
// writes the header when the file is new.
func createSeriesFile(dataDir string, id models.SeriesID) (*seriesFile, error) {
	path := seriesFilePath(dataDir, id.Key())

	info, statErr := os.Stat(path)
	isNew := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open series file %s: %w", path, err)
	}

	sf := &seriesFile{path: path, w: f}
	if isNew {
		if err := sf.writeJSONLine(headerRecord{Series: id}); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return sf, nil
}

func (sf *seriesFile) writeJSONLine(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := sf.w.Write(data); err != nil {
		return fmt.Errorf("failed to write series file %s: %w", sf.path, err)
	}
	return nil
}

func (sf *seriesFile) appendPoint(p models.MetricPoint) error {
	return sf.writeJSONLine(pointRecord{Timestamp: p.Timestamp, Value: p.Value})
}

func (sf *seriesFile) close() error {
	if sf.w == nil {
		return nil
	}
	err := sf.w.Close()
	sf.w = nil
	return err
}

// rewrite atomically replaces the file contents with the given points. Used
// by retention sweeps.
func (sf *seriesFile) rewrite(id models.SeriesID, points []models.MetricPoint) error {
	tmpPath := sf.path + ".tmp"
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temp series file: %w", err)
	}

	replacement := &seriesFile{path: tmpPath, w: tmp}
	if err := replacement.writeJSONLine(headerRecord{Series: id}); err != nil {
		_ = tmp.Close()
		return err
	}
	for _, p := range points {
		if err := replacement.appendPoint(p); err != nil {
			_ = tmp.Close()
			return err
		}
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, sf.path); err != nil {
		return fmt.Errorf("failed to replace series file: %w", err)
	}

	// Reopen the append handle against the new inode.
	if sf.w != nil {
		_ = sf.w.Close()
	}
	f, err := os.OpenFile(sf.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to reopen series file %s: %w", sf.path, err)
	}
	sf.w = f
	return nil
}

// loadExisting scans the data directory and restores all persisted series.
func (s *Store) loadExisting() error {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return fmt.Errorf("failed to read data directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), seriesFileExt) {
			continue
		}
		path := filepath.Join(s.dataDir, entry.Name())
		if err := s.loadSeriesFile(path); err != nil {
			// A corrupt file should not keep the store from opening.
			s.logger.Error("skipping unreadable series file %s: %v", path, err)
		}
	}
	return nil
}

func (s *Store) loadSeriesFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return fmt.Errorf("missing header line")
	}
	var header headerRecord
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
		return fmt.Errorf("invalid header: %w", err)
	}

	var points []models.MetricPoint
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec pointRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("invalid point record: %w", err)
		}
		points = append(points, models.MetricPoint{Timestamp: rec.Timestamp, Value: rec.Value})
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	w, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	key := header.Series.Key()
	s.series[key] = &series{
		id:     header.Series,
		points: points,
		file:   &seriesFile{path: path, w: w},
	}
	if s.metrics != nil {
		s.metrics.SeriesGauge.Inc()
	}
	return nil
}
