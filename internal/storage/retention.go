package storage

import (
	"sort"
	"time"

	"github.com/ovnsight/ovnsight/internal/models"
)

// RetentionPolicy bounds how much history a series keeps. Zero values
// disable the corresponding limit.
type RetentionPolicy struct {
	// MaxAge removes points older than now-MaxAge.
	MaxAge time.Duration

	// MaxPoints caps the number of points per series, keeping the newest.
	MaxPoints int
}

// Retain applies the policy to every series independently and returns the
// total number of points removed. Series files are rewritten atomically, so
// a crash mid-sweep leaves either the old or the new contents.
func (s *Store) Retain(policy RetentionPolicy) (int, error) {
	if policy.MaxAge <= 0 && policy.MaxPoints <= 0 {
		return 0, nil
	}

	s.mu.RLock()
	targets := make([]*series, 0, len(s.series))
	for _, ser := range s.series {
		targets = append(targets, ser)
	}
	s.mu.RUnlock()

	var cutoff time.Time
	if policy.MaxAge > 0 {
		cutoff = time.Now().Add(-policy.MaxAge)
	}

	removed := 0
	for _, ser := range targets {
		n, err := s.retainSeries(ser, cutoff, policy.MaxPoints)
		if err != nil {
			return removed, err
		}
		removed += n
	}

	if removed > 0 {
		s.logger.Info("retention sweep removed %d points", removed)
		if s.metrics != nil {
			s.metrics.PurgedTotal.Add(float64(removed))
		}
	}
	return removed, nil
}

func (s *Store) retainSeries(ser *series, cutoff time.Time, maxPoints int) (int, error) {
	ser.mu.Lock()
	defer ser.mu.Unlock()

	kept := ser.points
	if !cutoff.IsZero() {
		filtered := kept[:0:0]
		for _, p := range kept {
			if !p.Timestamp.Before(cutoff) {
				filtered = append(filtered, p)
			}
		}
		kept = filtered
	}

	if maxPoints > 0 && len(kept) > maxPoints {
		// Keep the newest maxPoints, preserving append order among them.
		ordered := make([]models.MetricPoint, len(kept))
		copy(ordered, kept)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Timestamp.Before(ordered[j].Timestamp)
		})
		oldest := ordered[:len(ordered)-maxPoints]
		drop := make(map[time.Time]int, len(oldest))
		for _, p := range oldest {
			drop[p.Timestamp]++
		}
		trimmed := kept[:0:0]
		for _, p := range kept {
			if n := drop[p.Timestamp]; n > 0 {
				drop[p.Timestamp] = n - 1
				continue
			}
			trimmed = append(trimmed, p)
		}
		kept = trimmed
	}

	removed := len(ser.points) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err := ser.file.rewrite(ser.id, kept); err != nil {
		return 0, err
	}
	ser.points = kept
	s.sorted.Remove(ser.id.Key())
	return removed, nil
}
