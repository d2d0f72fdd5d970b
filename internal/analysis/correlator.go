package analysis

import (
	"fmt"
	"time"

	"github.com/ovnsight/ovnsight/internal/models"
)

// Correlate joins a consistency report with trend results and surfaces
// bottleneck candidates. A candidate is emitted only when a trend breached
// a threshold AND the consistency score is below minScore AND both were
// evaluated within window of each other. Confidence is high when both fall
// within the narrower half of the window, else low.
//
// This is a deliberately simple rule-based correlator: it surfaces
// candidates for review and never asserts causation.
func Correlate(consistency *models.ConsistencyReport, trends []models.TrendResult, window time.Duration, minScore float64) []models.Candidate {
	if consistency == nil || consistency.Score >= minScore {
		return nil
	}

	var candidates []models.Candidate
	for _, trend := range trends {
		if trend.BreachedThreshold == nil {
			continue
		}

		gap := trend.EvaluatedAt.Sub(consistency.EvaluatedAt)
		if gap < 0 {
			gap = -gap
		}
		if gap > window {
			continue
		}

		confidence := models.ConfidenceLow
		if gap <= window/2 {
			confidence = models.ConfidenceHigh
		}

		th := trend.BreachedThreshold
		candidates = append(candidates, models.Candidate{
			SignalA: fmt.Sprintf("%s rule consistency score %.2f below minimum %.2f",
				consistency.Kind, consistency.Score, minScore),
			SignalB: fmt.Sprintf("series %s %s with last value breaching %s %s %v",
				trend.SeriesKey, trend.Direction, th.Metric, th.Comparator, th.Bound),
			Confidence: confidence,
		})
	}
	return candidates
}
