// Package config holds the externally supplied, already-validated
// configuration the analytical core consumes. The core treats unset options
// as "use documented default" and never fails on missing optional keys.
package config

import (
	"time"

	"github.com/ovnsight/ovnsight/internal/models"
)

// Defaults applied by ApplyDefaults for unset options.
const (
	DefaultRetentionMaxAge      = 7 * 24 * time.Hour
	DefaultRetentionMaxPoints   = 10000
	DefaultConsistencyMinScore  = 0.8
	DefaultTrendEpsilon         = 0.01
	DefaultSnapshotHistoryDepth = 16
)

// Config is the full application configuration: the analysis options the
// core consumes plus the glue-level settings (data directory, log level).
// It is immutable for the lifetime of the components constructed from it;
// reconfiguration means constructing a new orchestrator.
type Config struct {
	// DataDir is the directory where metric series are persisted.
	DataDir string

	// LogLevel is the logging level (debug, info, warn, error).
	LogLevel string

	Analysis Analysis
}

// Analysis holds the options recognized by the analytical core.
type Analysis struct {
	// RetentionMaxAge is the maximum age of a stored metric point before a
	// retention sweep removes it. Zero means use the default.
	RetentionMaxAge time.Duration

	// RetentionMaxPoints caps the number of points kept per series. Zero
	// means use the default.
	RetentionMaxPoints int

	// ConsistencyMinScore is the score below which a consistency report
	// counts as a regression for bottleneck correlation.
	ConsistencyMinScore float64

	// TrendEpsilon is the relative tolerance under which a slope counts as
	// flat, expressed as a fraction of the series' observed value range.
	TrendEpsilon float64

	// SnapshotHistoryDepth is how many snapshots per (kind, node) are kept
	// for stability assessment.
	SnapshotHistoryDepth int

	// Thresholds are evaluated in order against the most recent point of a
	// queried series; the first breach wins.
	Thresholds []models.Threshold
}

// ApplyDefaults fills unset optional fields with their documented defaults.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Analysis.RetentionMaxAge <= 0 {
		c.Analysis.RetentionMaxAge = DefaultRetentionMaxAge
	}
	if c.Analysis.RetentionMaxPoints <= 0 {
		c.Analysis.RetentionMaxPoints = DefaultRetentionMaxPoints
	}
	if c.Analysis.ConsistencyMinScore <= 0 {
		c.Analysis.ConsistencyMinScore = DefaultConsistencyMinScore
	}
	if c.Analysis.TrendEpsilon <= 0 {
		c.Analysis.TrendEpsilon = DefaultTrendEpsilon
	}
	if c.Analysis.SnapshotHistoryDepth <= 0 {
		c.Analysis.SnapshotHistoryDepth = DefaultSnapshotHistoryDepth
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return models.NewConfigurationError("DataDir must not be empty")
	}
	if c.Analysis.ConsistencyMinScore < 0 || c.Analysis.ConsistencyMinScore > 1 {
		return models.NewConfigurationError("ConsistencyMinScore must be in [0, 1], got %v", c.Analysis.ConsistencyMinScore)
	}
	if c.Analysis.TrendEpsilon < 0 {
		return models.NewConfigurationError("TrendEpsilon must not be negative, got %v", c.Analysis.TrendEpsilon)
	}
	for i, th := range c.Analysis.Thresholds {
		if err := th.Validate(); err != nil {
			return models.NewConfigurationError("threshold[%d]: %v", i, err)
		}
	}
	return nil
}
