package config

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ovnsight/ovnsight/internal/models"
)

// fileConfig is the YAML schema of the configuration file. Durations are
// strings in Go duration syntax ("168h", "30m").
type fileConfig struct {
	DataDir    string          `yaml:"data_dir"`
	LogLevel   string          `yaml:"log_level"`
	Retention  fileRetention   `yaml:"retention"`
	Analysis   fileAnalysis    `yaml:"analysis"`
	Thresholds []fileThreshold `yaml:"thresholds"`
}

type fileRetention struct {
	MaxAge    string `yaml:"max_age"`
	MaxPoints int    `yaml:"max_points"`
}

type fileAnalysis struct {
	ConsistencyMinScore  float64 `yaml:"consistency_min_score"`
	TrendEpsilon         float64 `yaml:"trend_epsilon"`
	SnapshotHistoryDepth int     `yaml:"snapshot_history_depth"`
}

type fileThreshold struct {
	Metric     string  `yaml:"metric"`
	Comparator string  `yaml:"comparator"`
	Bound      float64 `yaml:"bound"`
}

// Load reads and validates a configuration file using koanf. Unset optional
// keys fall back to documented defaults; only genuinely invalid values fail.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config from %q: %w", path, err)
	}

	var fc fileConfig
	if err := k.UnmarshalWithConf("", &fc, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("failed to parse config from %q: %w", path, err)
	}

	cfg, err := fc.toConfig()
	if err != nil {
		return nil, fmt.Errorf("config validation failed for %q: %w", path, err)
	}
	return cfg, nil
}

func (fc *fileConfig) toConfig() (*Config, error) {
	cfg := &Config{
		DataDir:  fc.DataDir,
		LogLevel: fc.LogLevel,
		Analysis: Analysis{
			RetentionMaxPoints:   fc.Retention.MaxPoints,
			ConsistencyMinScore:  fc.Analysis.ConsistencyMinScore,
			TrendEpsilon:         fc.Analysis.TrendEpsilon,
			SnapshotHistoryDepth: fc.Analysis.SnapshotHistoryDepth,
		},
	}

	if fc.Retention.MaxAge != "" {
		maxAge, err := time.ParseDuration(fc.Retention.MaxAge)
		if err != nil {
			return nil, models.NewConfigurationError("invalid retention.max_age %q: %v", fc.Retention.MaxAge, err)
		}
		cfg.Analysis.RetentionMaxAge = maxAge
	}

	for i, ft := range fc.Thresholds {
		cmp, err := models.ParseComparator(ft.Comparator)
		if err != nil {
			return nil, models.NewConfigurationError("threshold[%d]: %v", i, err)
		}
		cfg.Analysis.Thresholds = append(cfg.Analysis.Thresholds, models.Threshold{
			Metric:     ft.Metric,
			Comparator: cmp,
			Bound:      ft.Bound,
		})
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
