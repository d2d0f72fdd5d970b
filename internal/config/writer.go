package config

import (
	"fmt"
	"os"

	goyaml "gopkg.in/yaml.v3"
)

// WriteDefault writes a configuration file populated with the documented
// defaults. Used to seed a config file on first start so operators have a
// complete template to edit.
func WriteDefault(path string) error {
	fc := fileConfig{
		DataDir:  "./data",
		LogLevel: "info",
		Retention: fileRetention{
			MaxAge:    DefaultRetentionMaxAge.String(),
			MaxPoints: DefaultRetentionMaxPoints,
		},
		Analysis: fileAnalysis{
			ConsistencyMinScore:  DefaultConsistencyMinScore,
			TrendEpsilon:         DefaultTrendEpsilon,
			SnapshotHistoryDepth: DefaultSnapshotHistoryDepth,
		},
	}

	data, err := goyaml.Marshal(&fc)
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write default config to %q: %w", path, err)
	}
	return nil
}
