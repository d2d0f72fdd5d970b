package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ovnsight/ovnsight/internal/config"
	"github.com/ovnsight/ovnsight/internal/logging"
)

const Version = "0.1.0"

var (
	logLevelFlag string
	configPath   string
	dataDir      string
)

var rootCmd = &cobra.Command{
	Use:   "ovnsight",
	Short: "OVNsight - OVN rule consistency and performance trend analysis",
	Long: `OVNsight compares EgressIP-related OVN rule state (SNAT, logical router
policies) across cluster nodes, stores performance metrics as time series,
and detects trends, threshold breaches, and likely bottlenecks.`,
	Version: Version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", getEnv("LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", getEnv("OVNSIGHT_CONFIG", ""),
		"Path to YAML configuration file (optional)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", getEnv("OVNSIGHT_DATA_DIR", "./data"),
		"Directory where metric series are persisted (overridden by config file)")

	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(sweepCmd)
}

// HandleError prints error and exits
func HandleError(err error, msg string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
		os.Exit(1)
	}
}

// loadConfig builds the effective configuration from the config file when
// given, otherwise from flags and defaults.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	cfg := &config.Config{
		DataDir:  dataDir,
		LogLevel: logLevelFlag,
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLog(cfg *config.Config) {
	level := cfg.LogLevel
	// An explicit flag wins over the config file.
	if rootCmd.PersistentFlags().Changed("log-level") {
		level = logLevelFlag
	}
	logging.Initialize(level)
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
