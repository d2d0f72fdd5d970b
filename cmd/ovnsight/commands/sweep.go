package commands

import (
	"github.com/spf13/cobra"

	"github.com/ovnsight/ovnsight/internal/logging"
	"github.com/ovnsight/ovnsight/internal/orchestrator"
	"github.com/ovnsight/ovnsight/internal/storage"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Apply the retention policy to the metric store once and exit",
	Run:   runSweep,
}

func runSweep(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	HandleError(err, "Failed to load configuration")
	setupLog(cfg)

	logger := logging.GetLogger("sweep")

	store, err := storage.Open(cfg.DataDir)
	HandleError(err, "Failed to open metric store")
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close metric store: %v", err)
		}
	}()

	removed, err := orchestrator.New(cfg.Analysis, store).Sweep()
	HandleError(err, "Retention sweep failed")
	logger.Info("Retention sweep removed %d points across %d series", removed, len(store.Series()))
}
