package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ovnsight/ovnsight/internal/config"
	"github.com/ovnsight/ovnsight/internal/logging"
	"github.com/ovnsight/ovnsight/internal/mcp"
	"github.com/ovnsight/ovnsight/internal/orchestrator"
	"github.com/ovnsight/ovnsight/internal/storage"
)

var (
	httpAddr        string
	transportType   string
	mcpEndpointPath string
	sweepInterval   time.Duration
	watchConfig     bool
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server that exposes rule
consistency comparison, trend analysis, and bottleneck detection as MCP
tools for AI assistants.

Supports two transport modes:
  - http: HTTP server mode (default, suitable for independent deployment)
  - stdio: Standard input/output mode (for subprocess-based MCP clients)

HTTP mode includes /health and /metrics endpoints.`,
	Run: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&httpAddr, "http-addr", getEnv("MCP_HTTP_ADDR", ":8082"), "HTTP server address (host:port)")
	mcpCmd.Flags().StringVar(&transportType, "transport", "http", "Transport type: http or stdio")
	mcpCmd.Flags().StringVar(&mcpEndpointPath, "mcp-endpoint", getEnv("MCP_ENDPOINT", "/mcp"), "HTTP endpoint path for MCP requests")
	mcpCmd.Flags().DurationVar(&sweepInterval, "sweep-interval", time.Hour, "Interval between retention sweeps (0 disables)")
	mcpCmd.Flags().BoolVar(&watchConfig, "watch-config", true, "Reload the config file on change (log level only; analysis options need a restart)")
}

func runMCP(cmd *cobra.Command, args []string) {
	// Seed a default config file on first start so operators have a full
	// template to edit.
	seeded := false
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			HandleError(config.WriteDefault(configPath), "Failed to create default config file")
			seeded = true
		}
	}

	cfg, err := loadConfig()
	HandleError(err, "Failed to load configuration")
	setupLog(cfg)

	logger := logging.GetLogger("mcp")
	if seeded {
		logger.Info("Created default config file: %s", configPath)
	}
	logger.Info("Starting OVNsight MCP Server (transport: %s)", transportType)

	registry := prometheus.NewRegistry()
	store, err := storage.OpenWithMetrics(cfg.DataDir, storage.NewMetrics(registry))
	HandleError(err, "Failed to open metric store")
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close metric store: %v", err)
		}
	}()

	orch := orchestrator.New(cfg.Analysis, store).
		WithMetrics(orchestrator.NewMetrics(registry))

	mcpServer := mcp.NewServer(orch, Version).GetMCPServer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal: %v, shutting down gracefully...", sig)
		cancel()
	}()

	if configPath != "" && watchConfig {
		watcher, err := config.NewWatcher(configPath, func(next *config.Config) error {
			// Analysis options are fixed at orchestrator construction, so a
			// reload only applies the log level.
			logging.Initialize(next.LogLevel)
			logger.Info("Configuration reloaded, log level is now %s", next.LogLevel)
			return nil
		})
		HandleError(err, "Failed to create config watcher")
		if err := watcher.Start(ctx); err != nil {
			HandleError(err, "Failed to start config watcher")
		}
		defer watcher.Stop()
	}

	if sweepInterval > 0 {
		go runSweeper(ctx, orch, logger)
	}

	switch transportType {
	case "http":
		endpointPath := mcpEndpointPath
		if endpointPath == "" {
			endpointPath = "/mcp"
		} else if endpointPath[0] != '/' {
			endpointPath = "/" + endpointPath
		}

		logger.Info("Starting HTTP server on %s (endpoint: %s)", httpAddr, endpointPath)

		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

		httpSrv := &http.Server{
			Addr:              httpAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		streamableServer := server.NewStreamableHTTPServer(
			mcpServer,
			server.WithEndpointPath(endpointPath),
			server.WithStateLess(true),
			server.WithStreamableHTTPServer(httpSrv),
		)
		mux.Handle(endpointPath, streamableServer)

		errCh := make(chan error, 1)
		go func() {
			if err := streamableServer.Start(httpAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case <-ctx.Done():
			logger.Info("Shutting down HTTP server...")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()

			if err := streamableServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("Error during shutdown: %v", err)
			}
		case err := <-errCh:
			logger.Error("Server error: %v", err)
			os.Exit(1)
		}

	case "stdio":
		logger.Info("Starting stdio transport")
		if err := server.ServeStdio(mcpServer); err != nil {
			logger.Error("Stdio transport error: %v", err)
		}

	default:
		logger.Fatal("Invalid transport type: %s (must be 'http' or 'stdio')", transportType)
	}

	logger.Info("Server stopped")
}

func runSweeper(ctx context.Context, orch *orchestrator.Orchestrator, logger *logging.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := orch.Sweep()
			if err != nil {
				logger.Error("Retention sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				logger.Info("Retention sweep removed %d points", removed)
			}
		}
	}
}
