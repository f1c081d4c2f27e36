/*
main.go - HTTP server entry point

PURPOSE:
  Serves the order automation over HTTP. Handles configuration, backend
  selection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and load configuration
  2. Open the configured backend
  3. Seed the demo dataset (memory backend only)
  4. Create API handler and router
  5. Start the leaderboard scheduler when an interval is configured
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  config file (default: ./orders.yaml if present)
  -port    HTTP server port, overrides server.port

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler (waits for a refresh in progress)
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close the backend
  5. Exit

EXAMPLES:
  # Demo data in memory
  ORDERS_BACKEND=memory ./server

  # Live spreadsheet, refresh leaderboards every 15 minutes
  ORDERS_SERVER_REFRESH_INTERVAL=15m ./server -port=3000

ENVIRONMENT:
  See config/config.go. Every setting has an ORDERS_* variable.

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - automation/backend.go: Backend selection
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jfc974-droid/order-management-system/api"
	"github.com/jfc974-droid/order-management-system/automation"
	"github.com/jfc974-droid/order-management-system/config"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "config file")
	port := flag.Int("port", 0, "HTTP server port (overrides server.port)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	zc := zap.NewProductionConfig()
	if cfg.Verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Initialize backend
	ctx := context.Background()
	backend, err := automation.OpenBackend(ctx, cfg, os.Stdin, os.Stdout, logger)
	if err != nil {
		logger.Fatal("failed to open backend", zap.Error(err))
	}
	defer backend.Close()

	// Initialize handler
	handler := api.NewHandler(backend.Runner(cfg, logger), logger)
	handler.AllowScenarios = cfg.Backend != config.BackendGoogle

	if cfg.Backend == config.BackendMemory && cfg.Server.Dataset != "" {
		if err := handler.SeedScenario(ctx, cfg.Server.Dataset); err != nil {
			logger.Warn("failed to seed dataset", zap.String("dataset", cfg.Server.Dataset), zap.Error(err))
		}
	}

	scheduler := api.NewLeaderboardScheduler(handler, cfg.Server.RefreshInterval)
	scheduler.Start()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("backend", cfg.Backend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}
