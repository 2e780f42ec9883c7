// =============================================================================
// ARENA FPS - RELAY SERVER
// =============================================================================
// Hosts the multiplayer relay and the read-only HTTP API:
// - /ws and /socket.io/ websocket relay with a live leaderboard
// - /api/state, /api/leaderboard, /api/scores, /api/stats, /health
// - Best scores persisted to sqlite
//
// USAGE:
//   go run ./cmd/server
//   ARENA_SERVER_PORT=4000 ARENA_STORAGE_PATH=/var/lib/arena/scores.db go run ./cmd/server
// =============================================================================
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"arena-fps/internal/api"
	"arena-fps/internal/config"
	"arena-fps/internal/observability"
	"arena-fps/internal/relay"
	"arena-fps/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadProcess()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("🎮 Arena relay server",
		zap.String("addr", cfg.Server.Addr()),
		zap.Strings("cors", cfg.Server.CORSOrigins),
		zap.Int("max_connections", cfg.Limits.MaxConnections))

	scores, err := storage.Open(cfg.Storage.Path, logger)
	if err != nil {
		return fmt.Errorf("opening score store: %w", err)
	}
	defer scores.Close()

	if _, err := observability.StartDebugServer(cfg.Debug, logger); err != nil {
		logger.Warn("⚠️ Debug server disabled", zap.Error(err))
	}

	hubCfg := relay.DefaultHubConfig()
	hubCfg.MaxConnections = cfg.Limits.MaxConnections
	hubCfg.SendQueue = cfg.Relay.SendQueue
	hubCfg.MovesPerSecond = cfg.Relay.MovesPerSecond
	hubCfg.Store = scores
	hubCfg.Logger = logger
	hubCfg.CheckOrigin = api.OriginChecker(cfg.Server.CORSOrigins)
	hub := relay.NewHub(hubCfg)

	server := api.NewServer(api.ServerConfig{
		Hub:         hub,
		Scores:      scores,
		CORSOrigins: cfg.Server.CORSOrigins,
		ReadTimeout: cfg.Server.ReadTimeout,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("✅ Server ready! Press Ctrl+C to stop.")
	if err := server.ListenAndServe(ctx, cfg.Server.Addr()); err != nil {
		return err
	}
	logger.Info("👋 Goodbye!")
	return nil
}
