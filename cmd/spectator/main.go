// =============================================================================
// ARENA FPS - SPECTATOR
// =============================================================================
// Standalone process that watches a running client over IPC:
// - Receives the obstacle layout and game snapshots from cmd/arena
// - Writes a top-down minimap PNG to minimap.output_dir every minimap.interval
//
// USAGE:
//   1. Start the client with streaming on: ARENA_IPC_ENABLED=true go run ./cmd/arena
//   2. Then start this spectator: go run ./cmd/spectator
// =============================================================================
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"arena-fps/internal/config"
	"arena-fps/internal/game"
	"arena-fps/internal/ipc"
	"arena-fps/internal/minimap"
	"arena-fps/internal/observability"
)

const statsInterval = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "spectator: %v\n", err)
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

	rec, err := minimap.NewRecorder(minimap.NewRenderer(cfg.Minimap.Size, cfg.Sim.ArenaSize), cfg.Minimap.OutputDir)
	if err != nil {
		return err
	}

	sub := ipc.NewSubscriber(cfg.IPC.SocketPath, logger)
	sub.OnConnect(func() { logger.Info("✅ Connected to arena client") })
	sub.OnDisconnect(func() { logger.Warn("⚠️ Disconnected from arena client, retrying") })
	if err := sub.Start(); err != nil {
		return fmt.Errorf("starting IPC subscriber: %w", err)
	}
	defer sub.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("👀 Spectator ready",
		zap.String("socket", cfg.IPC.SocketPath),
		zap.String("output", filepath.Join(cfg.Minimap.OutputDir, minimap.LatestFile)),
		zap.Duration("interval", cfg.Minimap.Interval))

	frames := time.NewTicker(cfg.Minimap.Interval)
	defer frames.Stop()
	stats := time.NewTicker(statsInterval)
	defer stats.Stop()

	var (
		layout    *ipc.ArenaMessage
		obstacles []game.Obstacle
	)
	for {
		select {
		case <-ctx.Done():
			logger.Info("👋 Goodbye!")
			return nil
		case <-frames.C:
			if arena := sub.Arena(); arena != nil && arena != layout {
				layout, obstacles = arena, arena.ToObstacles()
				logger.Info("🗺️ Arena layout received", zap.Int("obstacles", len(obstacles)))
			}
			msg := sub.LatestSnapshot()
			if msg == nil {
				continue
			}
			if _, err := rec.Record(msg.ToGameSnapshot(), obstacles); err != nil {
				logger.Warn("⚠️ Minimap write failed", zap.Error(err))
			}
		case <-stats.C:
			s := sub.Stats()
			logger.Info("📊 IPC stats",
				zap.Int64("snapshots", s.Received),
				zap.Int64("reconnects", s.Reconnects),
				zap.Int64("errors", s.Errors),
				zap.Bool("connected", sub.IsConnected()))
		}
	}
}
