// =============================================================================
// ARENA FPS - TERMINAL CLIENT
// =============================================================================
// Runs one first-person arena session in the terminal:
// - Simulation engine with the military base map
// - Optional multiplayer relay (relay.url)
// - Optional snapshot streaming to spectators over IPC (ipc.enabled)
// - Tone cues on the default audio device (audio.enabled)
//
// USAGE:
//   go run ./cmd/arena
//   ARENA_RELAY_URL=ws://localhost:3000/ws ARENA_RELAY_NAME=alice go run ./cmd/arena
// =============================================================================
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"arena-fps/internal/config"
	"arena-fps/internal/game"
	"arena-fps/internal/ipc"
	"arena-fps/internal/mapgen"
	"arena-fps/internal/observability"
	"arena-fps/internal/relay"
	"arena-fps/internal/sfx"
	"arena-fps/internal/tui"
)

const (
	frameInterval = 33 * time.Millisecond
	statsInterval = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "arena: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadProcess()
	if err != nil {
		return err
	}
	// The terminal belongs to the game; logs go to a file.
	if cfg.Logging.File == "" {
		cfg.Logging.File = "arena.log"
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	obstacles := mapgen.Arena(rand.New(rand.NewSource(seed)))

	engine := game.NewEngine(engineConfig(cfg, seed, obstacles, logger))
	observability.InstrumentEngine(engine)

	if _, err := observability.StartDebugServer(cfg.Debug, logger); err != nil {
		logger.Warn("⚠️ Debug server disabled", zap.Error(err))
	}

	if cfg.Sim.EventLogPath != "" {
		if err := engine.StartEventLog(cfg.Sim.EventLogPath); err != nil {
			logger.Warn("⚠️ Event log disabled", zap.Error(err))
		} else {
			logger.Info("📝 Event log", zap.String("path", cfg.Sim.EventLogPath))
			defer engine.StopEventLog()
		}
	}

	if cfg.Audio.Enabled {
		mixer := sfx.NewMixer(cfg.Audio.SampleRate, cfg.Audio.Volume, logger)
		if sfx.StartSpeaker(mixer, logger) {
			engine.OnEvent(mixer.HandleEvent)
			defer sfx.StopSpeaker()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var client *relay.Client
	if cfg.Relay.URL != "" {
		client, err = relay.Dial(ctx, relay.ClientConfig{
			URL:         cfg.Relay.URL,
			Name:        cfg.Relay.Name,
			SendQueue:   cfg.Relay.SendQueue,
			DialTimeout: cfg.Relay.DialTimeout,
			Logger:      logger,
		}, engine)
		if err != nil {
			logger.Warn("⚠️ Relay unavailable, playing offline", zap.Error(err))
		} else {
			engine.OnEvent(client.HandleEvent)
			defer client.Close()
		}
	}

	if cfg.IPC.Enabled {
		pub := ipc.NewPublisher(cfg.IPC.SocketPath, logger)
		pub.SetArena(obstacles)
		if err := pub.Start(); err != nil {
			logger.Warn("⚠️ Spectator stream disabled", zap.Error(err))
		} else {
			engine.OnTick(func(time.Duration, int) {
				snap := engine.GetSnapshot()
				pub.PublishSnapshot(&snap)
			})
			defer pub.Stop()
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	view := tui.NewView(screen, obstacles, cfg.Sim.ArenaSize)
	controller := tui.NewController(engine, view)

	engine.Start()
	defer engine.Stop()

	var relayDone <-chan struct{}
	if client != nil {
		relayDone = client.Done()
	}
	loop(screen, engine, view, controller, relayDone, logger)
	return nil
}

// loop polls terminal input on its own goroutine and redraws at a fixed
// frame rate until the user quits.
func loop(screen tcell.Screen, engine *game.Engine, view *tui.View, controller *tui.Controller, relayDone <-chan struct{}, logger *zap.Logger) {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	frames := time.NewTicker(frameInterval)
	defer frames.Stop()
	stats := time.NewTicker(statsInterval)
	defer stats.Stop()

	for {
		select {
		case ev := <-events:
			if _, ok := ev.(*tcell.EventResize); ok {
				screen.Sync()
				continue
			}
			if !controller.HandleEvent(ev) {
				logger.Info("👋 Quit requested")
				return
			}
		case <-frames.C:
			controller.ReleaseExpired()
			view.Draw(engine.GetSnapshot())
		case <-stats.C:
			observability.UpdateEventLogStats(engine.EventLogStats())
		case <-relayDone:
			view.SetStatus(" relay disconnected, playing offline")
			relayDone = nil
		}
	}
}

func engineConfig(cfg config.Config, seed int64, obstacles []game.Obstacle, logger *zap.Logger) game.EngineConfig {
	ec := game.DefaultEngineConfig()
	ec.TickRate = cfg.Sim.TickRate
	ec.InitialEnemies = cfg.Sim.InitialEnemies
	ec.Seed = seed
	ec.Limits = game.ResourceLimits{
		MaxEnemies:       cfg.Limits.MaxEnemies,
		MaxEffects:       cfg.Limits.MaxEffects,
		MaxRemotePlayers: cfg.Limits.MaxRemotePlayers,
	}
	ec.Player.ArenaHalf = cfg.Sim.ArenaSize / 2
	ec.Obstacles = obstacles
	ec.Logger = logger
	return ec
}
