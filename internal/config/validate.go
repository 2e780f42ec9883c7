package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate checks all configuration invariants and reports every violation
// in one error.
func (c Config) Validate() error {
	var errs []string
	for _, check := range []func() []string{
		c.Sim.validate,
		c.Server.validate,
		c.Relay.validate,
		c.IPC.validate,
		c.Storage.validate,
		c.Logging.validate,
		c.Limits.validate,
		c.Audio.validate,
		c.Minimap.validate,
		c.Debug.validate,
	} {
		errs = append(errs, check()...)
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (s SimConfig) validate() []string {
	var errs []string
	if s.TickRate < 1 || s.TickRate > 240 {
		errs = append(errs, fmt.Sprintf("sim.tick_rate must be 1-240, got %d", s.TickRate))
	}
	if s.ArenaSize <= 0 {
		errs = append(errs, fmt.Sprintf("sim.arena_size must be positive, got %v", s.ArenaSize))
	}
	if s.InitialEnemies < 0 {
		errs = append(errs, fmt.Sprintf("sim.initial_enemies must be >= 0, got %d", s.InitialEnemies))
	}
	return errs
}

func (s ServerConfig) validate() []string {
	var errs []string
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", s.Port))
	}
	if s.ReadTimeout < 0 {
		errs = append(errs, "server.read_timeout must not be negative")
	}
	return errs
}

func (r RelayConfig) validate() []string {
	var errs []string
	if r.URL != "" && !strings.HasPrefix(r.URL, "ws://") && !strings.HasPrefix(r.URL, "wss://") {
		errs = append(errs, fmt.Sprintf("relay.url must be a ws:// or wss:// URL, got %q", r.URL))
	}
	if r.SendQueue < 1 {
		errs = append(errs, fmt.Sprintf("relay.send_queue must be >= 1, got %d", r.SendQueue))
	}
	if r.MovesPerSecond <= 0 {
		errs = append(errs, fmt.Sprintf("relay.moves_per_second must be positive, got %v", r.MovesPerSecond))
	}
	return errs
}

func (i IPCConfig) validate() []string {
	if i.Enabled && i.SocketPath == "" {
		return []string{"ipc.socket_path must not be empty when ipc is enabled"}
	}
	return nil
}

func (s StorageConfig) validate() []string {
	if s.Path == "" {
		return []string{"storage.path must not be empty"}
	}
	return nil
}

func (l LoggingConfig) validate() []string {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	return errs
}

func (l LimitsConfig) validate() []string {
	var errs []string
	if l.MaxEnemies < 1 {
		errs = append(errs, fmt.Sprintf("limits.max_enemies must be >= 1, got %d", l.MaxEnemies))
	}
	if l.MaxEffects < 1 {
		errs = append(errs, fmt.Sprintf("limits.max_effects must be >= 1, got %d", l.MaxEffects))
	}
	if l.MaxRemotePlayers < 0 {
		errs = append(errs, fmt.Sprintf("limits.max_remote_players must be >= 0, got %d", l.MaxRemotePlayers))
	}
	if l.MaxConnections < 1 {
		errs = append(errs, fmt.Sprintf("limits.max_connections must be >= 1, got %d", l.MaxConnections))
	}
	return errs
}

func (a AudioConfig) validate() []string {
	var errs []string
	if a.Volume < 0 || a.Volume > 1 {
		errs = append(errs, fmt.Sprintf("audio.volume must be 0-1, got %v", a.Volume))
	}
	if a.Enabled && a.SampleRate < 8000 {
		errs = append(errs, fmt.Sprintf("audio.sample_rate must be >= 8000, got %d", a.SampleRate))
	}
	return errs
}

func (m MinimapConfig) validate() []string {
	var errs []string
	if m.Size < 64 || m.Size > 4096 {
		errs = append(errs, fmt.Sprintf("minimap.size must be 64-4096, got %d", m.Size))
	}
	if m.Interval <= 0 {
		errs = append(errs, "minimap.interval must be positive")
	}
	return errs
}

// validate keeps the debug listener off public interfaces: it serves pprof.
func (d DebugConfig) validate() []string {
	if !d.Enabled {
		return nil
	}
	host, _, err := net.SplitHostPort(d.Addr)
	if err != nil {
		return []string{fmt.Sprintf("debug.addr must be host:port, got %q", d.Addr)}
	}
	if ip := net.ParseIP(host); host != "localhost" && (ip == nil || !ip.IsLoopback()) {
		return []string{fmt.Sprintf("debug.addr must be a loopback address, got %q", d.Addr)}
	}
	return nil
}
