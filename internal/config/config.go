// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for simulation, server and client settings.
//
// Values come from defaults, then an optional YAML file, then ARENA_ prefixed
// environment variables (ARENA_SERVER_PORT overrides server.port).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "ARENA"

// FileEnv names the variable holding the optional YAML config path.
const FileEnv = "ARENA_CONFIG"

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds session and tick settings.
type SimConfig struct {
	TickRate       int     `mapstructure:"tick_rate"`       // Ticks per second
	ArenaSize      float64 `mapstructure:"arena_size"`      // Side of the square arena
	InitialEnemies int     `mapstructure:"initial_enemies"` // Enemies spawned on StartGame
	Seed           int64   `mapstructure:"seed"`            // 0 = time based
	EventLogPath   string  `mapstructure:"event_log_path"`  // JSONL session journal, empty disables
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP/relay server settings.
type ServerConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

// Addr returns the "host:port" listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// =============================================================================
// RELAY CONFIGURATION
// =============================================================================

// RelayConfig holds multiplayer relay client settings. An empty URL plays
// offline.
type RelayConfig struct {
	URL            string        `mapstructure:"url"`
	Name           string        `mapstructure:"name"`             // Leaderboard name, empty uses the connection id
	SendQueue      int           `mapstructure:"send_queue"`       // Outbound messages buffered before dropping
	MovesPerSecond float64       `mapstructure:"moves_per_second"` // Server side movement rate limit per connection
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
}

// =============================================================================
// IPC CONFIGURATION
// =============================================================================

// IPCConfig holds snapshot streaming settings for spectators.
type IPCConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	SocketPath string `mapstructure:"socket_path"`
}

// =============================================================================
// STORAGE CONFIGURATION
// =============================================================================

// StorageConfig holds score persistence settings.
type StorageConfig struct {
	Path string `mapstructure:"path"` // sqlite file, ":memory:" for tests
}

// =============================================================================
// LOGGING CONFIGURATION
// =============================================================================

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
	File   string `mapstructure:"file"`   // empty logs to stderr
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// LimitsConfig controls DoS protection and performance limits.
type LimitsConfig struct {
	MaxEnemies       int `mapstructure:"max_enemies"`
	MaxEffects       int `mapstructure:"max_effects"`
	MaxRemotePlayers int `mapstructure:"max_remote_players"`
	MaxConnections   int `mapstructure:"max_connections"` // Relay websocket connections
}

// =============================================================================
// AUDIO CONFIGURATION
// =============================================================================

// AudioConfig holds sound cue settings.
type AudioConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate int     `mapstructure:"sample_rate"` // Hz
	Volume     float64 `mapstructure:"volume"`      // 0.0 to 1.0
}

// =============================================================================
// SPECTATOR CONFIGURATION
// =============================================================================

// MinimapConfig holds spectator minimap settings.
type MinimapConfig struct {
	Size      int           `mapstructure:"size"` // Square image side in pixels
	Interval  time.Duration `mapstructure:"interval"`
	OutputDir string        `mapstructure:"output_dir"`
}

// =============================================================================
// DEBUG CONFIGURATION
// =============================================================================

// DebugConfig holds the pprof/metrics listener.
type DebugConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"` // must stay on localhost
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// Config holds the complete application configuration.
type Config struct {
	Sim     SimConfig     `mapstructure:"sim"`
	Server  ServerConfig  `mapstructure:"server"`
	Relay   RelayConfig   `mapstructure:"relay"`
	IPC     IPCConfig     `mapstructure:"ipc"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Limits  LimitsConfig  `mapstructure:"limits"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Minimap MinimapConfig `mapstructure:"minimap"`
	Debug   DebugConfig   `mapstructure:"debug"`
}

// Load reads defaults, the YAML file at path (skipped when path is empty) and
// environment overrides, then validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadProcess is the startup path shared by the binaries: .env files from
// the parent and current directory, then Load with the file named by
// ARENA_CONFIG.
func LoadProcess() (Config, error) {
	if err := LoadEnvFiles("../.env", ".env"); err != nil {
		return Config{}, err
	}
	return Load(os.Getenv(FileEnv))
}

// LoadFromViper builds a Config from an already-configured Viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration without reading files or the
// environment.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode
	_ = v.Unmarshal(&cfg)
	return cfg
}

// LoadEnvFiles loads .env style files into the process environment. Missing
// files are skipped; variables already set are left alone.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sim.tick_rate", 60)
	v.SetDefault("sim.arena_size", 150.0)
	v.SetDefault("sim.initial_enemies", 5)
	v.SetDefault("sim.seed", 0)
	v.SetDefault("sim.event_log_path", "")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.read_timeout", "15s")

	v.SetDefault("relay.url", "")
	v.SetDefault("relay.name", "")
	v.SetDefault("relay.send_queue", 64)
	v.SetDefault("relay.moves_per_second", 60.0)
	v.SetDefault("relay.dial_timeout", "5s")

	v.SetDefault("ipc.enabled", false)
	v.SetDefault("ipc.socket_path", "/tmp/arena-fps.sock")

	v.SetDefault("storage.path", "arena-scores.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")

	v.SetDefault("limits.max_enemies", 64)
	v.SetDefault("limits.max_effects", 256)
	v.SetDefault("limits.max_remote_players", 32)
	v.SetDefault("limits.max_connections", 100)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.volume", 0.3)

	v.SetDefault("minimap.size", 512)
	v.SetDefault("minimap.interval", "1s")
	v.SetDefault("minimap.output_dir", "minimap")

	v.SetDefault("debug.enabled", false)
	v.SetDefault("debug.addr", "127.0.0.1:6060")
}
