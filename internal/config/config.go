package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig `yaml:"server"`
	DB        DBConfig     `yaml:"db"`
	Log       LogConfig    `yaml:"log"`
	Transport string       `yaml:"transport"`
	Auth      AuthConfig   `yaml:"auth"`
	Game      GameConfig   `yaml:"game"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type AuthConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DefaultPlayer string `yaml:"default_player"`
}

// GameConfig holds round timings. Zero durations fall back to defaults.
type GameConfig struct {
	MemorizeDelay time.Duration `yaml:"memorize_delay"`
	ResolveDelay  time.Duration `yaml:"resolve_delay"`
	TickInterval  time.Duration `yaml:"tick_interval"`
	AutoTick      bool          `yaml:"auto_tick"`
	PersistRounds bool          `yaml:"persist_rounds"`
	Seed          uint64        `yaml:"seed"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "pairs.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: "http",
		Auth: AuthConfig{
			Enabled:       true,
			DefaultPlayer: "default",
		},
		Game: GameConfig{
			MemorizeDelay: 3 * time.Second,
			ResolveDelay:  time.Second,
			TickInterval:  time.Second,
			AutoTick:      true,
			PersistRounds: true,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("PAIRS_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("PAIRS_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PAIRS_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid PAIRS_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("PAIRS_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("PAIRS_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if path := os.Getenv("PAIRS_LOG_PATH"); path != "" {
		cfg.Log.Path = path
	}
	if mode := os.Getenv("PAIRS_TRANSPORT"); mode != "" {
		cfg.Transport = mode
	}
	if v := os.Getenv("PAIRS_AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PAIRS_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}
	if v := os.Getenv("PAIRS_AUTO_TICK"); v != "" {
		autoTick, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PAIRS_AUTO_TICK: %w", err)
		}
		cfg.Game.AutoTick = autoTick
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.Transport != "http" && c.Transport != "stdio" {
		return fmt.Errorf("invalid transport %q: must be http or stdio", c.Transport)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Game.MemorizeDelay < 0 || c.Game.ResolveDelay < 0 || c.Game.TickInterval < 0 {
		return fmt.Errorf("game delays must not be negative")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
