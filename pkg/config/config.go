// Package config loads pairrank settings from TOML.
//
// Settings live in $XDG_CONFIG_HOME/pairrank/config.toml
// (~/.config/pairrank/config.toml when XDG_CONFIG_HOME is unset). Every
// field is optional; a missing default file yields [Default].
//
//	[store]
//	backend = "redis"
//
//	[store.redis]
//	addr = "localhost:6379"
//	ttl = "720h"
//
//	[log]
//	level = "debug"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/pairrank/pkg/errors"
)

const appName = "pairrank"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the complete pairrank configuration.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Log    LogConfig    `toml:"log"`
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
}

// StoreConfig selects and configures the session store.
type StoreConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"` // file backend; empty means the XDG data dir
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string        `toml:"addr"`
	Password string        `toml:"password"`
	DB       int           `toml:"db"`
	Prefix   string        `toml:"prefix"`
	TTL      time.Duration `toml:"ttl"` // zero keeps sessions forever
}

type LogConfig struct {
	Level string `toml:"level"`
}

type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// RenderConfig controls graph rendering and the artifact cache.
type RenderConfig struct {
	Cache    bool          `toml:"cache"`
	CacheTTL time.Duration `toml:"cache_ttl"`
	Detailed bool          `toml:"detailed"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend: BackendFile,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "pairrank:",
			},
		},
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Render: RenderConfig{
			Cache:    true,
			CacheTTL: 7 * 24 * time.Hour,
		},
	}
}

// DefaultPath returns the location of the user configuration file.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration at path on top of [Default].
//
// An empty path loads [DefaultPath] and tolerates a missing file. An explicit
// path must exist. Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, errs.Wrap(errs.ErrCodeNotFound, err, "config file %s not found", path)
		}
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration for values no component can use.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile:
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "store.redis.addr is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown store backend %q (want memory, file or redis)", c.Store.Backend)
	}

	if c.Store.Redis.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "store.redis.ttl must not be negative")
	}
	if c.Render.CacheTTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "render.cache_ttl must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses the configured log level.
func (c Config) LogLevel() (log.Level, error) {
	if c.Log.Level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, errs.Wrap(errs.ErrCodeInvalidConfig, err, "log.level %q", c.Log.Level)
	}
	return lvl, nil
}
