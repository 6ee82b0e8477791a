// Package config loads store, logging and profiling settings from TOML or
// YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/edwinsyarief/rowecs"
)

type Config struct {
	Store   StoreConfig   `toml:"store" yaml:"store"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Profile ProfileConfig `toml:"profile" yaml:"profile"`
}

type StoreConfig struct {
	InitialCapacity int    `toml:"initial_capacity" yaml:"initial_capacity"`
	MaxEntities     uint32 `toml:"max_entities" yaml:"max_entities"` // 0 = unbounded
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

type ProfileConfig struct {
	Rounds   int    `toml:"rounds" yaml:"rounds"`
	Iters    int    `toml:"iters" yaml:"iters"`
	Entities int    `toml:"entities" yaml:"entities"`
	Path     string `toml:"path" yaml:"path"` // output directory for profiles
}

// Load reads path and overlays it on the defaults. Files ending in .yaml or
// .yml are parsed as YAML, everything else as TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			InitialCapacity: 1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Profile: ProfileConfig{
			Rounds:   50,
			Iters:    1000,
			Entities: 1000,
			Path:     ".",
		},
	}
}

// Validate rejects settings the store cannot honour.
func (c *Config) Validate() error {
	if c.Store.InitialCapacity < 0 {
		return fmt.Errorf("store.initial_capacity must not be negative, got %d", c.Store.InitialCapacity)
	}
	if c.Store.MaxEntities != 0 && uint64(c.Store.InitialCapacity) > uint64(c.Store.MaxEntities) {
		return fmt.Errorf("store.initial_capacity %d exceeds store.max_entities %d", c.Store.InitialCapacity, c.Store.MaxEntities)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// Options converts the store settings into store options.
func (c StoreConfig) Options(logger *zap.Logger) []rowecs.Option {
	opts := []rowecs.Option{
		rowecs.WithInitialCapacity(c.InitialCapacity),
		rowecs.WithMaxEntities(c.MaxEntities),
	}
	if logger != nil {
		opts = append(opts, rowecs.WithLogger(logger))
	}
	return opts
}

// NewLogger builds a zap logger. Unknown levels fall back to info.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
