// Package config loads cee configuration from .cee/config.json with CEE_*
// environment overrides. Engine constants fixed by the scoring and traversal
// contracts are deliberately not configurable; this covers host concerns
// only.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete cee host configuration.
type Config struct {
	Version int    `json:"version" mapstructure:"version"`
	DataDir string `json:"dataDir" mapstructure:"dataDir"`

	Query   QueryConfig   `json:"query" mapstructure:"query"`
	Storage StorageConfig `json:"storage" mapstructure:"storage"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// QueryConfig holds defaults for analysis operations.
type QueryConfig struct {
	// MaxDepth bounds root-cause and forward-impact traversal.
	MaxDepth int `json:"maxDepth" mapstructure:"maxDepth"`
	// KeystoneMinDependents is the keystone query threshold.
	KeystoneMinDependents int `json:"keystoneMinDependents" mapstructure:"keystoneMinDependents"`
}

// StorageConfig holds snapshot-store settings.
type StorageConfig struct {
	// SnapshotsKept is how many snapshots to retain per (course, user).
	SnapshotsKept int `json:"snapshotsKept" mapstructure:"snapshotsKept"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `json:"format" mapstructure:"format"` // human, json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		DataDir: ".cee",
		Query: QueryConfig{
			MaxDepth:              5,
			KeystoneMinDependents: 3,
		},
		Storage: StorageConfig{
			SnapshotsKept: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "human",
		},
	}
}

// Load reads configuration for the given working directory: defaults, then
// <dir>/.cee/config.json if present, then CEE_* environment variables (e.g.
// CEE_LOGGING_LEVEL=debug).
func Load(dir string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("version", def.Version)
	v.SetDefault("dataDir", def.DataDir)
	v.SetDefault("query.maxDepth", def.Query.MaxDepth)
	v.SetDefault("query.keystoneMinDependents", def.Query.KeystoneMinDependents)
	v.SetDefault("storage.snapshotsKept", def.Storage.SnapshotsKept)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)

	v.SetEnvPrefix("CEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := filepath.Join(dir, ".cee", "config.json")
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Query.MaxDepth < 1 {
		return fmt.Errorf("query.maxDepth must be at least 1, got %d", cfg.Query.MaxDepth)
	}
	if cfg.Query.KeystoneMinDependents < 1 {
		return fmt.Errorf("query.keystoneMinDependents must be at least 1, got %d", cfg.Query.KeystoneMinDependents)
	}
	if cfg.Storage.SnapshotsKept < 1 {
		return fmt.Errorf("storage.snapshotsKept must be at least 1, got %d", cfg.Storage.SnapshotsKept)
	}
	switch cfg.Logging.Format {
	case "human", "json":
	default:
		return fmt.Errorf("logging.format must be human or json, got %q", cfg.Logging.Format)
	}
	return nil
}

// DataPath resolves the data directory relative to dir unless absolute.
func (cfg *Config) DataPath(dir string) string {
	if filepath.IsAbs(cfg.DataDir) {
		return cfg.DataDir
	}
	return filepath.Join(dir, cfg.DataDir)
}
