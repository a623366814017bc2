// Package config provides configuration loading and structs for the Erabu server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	NLU        NLUConfig        `yaml:"nlu"`
	Learning   LearningConfig   `yaml:"learning"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Watch      WatchConfig      `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the database and the search index.
type StorageConfig struct {
	DatabasePath   string `yaml:"database_path"`
	BleveIndexPath string `yaml:"bleve_index_path"`
}

// NLUConfig holds training and prediction settings shared by all engine
// slots.
type NLUConfig struct {
	DefaultEngine    string  `yaml:"default_engine"`
	MinSpanScore     float64 `yaml:"min_span_score"`
	OverlapThreshold float64 `yaml:"overlap_threshold"`
	TaggerEpochs     int     `yaml:"tagger_epochs"`
	PerceptronEpochs int     `yaml:"perceptron_epochs"`
	CacheTTLSeconds  int     `yaml:"cache_ttl_seconds"`
	CacheCapacity    int     `yaml:"cache_capacity"`
}

// LearningConfig holds active-learning selector settings.
type LearningConfig struct {
	DefaultThreshold float64 `yaml:"default_threshold"`
}

// EvaluationConfig holds evaluation split settings.
type EvaluationConfig struct {
	DefaultTrainPct int   `yaml:"default_train_pct"`
	DefaultSeed     int64 `yaml:"default_seed"`
}

// WatchConfig holds dataset drop-directory watch settings.
type WatchConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Directory  string   `yaml:"directory"`
	Extensions []string `yaml:"extensions"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	expandPaths(&cfg, filepath.Dir(path))
	return &cfg, nil
}

// Default returns a config with every default applied and paths expanded,
// for running without a config file.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	expandPaths(&cfg, ".")
	return &cfg
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func expandPaths(cfg *Config, configDir string) {
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	if cfg.Watch.Directory != "" {
		cfg.Watch.Directory = expandPath(cfg.Watch.Directory, configDir)
	}
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, strings.TrimPrefix(path, "~/"))
	}
	return path
}
