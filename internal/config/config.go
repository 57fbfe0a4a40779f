// Package config provides configuration loading and structs for the talentmatch server.
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
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Matching MatchingConfig `yaml:"matching"`
	Watch    WatchConfig    `yaml:"watch"`
}

// WatchConfig holds resume directory watch settings.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the candidate database and keyword index.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	IndexPath    string `yaml:"index_path"`
}

// MatchingConfig holds ranking weights and request limits.
type MatchingConfig struct {
	SkillWeight  float64 `yaml:"skill_weight"`
	TextWeight   float64 `yaml:"text_weight"`
	DefaultLimit int     `yaml:"default_limit"`
	MaxLimit     int     `yaml:"max_limit"`
	// MinDescriptionLength rejects shorter job descriptions; 0 disables the check.
	MinDescriptionLength *int `yaml:"min_description_length"`
	// Workers bounds concurrent candidate scoring; 0 means one per CPU.
	Workers int `yaml:"workers"`
	// VocabularyPath points to a YAML skill vocabulary; empty uses the built-in one.
	VocabularyPath string `yaml:"vocabulary_path"`
}

// MinDescriptionLengthOrDefault returns the configured minimum, or 10 when unset.
func (m *MatchingConfig) MinDescriptionLengthOrDefault() int {
	if m.MinDescriptionLength != nil {
		return *m.MinDescriptionLength
	}
	return defaultMinDescriptionLength
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

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.IndexPath = expandPath(cfg.Storage.IndexPath, configDir)
	if cfg.Matching.VocabularyPath != "" {
		cfg.Matching.VocabularyPath = expandPath(cfg.Matching.VocabularyPath, configDir)
	}
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings that cannot be used at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Matching.SkillWeight < 0 || c.Matching.TextWeight < 0 {
		return fmt.Errorf("matching weights must be non-negative")
	}
	if c.Matching.DefaultLimit < 1 {
		return fmt.Errorf("matching default_limit must be at least 1")
	}
	if c.Matching.MaxLimit < c.Matching.DefaultLimit {
		return fmt.Errorf("matching max_limit (%d) is below default_limit (%d)",
			c.Matching.MaxLimit, c.Matching.DefaultLimit)
	}
	if c.Matching.Workers < 0 {
		return fmt.Errorf("matching workers must be non-negative")
	}
	return nil
}

// Save writes the config to path. Used for persisting watch directory add/remove.
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
		return filepath.Join(home, path)
	}
	return path
}
