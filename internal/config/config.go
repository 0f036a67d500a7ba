package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "tallybook.yaml"

// Environment variables that override file settings.
const (
	EnvDatabase = "TALLYBOOK_DB"
	EnvAddr     = "TALLYBOOK_ADDR"
)

// Config represents the top-level tallybook.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Reports  ReportsConfig  `yaml:"reports"`
}

// DatabaseConfig locates the journal-entry store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig controls the dashboard API server.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	CacheSeconds int    `yaml:"cache_seconds"`
}

// ReportsConfig holds report defaults.
type ReportsConfig struct {
	AgingAccount string `yaml:"aging_account"`
}

// Load reads a tallybook.yaml file from disk and applies environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnv()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "tallybook.db",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			CacheSeconds: 30,
		},
		Reports: ReportsConfig{
			AgingAccount: "Accounts Receivable",
		},
	}
}

// LoadOrDefault loads path when it exists and falls back to defaults (plus
// environment overrides) when it does not.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.applyEnv()
		return cfg, nil
	}
	return nil, err
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}
