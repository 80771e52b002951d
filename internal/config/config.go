// Package config loads server configuration from an optional YAML file
// and the environment. Environment variables win over file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvAPIURL   = "TRILIUM_API_URL"
	EnvAPIToken = "TRILIUM_API_TOKEN"
	EnvLocalDB  = "TRILIUM_LOCAL_DB"
	EnvLogLevel = "TRILIUM_LOG_LEVEL"
)

// Config holds everything the server needs to reach its note store.
//
// Exactly one backend is active: a TriliumNext server (APIURL+APIToken)
// or an embedded local database (LocalDB). When both are set, LocalDB
// wins — local mode is explicit opt-in and needs no credentials.
type Config struct {
	APIURL   string `yaml:"api_url"`
	APIToken string `yaml:"api_token"`
	LocalDB  string `yaml:"local_db"`
	LogLevel string `yaml:"log_level"`
}

// Load reads the config file at path (if path is non-empty), then
// applies environment overrides, then validates.
func Load(path string) (*Config, error) {
	cfg := &Config{LogLevel: "info"}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvAPIToken); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv(EnvLocalDB); v != "" {
		cfg.LocalDB = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

// LocalMode reports whether the server runs against an embedded
// database instead of a TriliumNext instance.
func (c *Config) LocalMode() bool {
	return c.LocalDB != ""
}

// Validate checks that exactly one usable backend is configured.
func (c *Config) Validate() error {
	if c.LocalMode() {
		return nil
	}
	if c.APIURL == "" {
		return fmt.Errorf("no note store configured: set %s (with %s) or %s", EnvAPIURL, EnvAPIToken, EnvLocalDB)
	}
	if c.APIToken == "" {
		return fmt.Errorf("%s is required when %s is set: create a token in Trilium under Options → ETAPI", EnvAPIToken, EnvAPIURL)
	}
	return nil
}
