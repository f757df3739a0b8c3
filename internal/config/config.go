// Package config loads converter settings from an optional YAML or TOML
// file, then applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	EnvDatabase = "THINGS_DB"
	EnvTaskBin  = "THINGS_TASK_BIN"
	EnvLogLevel = "THINGS_LOG_LEVEL"
)

// thingsDBPath is where Things 3 keeps its database, relative to the home directory.
var thingsDBPath = filepath.Join(
	"Library", "Containers", "com.culturedcode.ThingsMac", "Data", "Library",
	"Application Support", "Cultured Code", "Things", "Things.sqlite3",
)

type Config struct {
	Database string `yaml:"database" toml:"database"`
	TaskBin  string `yaml:"task_bin" toml:"task_bin"`
	LogLevel string `yaml:"log_level" toml:"log_level"`
}

func Default() *Config {
	return &Config{
		Database: DefaultDatabasePath(),
		TaskBin:  "task",
		LogLevel: "info",
	}
}

// DefaultDatabasePath returns the Things database location in the user's home.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return thingsDBPath
	}
	return filepath.Join(home, thingsDBPath)
}

// Load reads the config file at path, if any, over the defaults and applies
// environment overrides. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := decode(path, data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvDatabase); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv(EnvTaskBin); v != "" {
		cfg.TaskBin = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}
