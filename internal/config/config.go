// Package config resolves runtime settings from an optional YAML file and
// CREDO_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of one credo invocation.
type Config struct {
	DBPath      string `yaml:"db"`
	User        string `yaml:"user"`
	LogLevel    string `yaml:"log_level"`
	LogUseCases bool   `yaml:"log_use_cases"`
	Metrics     bool   `yaml:"metrics"`
}

// DefaultConfig returns the settings used when nothing is configured.
// Use-case logging and the metrics dump are off by default.
func DefaultConfig() Config {
	cfg := Config{
		User:     "credo",
		LogLevel: "warn",
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.DBPath = filepath.Join(home, ".credo", "credo.db")
	}
	if u := os.Getenv("USER"); u != "" {
		cfg.User = u
	}
	return cfg
}

// DefaultPath is CREDO_CONFIG, or ~/.credo/config.yaml.
func DefaultPath() string {
	if v := os.Getenv("CREDO_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".credo", "config.yaml")
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error; an unreadable or malformed one is.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CREDO_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CREDO_USER"); v != "" {
		cfg.User = v
	}
	if v := os.Getenv("CREDO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CREDO_LOG_USE_CASES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogUseCases = b
		}
	}
	if v := os.Getenv("CREDO_METRICS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics = b
		}
	}
}

// Level is a log level name accepted in configuration.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel normalizes a configured level name.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	case "warning":
		return LevelWarn, nil
	case "":
		return LevelWarn, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}
