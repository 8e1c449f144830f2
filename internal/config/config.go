package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type SessionConfig struct {
	DBPath string `yaml:"db_path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL:        "http://localhost:3001",
			TimeoutSeconds: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("JIRADASH_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if url := os.Getenv("JIRADASH_API_BASE_URL"); url != "" {
		cfg.API.BaseURL = url
	}
	if timeoutStr := os.Getenv("JIRADASH_API_TIMEOUT"); timeoutStr != "" {
		timeout, err := strconv.Atoi(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid JIRADASH_API_TIMEOUT: %w", err)
		}
		cfg.API.TimeoutSeconds = timeout
	}
	if dbPath := os.Getenv("JIRADASH_SESSION_DB_PATH"); dbPath != "" {
		cfg.Session.DBPath = dbPath
	}
	if level := os.Getenv("JIRADASH_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("JIRADASH_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}

	if cfg.Session.DBPath == "" {
		dbPath, err := defaultDBPath()
		if err != nil {
			return Config{}, err
		}
		cfg.Session.DBPath = dbPath
	}
	if cfg.Log.Path == "" {
		logPath, err := defaultLogPath()
		if err != nil {
			return Config{}, err
		}
		cfg.Log.Path = logPath
	}

	return cfg, nil
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

// defaultDBPath returns ~/.config/jiradash/session.db
func defaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "jiradash", "session.db"), nil
}

// defaultLogPath returns ~/.config/jiradash/jiradash.log
func defaultLogPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "jiradash", "jiradash.log"), nil
}
