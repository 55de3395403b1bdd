package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds optional CLI settings loaded from a YAML file. All fields
// have working defaults, so the file itself is optional.
type Config struct {
	// BaseURL overrides the default Z.AI endpoint (no trailing slash).
	BaseURL string `yaml:"base_url"`

	// Model is the default model ID or alias when -m is not given.
	Model string `yaml:"model"`

	// TimeoutSeconds bounds each blocking exchange.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout, or zero when unset.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoadConfig reads the YAML config at path. A missing file yields a zero
// Config so the CLI works without any setup.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}
