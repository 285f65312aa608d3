package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Paths are resource files or directories searched for resources.
	Paths []string
	// Flow, when set, runs this single flow instead of the declared
	// scenarios. It requires exactly one resource.
	Flow   string
	Expect int

	LogFormat   string
	LogLevel    string
	WorkerCount int
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one resource path is required")
	}
	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("worker count must be at least 1, got %d", cfg.WorkerCount)
	}
	if cfg.Expect < 0 {
		return nil, fmt.Errorf("expected count cannot be negative, got %d", cfg.Expect)
	}
	if cfg.Flow == "" && cfg.Expect != 0 {
		return nil, errors.New("an expected count requires a flow")
	}
	if _, ok := LogLevels[cfg.LogLevel]; cfg.LogLevel != "" && !ok {
		return nil, fmt.Errorf("invalid log level '%s'", cfg.LogLevel)
	}
	if cfg.LogFormat != "" && cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format '%s'", cfg.LogFormat)
	}

	paths := make([]string, len(cfg.Paths))
	copy(paths, cfg.Paths)
	cfg.Paths = paths
	return &cfg, nil
}
