package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths []string // hcl files or directories
	Model       string   // model name; may be empty when only one is defined

	Targets  []string // symbols to render or evaluate; overrides the model's
	Inputs   []string // name=value assignments
	Datasets []string // dataset names; empty means every dataset
	Render   bool
	Predict  bool
	Errors   bool
	Strict   bool
	SigFigs  int // negative keeps the model's setting
	SaveFit  string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("at least one configuration path is required")
	}
	modes := 0
	for _, on := range []bool{len(cfg.Inputs) > 0, cfg.Predict, cfg.Errors} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return nil, errors.New("inputs, predict and errors are mutually exclusive")
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	return &cfg, nil
}
