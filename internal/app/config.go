package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // .hcl or .yaml file, or a directory of them

	LogFormat string
	LogLevel  string
	// Samples is the number of initial parameter sets to print.
	Samples int
	// Seed seeds the sampler; zero picks a random seed.
	Seed uint64
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.Samples < 0 {
		return nil, fmt.Errorf("Samples must not be negative, got %d", cfg.Samples)
	}
	return &cfg, nil
}
