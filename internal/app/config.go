package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// PlanPath points to a single .hcl plan file or a directory of them.
	PlanPath string
	// RootDir is the sandbox root directory (the image root).
	RootDir string
	// ArtifactsDir is the search directory for overlay artifacts. Optional.
	ArtifactsDir string

	// StepTimeout bounds steps that declare no timeout of their own.
	StepTimeout time.Duration

	LogFormat    string
	LogLevel     string
	ResultFormat string

	// DryRun prints the ordered plan without touching the sandbox.
	DryRun bool
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PlanPath == "" {
		return nil, errors.New("PlanPath is a required configuration field and cannot be empty")
	}
	if cfg.RootDir == "" && !cfg.DryRun {
		return nil, errors.New("RootDir is required unless running with DryRun")
	}
	if cfg.StepTimeout < 0 {
		return nil, errors.New("StepTimeout cannot be negative")
	}

	return &cfg, nil
}
