package app

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPath string // .hcl file or directory
	PagePath     string // HTML page to boot

	// Hash is the initial location fragment, without the leading "#".
	Hash string

	// ServeModels is a directory of <name>.json models served over HTTP
	// while the page is booted. Routers without a URL fetch from it.
	ServeModels string
	Port        int

	// Follow keeps the process running after boot so that navigation
	// feeds can move the location, until the context is cancelled.
	Follow bool

	Timeout   time.Duration
	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error
	if cfg.ManifestPath == "" {
		errs = append(errs, errors.New("ManifestPath is a required configuration field and cannot be empty"))
	}
	if cfg.PagePath == "" {
		errs = append(errs, errors.New("PagePath is a required configuration field and cannot be empty"))
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range", cfg.Port))
	}
	if cfg.Port > 0 && cfg.ServeModels == "" {
		errs = append(errs, errors.New("port is only used together with a models directory"))
	}
	if cfg.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout %s must not be negative", cfg.Timeout))
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", cfg.LogFormat))
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &cfg, nil
}
