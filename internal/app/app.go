package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/schematic/internal/config"
	"github.com/vk/schematic/internal/container"
	"github.com/vk/schematic/internal/ctxlog"
	"github.com/vk/schematic/internal/location"
	"github.com/vk/schematic/internal/metrics"
	"github.com/vk/schematic/internal/registry"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "schematic"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	registry  *registry.Registry
	manifest  *config.Model
	metrics   *metrics.Collector
	location  *location.Location
	container *container.Container
}

// NewApp is the constructor for the main application. Logs go to logW and
// the rendered page to outW. When no modules are given the core modules
// are registered.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	collector := metrics.NewCollector(MetricsNamespace)

	reg := registry.New()
	reg.SetLogger(logger)
	if len(modules) == 0 {
		modules = coreModules(collector, cfg.Timeout)
	}
	for _, mod := range modules {
		if err := mod.Register(reg); err != nil {
			return nil, fmt.Errorf("failed to register module %T: %w", mod, err)
		}
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "modules", reg.Modules(), "services", reg.Services())

	if err := reg.Validate(ctx); err != nil {
		return nil, fmt.Errorf("registry validation failed: %w", err)
	}
	logger.Debug("Registry validation passed.")

	manifest, err := loader.Load(ctx, cfg.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	logger.Debug("Manifest loaded.", "applications", len(manifest.Applications))

	loc := location.New(cfg.Hash)
	c := container.New(reg, loc, logger)
	c.SetMetrics(collector)

	return &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		registry:  reg,
		manifest:  manifest,
		metrics:   collector,
		location:  loc,
		container: c,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry { return a.registry }

// Container returns the application container.
func (a *App) Container() *container.Container { return a.container }

// Location returns the shared location.
func (a *App) Location() *location.Location { return a.location }

// Metrics returns the metrics collector.
func (a *App) Metrics() *metrics.Collector { return a.metrics }
