package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/fitconf/internal/config"
	"github.com/vk/fitconf/internal/ctxlog"
	"github.com/vk/fitconf/internal/fitconfig"
	"github.com/vk/fitconf/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
	raw      *config.Model

	// fit is set by a successful Run.
	fit *fitconfig.Configuration
}

// NewApp is the constructor for the main application. It loads the raw
// configuration with loader, or with LoaderFor(cfg.ConfigPath) when loader is
// nil, and builds an isolated logger and objective registry.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if loader == nil {
		loader = LoaderFor(cfg.ConfigPath)
	}
	raw, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded into the raw model.", "settings", len(raw.Order), "variables", len(raw.Variables))

	reg := registry.Default()
	if err := reg.ValidateRegistry(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.", "objectives", reg.Names())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
		raw:      raw,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Configuration returns the validated configuration, or nil before a
// successful Run.
func (a *App) Configuration() *fitconfig.Configuration {
	return a.fit
}
