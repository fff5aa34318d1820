package server

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/xhost/internal/engine"
	"github.com/GriffinCanCode/xhost/internal/infrastructure/config"
	"github.com/GriffinCanCode/xhost/internal/infrastructure/logging"
	"github.com/GriffinCanCode/xhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/xhost/internal/xlib/fetch"
	"github.com/GriffinCanCode/xhost/internal/xlib/loader"
	"github.com/GriffinCanCode/xhost/internal/xlib/script"
	"github.com/GriffinCanCode/xhost/pkg/external"
)

// Host is an engine plus the loader that calls back into it, built from
// configuration. The CLI and the HTTP server share it.
type Host struct {
	Engine  *engine.Memory
	Loader  *loader.Loader
	Metrics *monitoring.Metrics
	Fetcher *fetch.Fetcher

	config *config.Config
	logger *logging.Logger
}

// NewHost builds a host with nothing loaded. Engine options are passed to
// the in-memory engine.
func NewHost(cfg *config.Config, logger *logging.Logger, opts ...engine.Option) *Host {
	if logger == nil {
		logger = logging.NewNop()
	}

	metrics := monitoring.NewMetrics()
	mem := engine.NewMemory(opts...)
	mem.Seed(cfg.Globals)

	var fetcher *fetch.Fetcher
	if cfg.Fetch.Enabled {
		fc := fetch.DefaultConfig()
		if cfg.Fetch.Dir != "" {
			fc.Dir = cfg.Fetch.Dir
		}
		fc.RetryMax = cfg.Fetch.Retries
		if cfg.Fetch.Timeout > 0 {
			fc.Timeout = cfg.Fetch.Timeout
		}
		fetcher = fetch.New(fc, logger)
	}

	l := loader.New(loader.Options{
		Engine:  mem,
		Catalog: external.Default(),
		Fetcher: fetcher,
		Script:  script.Config{Timeout: cfg.Script.Timeout, Logger: logger.Named("script")},
		Logger:  logger,
		Metrics: metrics,
	})

	return &Host{
		Engine:  mem,
		Loader:  l,
		Metrics: metrics,
		Fetcher: fetcher,
		config:  cfg,
		logger:  logger,
	}
}

// Autoload loads the configured libraries, then scans the configured
// directory. Every failure is logged; all of them are returned joined.
func (h *Host) Autoload(ctx context.Context) error {
	var errs []error

	for _, path := range h.config.Library.Paths {
		if _, err := h.Loader.Load(ctx, path); err != nil {
			h.logger.Warn("Failed to load library", zap.String("path", path), zap.Error(err))
			errs = append(errs, err)
		}
	}

	if dir := h.config.Library.Dir; dir != "" {
		if _, err := h.Loader.LoadDir(ctx, dir, h.config.Library.Pattern); err != nil {
			h.logger.Warn("Library directory scan incomplete", zap.String("dir", dir), zap.Error(err))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Close unloads every library.
func (h *Host) Close() error {
	return h.Loader.Close()
}
