// Package app wires the studyplan components from configuration.
package app

import (
	"fmt"
	"log/slog"

	"github.com/fentz26/studyplan/internal/audit"
	"github.com/fentz26/studyplan/internal/config"
	"github.com/fentz26/studyplan/internal/controlplane"
	"github.com/fentz26/studyplan/internal/export"
	"github.com/fentz26/studyplan/internal/planner"
	"github.com/fentz26/studyplan/internal/store"
)

// App holds the wired components.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   *store.Store
	Service *controlplane.Service
}

// New opens the store and builds the service. When SeedSamples is on, an
// empty task collection is bootstrapped with the sample tasks.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	pdr := audit.NewPDRWriter(st, logger)
	pl := planner.New(&cfg.Planner, logger.With("component", "planner"))
	exp := export.NewWriter(cfg.ExportDir, logger.With("component", "export"))
	svc := controlplane.NewService(st, pdr, pl, exp, cfg.CapacityPlan(), logger)

	if cfg.SeedSamples {
		if _, err := svc.EnsureSamples(); err != nil {
			st.Close()
			return nil, fmt.Errorf("seed samples: %w", err)
		}
	}

	return &App{Config: cfg, Logger: logger, Store: st, Service: svc}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
