package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-note-vault/internal/adapter"
	"github.com/MKhiriev/go-note-vault/internal/config"
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/internal/service"
	"github.com/MKhiriev/go-note-vault/internal/store"
	"github.com/MKhiriev/go-note-vault/internal/workers"
)

// App holds everything a command needs once configuration is resolved.
// In remote mode storage and services are nil and persistence talks to a
// running serve command.
type App struct {
	cfg         *config.StructuredConfig
	storage     *store.Adapter
	services    *service.Services
	persistence service.PersistenceService
	migration   service.MigrationJob
	workers     *workers.Workers
	logger      *logger.Logger
}

// NewApp opens the configured substrate and builds the engine over it, or
// connects to cfg.Remote.Address when it is set.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	if cfg.Remote.Address != "" {
		return newRemoteApp(cfg, log)
	}

	storage, err := store.NewStorage(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create storage: %w", err)
	}

	services, err := service.NewServices(storage, cfg, log)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("create services: %w", err)
	}

	a := &App{
		cfg:         cfg,
		storage:     storage,
		services:    services,
		persistence: services.PersistenceService,
		migration:   services.MigrationJob,
		logger:      log,
	}
	a.workers = workers.NewWorkers(a.migrationWorker())
	return a, nil
}

func newRemoteApp(cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	remote, err := adapter.NewHTTPVaultAdapter(cfg.Remote, log)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:         cfg,
		persistence: remote,
		migration:   service.NewMigrationJob(remote, cfg.Workers.MigrationKeys, log),
		logger:      log,
	}
	a.workers = workers.NewWorkers(a.migrationWorker())
	return a, nil
}

// migrationWorker is nil unless there is something to sweep.
func (a *App) migrationWorker() workers.Worker {
	if a.cfg.Workers.MigrationInterval <= 0 || len(a.cfg.Workers.MigrationKeys) == 0 {
		return nil
	}
	return workers.NewMigrationWorker(a.migration, a.cfg.Workers.MigrationInterval, a.logger)
}

// Close stops the workers and closes the substrate.
func (a *App) Close() error {
	a.workers.Stop()
	if a.storage == nil {
		return nil
	}
	return a.storage.Close()
}
