package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-note-vault/internal/config"
	"github.com/MKhiriev/go-note-vault/internal/logger"
)

// NewStorage opens the substrate selected by cfg.Driver and wraps it in an
// [Adapter]. The caller owns the adapter and must Close it.
func NewStorage(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Adapter, error) {
	log.Info().Str("func", "NewStorage").Str("driver", cfg.Driver).Msg("creating new storage...")

	var (
		storage Storage
		err     error
	)
	switch cfg.Driver {
	case config.DriverMemory:
		storage = NewMemoryStorage()
	case config.DriverFile:
		storage, err = NewFileStorage(cfg.FilePath)
	case config.DriverSQLite:
		storage, err = NewSQLiteStorage(ctx, cfg.DSN, log)
	case config.DriverPostgres:
		storage, err = NewPostgresStorage(ctx, cfg.DSN, log)
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", config.ErrInvalidStorageConfigs, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%s storage: %w", cfg.Driver, err)
	}

	return NewAdapter(storage, log), nil
}
