// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/MKhiriev/go-note-vault/internal/logger"
)

// Adapter is the persistence engine's sole I/O boundary. It wraps a
// [Storage] substrate and translates every native failure into one of
// ErrStorageReadFailed, ErrStorageWriteFailed, ErrStorageDeleteFailed or
// ErrStorageClearFailed.
type Adapter struct {
	storage Storage
	logger  *logger.Logger
}

// NewAdapter wraps storage.
func NewAdapter(storage Storage, log *logger.Logger) *Adapter {
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter{storage: storage, logger: log}
}

// GetItem returns the StoredBlob under key, ok=false when absent.
func (a *Adapter) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := a.storage.GetItem(ctx, key)
	if err != nil {
		a.logger.Err(err).Str("func", "Adapter.GetItem").Str("key", key).Msg("substrate read failed")
		return "", false, fmt.Errorf("%w: %w", ErrStorageReadFailed, err)
	}
	return value, ok, nil
}

// SetItem replaces the StoredBlob under key.
func (a *Adapter) SetItem(ctx context.Context, key, value string) error {
	if err := a.storage.SetItem(ctx, key, value); err != nil {
		a.logger.Err(err).Str("func", "Adapter.SetItem").Str("key", key).Msg("substrate write failed")
		return fmt.Errorf("%w: %w", ErrStorageWriteFailed, err)
	}
	return nil
}

// RemoveItem deletes key.
func (a *Adapter) RemoveItem(ctx context.Context, key string) error {
	if err := a.storage.RemoveItem(ctx, key); err != nil {
		a.logger.Err(err).Str("func", "Adapter.RemoveItem").Str("key", key).Msg("substrate delete failed")
		return fmt.Errorf("%w: %w", ErrStorageDeleteFailed, err)
	}
	return nil
}

// Clear deletes every key held by the substrate.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.storage.Clear(ctx); err != nil {
		a.logger.Err(err).Str("func", "Adapter.Clear").Msg("substrate clear failed")
		return fmt.Errorf("%w: %w", ErrStorageClearFailed, err)
	}
	return nil
}

// SetItems writes all items. On substrates without [BatchStorage] the items
// are written one by one and, if one fails, the ones already written are
// removed again before the error is returned.
func (a *Adapter) SetItems(ctx context.Context, items map[string]string) error {
	if batch, ok := a.storage.(BatchStorage); ok {
		if err := batch.SetItems(ctx, items); err != nil {
			a.logger.Err(err).Str("func", "Adapter.SetItems").Msg("substrate batch write failed")
			return fmt.Errorf("%w: %w", ErrStorageWriteFailed, err)
		}
		return nil
	}

	keys := slices.Sorted(maps.Keys(items))
	for i, key := range keys {
		if err := a.storage.SetItem(ctx, key, items[key]); err != nil {
			a.logger.Err(err).Str("func", "Adapter.SetItems").Str("key", key).Msg("substrate write failed, undoing batch")
			var undo []error
			for _, written := range keys[:i] {
				undo = append(undo, a.storage.RemoveItem(ctx, written))
			}
			return fmt.Errorf("%w: %w", ErrStorageWriteFailed, errors.Join(append([]error{err}, undo...)...))
		}
	}
	return nil
}

// RemoveItems deletes every key. On substrates without [BatchStorage] all
// removals are attempted and their errors joined.
func (a *Adapter) RemoveItems(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	var err error
	if batch, ok := a.storage.(BatchStorage); ok {
		err = batch.RemoveItems(ctx, keys...)
	} else {
		var errs []error
		for _, key := range keys {
			errs = append(errs, a.storage.RemoveItem(ctx, key))
		}
		err = errors.Join(errs...)
	}

	if err != nil {
		a.logger.Err(err).Str("func", "Adapter.RemoveItems").Strs("keys", keys).Msg("substrate delete failed")
		return fmt.Errorf("%w: %w", ErrStorageDeleteFailed, err)
	}
	return nil
}

// Close closes the underlying substrate.
func (a *Adapter) Close() error {
	return a.storage.Close()
}
