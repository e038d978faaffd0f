// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Storage is the raw key-value substrate: string keys to string values,
// last write wins. Implementations return their native errors; translation
// into the Err*Failed kinds is done by [Adapter].
type Storage interface {
	// GetItem returns the value stored under key. ok is false when the key
	// has never been written or was removed.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem replaces the value under key.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error

	// Clear deletes every key.
	Clear(ctx context.Context) error

	// Close releases the resources held by the substrate.
	Close() error
}

// BatchStorage is implemented by substrates that can apply several writes
// or removals as one unit. [Adapter] uses it when available so that
// multi-artifact operations never leave a partial result behind.
type BatchStorage interface {
	Storage

	// SetItems writes every pair or none of them.
	SetItems(ctx context.Context, items map[string]string) error

	// RemoveItems deletes every key or none of them.
	RemoveItems(ctx context.Context, keys ...string) error
}
