// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"sync"
)

// memoryStorage keeps items in a map. With a quota it rejects writes that
// would grow the total size of keys and values beyond it, the way a
// browser's local storage does.
type memoryStorage struct {
	mu     sync.RWMutex
	items  map[string]string
	size   int
	quota  int
	closed bool
}

// MemoryOption configures [NewMemoryStorage].
type MemoryOption func(*memoryStorage)

// WithQuota limits the total byte size of keys and values.
func WithQuota(bytes int) MemoryOption {
	return func(m *memoryStorage) { m.quota = bytes }
}

// NewMemoryStorage returns an empty in-process substrate.
func NewMemoryStorage(opts ...MemoryOption) BatchStorage {
	m := &memoryStorage{items: make(map[string]string)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *memoryStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, ErrStorageClosed
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memoryStorage) SetItem(ctx context.Context, key, value string) error {
	return m.SetItems(ctx, map[string]string{key: value})
}

func (m *memoryStorage) SetItems(_ context.Context, items map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStorageClosed
	}

	size := m.size
	for k, v := range items {
		if old, ok := m.items[k]; ok {
			size -= len(k) + len(old)
		}
		size += len(k) + len(v)
	}
	if m.quota > 0 && size > m.quota {
		return fmt.Errorf("%w: %d bytes over a quota of %d", ErrQuotaExceeded, size, m.quota)
	}

	for k, v := range items {
		m.items[k] = v
	}
	m.size = size
	return nil
}

func (m *memoryStorage) RemoveItem(ctx context.Context, key string) error {
	return m.RemoveItems(ctx, key)
}

func (m *memoryStorage) RemoveItems(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStorageClosed
	}
	for _, k := range keys {
		if old, ok := m.items[k]; ok {
			m.size -= len(k) + len(old)
			delete(m.items, k)
		}
	}
	return nil
}

func (m *memoryStorage) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStorageClosed
	}
	clear(m.items)
	m.size = 0
	return nil
}

func (m *memoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}
