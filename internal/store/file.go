// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"syscall"
)

// fileStorage keeps every item in a single JSON document on disk. Each
// mutation rewrites the whole document through a temporary file and a
// rename, so a crash leaves either the old or the new document.
type fileStorage struct {
	path string

	mu     sync.RWMutex
	items  map[string]string
	closed bool
}

type filePersistedState struct {
	Items map[string]string `json:"items"`
}

// NewFileStorage opens (or lazily creates) the document at path.
func NewFileStorage(path string) (BatchStorage, error) {
	if path == "" {
		return nil, errors.New("file storage path is empty")
	}

	s := &fileStorage{path: path, items: make(map[string]string)}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileStorage) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read local storage file: %w", classifyFileError(err))
	}

	var st filePersistedState
	if err = json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode local storage file: %w", err)
	}
	if st.Items != nil {
		s.items = st.Items
	}
	return nil
}

// persist writes next to disk. s.items is only replaced once the write
// succeeded.
func (s *fileStorage) persist(next map[string]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create local storage dir: %w", classifyFileError(err))
	}

	payload, err := json.MarshalIndent(filePersistedState{Items: next}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local storage: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", classifyFileError(err))
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err = tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write local storage file: %w", classifyFileError(err))
	}
	if err = tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod local storage file: %w", classifyFileError(err))
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close local storage file: %w", classifyFileError(err))
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace local storage file: %w", classifyFileError(err))
	}

	s.items = next
	return nil
}

func (s *fileStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", false, ErrStorageClosed
	}
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *fileStorage) SetItem(ctx context.Context, key, value string) error {
	return s.SetItems(ctx, map[string]string{key: value})
}

func (s *fileStorage) SetItems(_ context.Context, items map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}
	next := maps.Clone(s.items)
	maps.Copy(next, items)
	return s.persist(next)
}

func (s *fileStorage) RemoveItem(ctx context.Context, key string) error {
	return s.RemoveItems(ctx, key)
}

func (s *fileStorage) RemoveItems(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}
	next := maps.Clone(s.items)
	for _, k := range keys {
		delete(next, k)
	}
	return s.persist(next)
}

func (s *fileStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}
	return s.persist(make(map[string]string))
}

func (s *fileStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// classifyFileError tags permission and disk-space failures with the
// substrate-neutral kinds.
func classifyFileError(err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	case errors.Is(err, syscall.ENOSPC):
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	default:
		return err
	}
}
