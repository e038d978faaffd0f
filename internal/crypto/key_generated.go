// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"io"
	"sync"

	"github.com/MKhiriev/go-note-vault/internal/logger"
)

// generatedKeyManager keeps one random key exported as JWK under a single
// artifact.
type generatedKeyManager struct {
	store   ArtifactStore
	keyName string
	rand    io.Reader
	logger  *logger.Logger

	// mu serialises first-time creation so that concurrent callers cannot
	// each persist a different key.
	mu     sync.Mutex
	cached *SymmetricKey
}

func newGeneratedKeyManager(store ArtifactStore, opts KeyOptions, log *logger.Logger) *generatedKeyManager {
	return &generatedKeyManager{
		store:   store,
		keyName: opts.ArtifactPrefix + ":key",
		rand:    opts.Rand,
		logger:  log,
	}
}

func (m *generatedKeyManager) Strategy() KeyStrategy { return StrategyGenerated }

func (m *generatedKeyManager) Artifacts() []string { return []string{m.keyName} }

// GetOrCreateKey implements [KeyManager].
func (m *generatedKeyManager) GetOrCreateKey(ctx context.Context) (*SymmetricKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != nil {
		return m.cached, nil
	}

	raw, ok, err := m.store.GetItem(ctx, m.keyName)
	if err != nil {
		return nil, err
	}
	if ok {
		key, importErr := ImportJWK([]byte(raw))
		if importErr == nil {
			m.cached = key
			return key, nil
		}
		m.logger.Warn().Err(importErr).
			Str("func", "generatedKeyManager.GetOrCreateKey").
			Str("artifact", m.keyName).
			Msg("stored key could not be imported, generating a new one")
	}

	key, err := m.create(ctx)
	if err != nil {
		return nil, err
	}
	m.cached = key
	return key, nil
}

func (m *generatedKeyManager) create(ctx context.Context) (*SymmetricKey, error) {
	raw, err := readRandom(m.rand, KeySize)
	if err != nil {
		return nil, err
	}
	key, err := NewAESGCMKey(raw, true)
	if err != nil {
		return nil, err
	}
	jwk, err := ExportJWK(key)
	if err != nil {
		return nil, err
	}
	if err = m.store.SetItems(ctx, map[string]string{m.keyName: string(jwk)}); err != nil {
		return nil, err
	}

	m.logger.Info().
		Str("func", "generatedKeyManager.create").
		Str("artifact", m.keyName).
		Msg("generated and persisted new key")
	return key, nil
}

// DeleteKey implements [KeyManager].
func (m *generatedKeyManager) DeleteKey(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cached = nil
	return m.store.RemoveItems(ctx, m.keyName)
}
