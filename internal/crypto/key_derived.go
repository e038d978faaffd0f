// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/MKhiriev/go-note-vault/internal/logger"
)

const (
	saltSize     = 16
	materialSize = 32
)

// errArtifactMissing marks a reconstruction that found nothing to rebuild
// from. It never leaves this file.
var errArtifactMissing = errors.New("key artifact missing")

// derivedKeyManager derives a non-extractable key from a persisted salt and
// a persisted device-scoped material string. The parameters of the KDF that
// created them are persisted too; the configured kdf only applies to new
// artifacts.
type derivedKeyManager struct {
	store        ArtifactStore
	saltName     string
	materialName string
	kdfName      string
	kdf          KDF
	rand         io.Reader
	logger       *logger.Logger

	mu     sync.Mutex
	cached *SymmetricKey
}

func newDerivedKeyManager(store ArtifactStore, opts KeyOptions, log *logger.Logger) *derivedKeyManager {
	return &derivedKeyManager{
		store:        store,
		saltName:     opts.ArtifactPrefix + ":salt",
		materialName: opts.ArtifactPrefix + ":material",
		kdfName:      opts.ArtifactPrefix + ":kdf",
		kdf:          opts.KDF,
		rand:         opts.Rand,
		logger:       log,
	}
}

func (m *derivedKeyManager) Strategy() KeyStrategy { return StrategyDerived }

func (m *derivedKeyManager) Artifacts() []string {
	return []string{m.saltName, m.materialName, m.kdfName}
}

// GetOrCreateKey implements [KeyManager]. Storage read failures are returned
// as-is; every other reconstruction failure is logged and followed by the
// creation of a fresh salt and material pair.
func (m *derivedKeyManager) GetOrCreateKey(ctx context.Context) (*SymmetricKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != nil {
		return m.cached, nil
	}

	salt, material, kdf, err := m.readArtifacts(ctx)
	switch {
	case err == nil:
		key, deriveErr := deriveKey(kdf, material, salt)
		if deriveErr == nil {
			m.cached = key
			return key, nil
		}
		m.logger.Warn().Err(deriveErr).
			Str("func", "derivedKeyManager.GetOrCreateKey").
			Msg("stored key artifacts rejected, generating new ones")
	case errors.Is(err, errArtifactMissing):
		m.logger.Debug().
			Str("func", "derivedKeyManager.GetOrCreateKey").
			Msg("no key artifacts found, generating new ones")
	case errors.Is(err, ErrKeyImportFailed):
		m.logger.Warn().Err(err).
			Str("func", "derivedKeyManager.GetOrCreateKey").
			Msg("stored key artifacts malformed, generating new ones")
	default:
		return nil, err
	}

	key, err := m.create(ctx)
	if err != nil {
		return nil, err
	}
	m.cached = key
	return key, nil
}

// readArtifacts returns errArtifactMissing when the salt or the material is
// absent and ErrKeyImportFailed when a present artifact cannot be used.
// Stores written before the KDF artifact existed have no such entry; the
// configured KDF is used for them.
func (m *derivedKeyManager) readArtifacts(ctx context.Context) ([]byte, []byte, KDF, error) {
	saltB64, saltOK, err := m.store.GetItem(ctx, m.saltName)
	if err != nil {
		return nil, nil, nil, err
	}
	material, materialOK, err := m.store.GetItem(ctx, m.materialName)
	if err != nil {
		return nil, nil, nil, err
	}
	rawParams, paramsOK, err := m.store.GetItem(ctx, m.kdfName)
	if err != nil {
		return nil, nil, nil, err
	}
	if !saltOK || !materialOK || material == "" {
		return nil, nil, nil, errArtifactMissing
	}

	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: salt: %w", ErrKeyImportFailed, err)
	}
	if len(salt) != saltSize {
		return nil, nil, nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrKeyImportFailed, saltSize, len(salt))
	}

	if !paramsOK {
		m.logger.Debug().
			Str("func", "derivedKeyManager.readArtifacts").
			Str("kdf", m.kdf.Name()).
			Msg("no kdf artifact, using the configured kdf")
		return salt, []byte(material), m.kdf, nil
	}

	var params KDFParams
	if err = json.Unmarshal([]byte(rawParams), &params); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: kdf: %w", ErrKeyImportFailed, err)
	}
	kdf, err := KDFFromParams(params)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: kdf: %w", ErrKeyImportFailed, err)
	}
	return salt, []byte(material), kdf, nil
}

func deriveKey(kdf KDF, material, salt []byte) (*SymmetricKey, error) {
	raw, err := kdf.Derive(material, salt)
	if err != nil {
		return nil, err
	}
	return NewAESGCMKey(raw, false)
}

func (m *derivedKeyManager) create(ctx context.Context) (*SymmetricKey, error) {
	salt, err := readRandom(m.rand, saltSize)
	if err != nil {
		return nil, err
	}
	materialBytes, err := readRandom(m.rand, materialSize)
	if err != nil {
		return nil, err
	}
	material := base64.StdEncoding.EncodeToString(materialBytes)

	key, err := deriveKey(m.kdf, []byte(material), salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGenerationFailed, err)
	}
	params, err := json.Marshal(m.kdf.Params())
	if err != nil {
		return nil, fmt.Errorf("%w: kdf params: %w", ErrKeyGenerationFailed, err)
	}

	// One batch: any artifact without the others is an unusable remnant.
	err = m.store.SetItems(ctx, map[string]string{
		m.saltName:     base64.StdEncoding.EncodeToString(salt),
		m.materialName: material,
		m.kdfName:      string(params),
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info().
		Str("func", "derivedKeyManager.create").
		Str("kdf", m.kdf.Name()).
		Msg("derived and persisted new key artifacts")
	return key, nil
}

// DeleteKey implements [KeyManager].
func (m *derivedKeyManager) DeleteKey(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cached = nil
	return m.store.RemoveItems(ctx, m.Artifacts()...)
}
