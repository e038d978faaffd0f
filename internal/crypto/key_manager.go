// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/MKhiriev/go-note-vault/internal/logger"
)

// DefaultArtifactPrefix namespaces key artifacts in the substrate. Artifact
// names must stay stable across versions or existing data is orphaned.
const DefaultArtifactPrefix = "notevault"

// KeyOptions configures [NewKeyManager].
type KeyOptions struct {
	// ArtifactPrefix prefixes every artifact name ("<prefix>:key", ...).
	ArtifactPrefix string
	// KDF is used by the derived strategy. Nil selects PBKDF2 with
	// [DefaultPBKDF2Iterations].
	KDF KDF
	// Rand is the source of new key material. Nil selects crypto/rand.
	Rand io.Reader
}

// NewKeyManager builds the [KeyManager] for strategy. The manager is an
// explicit instance: two managers over different stores never share keys.
func NewKeyManager(strategy KeyStrategy, store ArtifactStore, opts KeyOptions, log *logger.Logger) (KeyManager, error) {
	if store == nil {
		return nil, fmt.Errorf("key manager requires an artifact store")
	}
	if opts.ArtifactPrefix == "" {
		opts.ArtifactPrefix = DefaultArtifactPrefix
	}
	if opts.Rand == nil {
		opts.Rand = rand.Reader
	}
	if log == nil {
		log = logger.Nop()
	}

	switch strategy {
	case StrategyGenerated:
		return newGeneratedKeyManager(store, opts, log), nil
	case "", StrategyDerived:
		if opts.KDF == nil {
			opts.KDF = pbkdf2KDF{iterations: DefaultPBKDF2Iterations}
		}
		return newDerivedKeyManager(store, opts, log), nil
	default:
		return nil, fmt.Errorf("unknown key strategy %q", strategy)
	}
}

func readRandom(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGenerationFailed, err)
	}
	return b, nil
}
