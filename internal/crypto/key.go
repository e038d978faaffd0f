// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-note-vault/models"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// KeyUsage is a bit set of the operations a key may be used for.
type KeyUsage uint8

const (
	UsageEncrypt KeyUsage = 1 << iota
	UsageDecrypt
)

// KeyStrategy is the tagged variant selecting how a key is acquired.
type KeyStrategy string

const (
	// StrategyGenerated generates a random key once, exports it as a JWK and
	// re-imports it on later loads.
	StrategyGenerated KeyStrategy = "generated"
	// StrategyDerived derives a non-extractable key from a persisted salt and
	// a persisted device-scoped material string.
	StrategyDerived KeyStrategy = "derived"
)

// SymmetricKey is an AES-256-GCM key usable for encrypt and decrypt only.
// The raw bytes are retained only for extractable keys.
type SymmetricKey struct {
	algorithm   string
	usages      KeyUsage
	extractable bool
	block       cipher.Block
	raw         []byte
}

// NewAESGCMKey wraps 32 raw bytes as an encrypt/decrypt AES-GCM key.
// Non-extractable keys drop their raw bytes after the block cipher is built.
func NewAESGCMKey(raw []byte, extractable bool) (*SymmetricKey, error) {
	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", ErrKeyImportFailed, KeySize, len(raw))
	}
	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyImportFailed, err)
	}

	key := &SymmetricKey{
		algorithm:   models.AlgorithmAESGCM,
		usages:      UsageEncrypt | UsageDecrypt,
		extractable: extractable,
		block:       block,
	}
	if extractable {
		key.raw = slices.Clone(raw)
	}
	return key, nil
}

// Algorithm returns the algorithm name the key was created for.
func (k *SymmetricKey) Algorithm() string { return k.algorithm }

// Extractable reports whether ExportJWK may be called on the key.
func (k *SymmetricKey) Extractable() bool { return k.extractable }

// Can reports whether the key permits usage u.
func (k *SymmetricKey) Can(u KeyUsage) bool { return k.usages&u == u }

// aead returns a GCM instance for the given nonce size. The standard 12-byte
// size is the only one used for sealing.
func (k *SymmetricKey) aead(nonceSize int) (cipher.AEAD, error) {
	if nonceSize == ivSize {
		return cipher.NewGCM(k.block)
	}
	return cipher.NewGCMWithNonceSize(k.block, nonceSize)
}

// JWK is the JSON Web Key form of an exported symmetric key.
type JWK struct {
	Kty    string   `json:"kty"`
	K      string   `json:"k"`
	Alg    string   `json:"alg"`
	KeyOps []string `json:"key_ops,omitempty"`
	Ext    bool     `json:"ext"`
}

const (
	jwkKeyType   = "oct"
	jwkAlgorithm = "A256GCM"
)

// ExportJWK serializes an extractable key as JWK JSON.
func ExportJWK(key *SymmetricKey) ([]byte, error) {
	if key == nil {
		return nil, ErrMissingEncryptionKey
	}
	if !key.extractable || key.raw == nil {
		return nil, fmt.Errorf("%w: key is not extractable", ErrKeyExportFailed)
	}

	data, err := json.Marshal(JWK{
		Kty:    jwkKeyType,
		K:      base64.RawURLEncoding.EncodeToString(key.raw),
		Alg:    jwkAlgorithm,
		KeyOps: []string{"encrypt", "decrypt"},
		Ext:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyExportFailed, err)
	}
	return data, nil
}

// ImportJWK parses JWK JSON produced by ExportJWK. Any deviation from an
// AES-256-GCM encrypt/decrypt key is rejected with ErrKeyImportFailed.
func ImportJWK(data []byte) (*SymmetricKey, error) {
	var jwk JWK
	if err := json.Unmarshal(data, &jwk); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyImportFailed, err)
	}
	if jwk.Kty != jwkKeyType {
		return nil, fmt.Errorf("%w: unexpected kty %q", ErrKeyImportFailed, jwk.Kty)
	}
	if jwk.Alg != "" && jwk.Alg != jwkAlgorithm {
		return nil, fmt.Errorf("%w: unexpected alg %q", ErrKeyImportFailed, jwk.Alg)
	}
	if len(jwk.KeyOps) > 0 && (!slices.Contains(jwk.KeyOps, "encrypt") || !slices.Contains(jwk.KeyOps, "decrypt")) {
		return nil, fmt.Errorf("%w: key_ops %v lack encrypt/decrypt", ErrKeyImportFailed, jwk.KeyOps)
	}

	raw, err := base64.RawURLEncoding.DecodeString(jwk.K)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyImportFailed, err)
	}
	return NewAESGCMKey(raw, true)
}
