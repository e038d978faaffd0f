// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"

	"github.com/MKhiriev/go-note-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// CipherService is the stateless encrypt/decrypt codec over a
// [SymmetricKey]. It owns IV generation and the Base64 framing of records.
type CipherService interface {
	// Encrypt seals the UTF-8 bytes of plaintext under key with a fresh
	// 12-byte IV. The empty string is valid input.
	Encrypt(plaintext string, key *SymmetricKey) (models.EncryptedRecord, error)

	// Decrypt opens record with key and returns the plaintext. It returns
	// [ErrDecryptionFailed] on any authenticity or UTF-8 failure and never
	// returns partially decrypted data.
	Decrypt(record models.EncryptedRecord, key *SymmetricKey) (string, error)

	// EncodeRecord frames record as the single Base64 string written to the
	// substrate: base64(len(iv) ‖ iv ‖ ciphertext).
	EncodeRecord(record models.EncryptedRecord) (string, error)

	// DecodeRecord is the inverse of EncodeRecord.
	DecodeRecord(blob string) (models.EncryptedRecord, error)
}

// KeyManager produces the symmetric key used by the persistence engine and
// owns every artifact persisted to reconstruct it.
type KeyManager interface {
	// GetOrCreateKey reconstructs the key from persisted artifacts, or
	// creates and persists a new one when none can be reconstructed.
	// Two calls without an intervening DeleteKey return interchangeable keys.
	GetOrCreateKey(ctx context.Context) (*SymmetricKey, error)

	// DeleteKey removes every persisted artifact of the key and forgets any
	// cached key.
	DeleteKey(ctx context.Context) error

	// Strategy reports which acquisition variant backs this manager.
	Strategy() KeyStrategy

	// Artifacts lists the substrate keys this manager writes to.
	Artifacts() []string
}

// ArtifactStore is the slice of the persistence adapter the key managers
// need. It is satisfied by *store.Adapter.
type ArtifactStore interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItems(ctx context.Context, items map[string]string) error
	RemoveItems(ctx context.Context, keys ...string) error
}
