// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

// Key lifecycle errors. Each is fatal to the in-flight operation and is
// returned wrapped together with the underlying platform error, so both
// errors.Is(err, ErrKeyImportFailed) and errors.Is(err, cause) hold.
var (
	// ErrKeyGenerationFailed is returned when the CSPRNG or the KDF cannot
	// produce fresh key material.
	ErrKeyGenerationFailed = errors.New("key generation failed")

	// ErrKeyImportFailed is returned when persisted key material is rejected
	// (malformed JWK, wrong length, unsupported parameters).
	ErrKeyImportFailed = errors.New("key import failed")

	// ErrKeyExportFailed is returned when a key cannot be turned into its
	// portable representation, e.g. because it is not extractable.
	ErrKeyExportFailed = errors.New("key export failed")
)

// Cipher errors.
var (
	// ErrEncryptionFailed is returned when sealing fails, including a failed
	// IV read from the random source.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed is returned on any authenticity failure (tampered
	// ciphertext, wrong key, corrupted IV) and when the opened bytes are not
	// valid UTF-8. No partial plaintext is ever returned with it.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidIVSize is returned when a record's IV is outside 12..16 bytes.
	ErrInvalidIVSize = errors.New("invalid iv size")

	// ErrUnsupportedAlgorithm is returned when the key or the record is not
	// usable for AES-GCM in the requested direction.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrMissingEncryptionKey is returned when no key was supplied.
	ErrMissingEncryptionKey = errors.New("missing encryption key")
)

// Framing errors.
var (
	ErrBase64EncodeFailed = errors.New("base64 encode failed")
	ErrBase64DecodeFailed = errors.New("base64 decode failed")
)
