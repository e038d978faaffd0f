// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/MKhiriev/go-note-vault/models"
)

const (
	// ivSize is the IV length generated for every encryption call.
	ivSize = 12
	// minIVSize and maxIVSize bound the IV lengths accepted on decryption.
	minIVSize = 12
	maxIVSize = 16
	// tagSize is the GCM authentication tag length appended to ciphertext.
	tagSize = 16
)

// cipherService is the private implementation of [CipherService].
type cipherService struct {
	rand io.Reader
}

// NewCipherService returns a [CipherService] drawing IVs from crypto/rand.
func NewCipherService() CipherService {
	return &cipherService{rand: rand.Reader}
}

// NewCipherServiceWithRand is like [NewCipherService] but reads IVs from r.
// It exists for tests that need to observe a failing random source.
func NewCipherServiceWithRand(r io.Reader) CipherService {
	return &cipherService{rand: r}
}

// Encrypt implements [CipherService].
func (c *cipherService) Encrypt(plaintext string, key *SymmetricKey) (models.EncryptedRecord, error) {
	if err := checkKey(key, UsageEncrypt); err != nil {
		return models.EncryptedRecord{}, err
	}

	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(c.rand, iv); err != nil {
		return models.EncryptedRecord{}, fmt.Errorf("%w: generate iv: %w", ErrEncryptionFailed, err)
	}

	gcm, err := key.aead(ivSize)
	if err != nil {
		return models.EncryptedRecord{}, fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}
	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)

	ct, err := EncodeBase64(sealed)
	if err != nil {
		return models.EncryptedRecord{}, err
	}
	ivB64, err := EncodeBase64(iv)
	if err != nil {
		return models.EncryptedRecord{}, err
	}

	return models.EncryptedRecord{
		Ciphertext:   ct,
		IV:           ivB64,
		AlgorithmTag: models.AlgorithmAESGCM,
	}, nil
}

// Decrypt implements [CipherService].
func (c *cipherService) Decrypt(record models.EncryptedRecord, key *SymmetricKey) (string, error) {
	if err := checkKey(key, UsageDecrypt); err != nil {
		return "", err
	}
	if record.AlgorithmTag != "" && record.AlgorithmTag != models.AlgorithmAESGCM {
		return "", fmt.Errorf("%w: record algorithm %q", ErrUnsupportedAlgorithm, record.AlgorithmTag)
	}

	iv, err := DecodeBase64(record.IV)
	if err != nil {
		return "", err
	}
	if len(iv) < minIVSize || len(iv) > maxIVSize {
		return "", fmt.Errorf("%w: %d bytes", ErrInvalidIVSize, len(iv))
	}

	sealed, err := DecodeBase64(record.Ciphertext)
	if err != nil {
		return "", err
	}

	gcm, err := key.aead(len(iv))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}
	plain, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}
	if !utf8.Valid(plain) {
		return "", fmt.Errorf("%w: plaintext is not valid utf-8", ErrDecryptionFailed)
	}

	return string(plain), nil
}

// EncodeRecord implements [CipherService].
func (c *cipherService) EncodeRecord(record models.EncryptedRecord) (string, error) {
	iv, err := DecodeBase64(record.IV)
	if err != nil {
		return "", err
	}
	if len(iv) < minIVSize || len(iv) > maxIVSize {
		return "", fmt.Errorf("%w: %d bytes", ErrInvalidIVSize, len(iv))
	}
	sealed, err := DecodeBase64(record.Ciphertext)
	if err != nil {
		return "", err
	}

	frame := make([]byte, 0, 1+len(iv)+len(sealed))
	frame = append(frame, byte(len(iv)))
	frame = append(frame, iv...)
	frame = append(frame, sealed...)

	return EncodeBase64(frame)
}

// DecodeRecord implements [CipherService].
func (c *cipherService) DecodeRecord(blob string) (models.EncryptedRecord, error) {
	frame, err := DecodeBase64(blob)
	if err != nil {
		return models.EncryptedRecord{}, err
	}
	if err = CheckFrame(frame); err != nil {
		return models.EncryptedRecord{}, err
	}
	n := int(frame[0])

	iv, err := EncodeBase64(frame[1 : 1+n])
	if err != nil {
		return models.EncryptedRecord{}, err
	}
	ct, err := EncodeBase64(frame[1+n:])
	if err != nil {
		return models.EncryptedRecord{}, err
	}

	return models.EncryptedRecord{Ciphertext: ct, IV: iv, AlgorithmTag: models.AlgorithmAESGCM}, nil
}

// CheckFrame reports whether frame has the StoredBlob layout: an IV length
// in [12,16], the IV, and at least a full GCM tag.
func CheckFrame(frame []byte) error {
	if len(frame) == 0 {
		return fmt.Errorf("%w: empty frame", ErrInvalidIVSize)
	}

	n := int(frame[0])
	if n < minIVSize || n > maxIVSize {
		return fmt.Errorf("%w: %d bytes", ErrInvalidIVSize, n)
	}
	if len(frame) < 1+n+tagSize {
		return fmt.Errorf("%w: frame of %d bytes is too short", ErrDecryptionFailed, len(frame))
	}
	return nil
}

// checkKey rejects keys that cannot serve the requested direction before
// any work is done.
func checkKey(key *SymmetricKey, usage KeyUsage) error {
	if key == nil || key.block == nil {
		return ErrMissingEncryptionKey
	}
	if key.algorithm != models.AlgorithmAESGCM {
		return fmt.Errorf("%w: key algorithm %q", ErrUnsupportedAlgorithm, key.algorithm)
	}
	if !key.Can(usage) {
		return fmt.Errorf("%w: key usage not permitted", ErrUnsupportedAlgorithm)
	}
	return nil
}
