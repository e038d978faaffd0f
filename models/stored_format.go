// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// StoredFormat is the classification of a StoredBlob read back from the
// key-value substrate.
type StoredFormat int

const (
	// Plaintext marks legacy, unencrypted JSON (or unrecognisable data that
	// is kept untouched).
	Plaintext StoredFormat = iota
	// Encrypted marks a Base64-framed EncryptedRecord.
	Encrypted
)

func (f StoredFormat) String() string {
	switch f {
	case Plaintext:
		return "plaintext"
	case Encrypted:
		return "encrypted"
	default:
		return "unknown"
	}
}

// ParseStoredFormat is the inverse of [StoredFormat.String].
func ParseStoredFormat(s string) (StoredFormat, bool) {
	switch s {
	case "plaintext":
		return Plaintext, true
	case "encrypted":
		return Encrypted, true
	default:
		return Plaintext, false
	}
}
