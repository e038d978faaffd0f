// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AlgorithmAESGCM is the only algorithm tag written by the cipher engine.
const AlgorithmAESGCM = "AES-GCM"

// EncryptedRecord is the output of a single encryption call.
//
// Ciphertext carries the GCM authentication tag appended to the encrypted
// bytes. IV is generated fresh for every call and must never be reused with
// the same key. Both fields are standard Base64.
type EncryptedRecord struct {
	Ciphertext   string `json:"ciphertext"`
	IV           string `json:"iv"`
	AlgorithmTag string `json:"algorithmTag,omitempty"`
}
