// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"encoding/json"
	"regexp"

	"github.com/MKhiriev/go-note-vault/internal/crypto"
	"github.com/MKhiriev/go-note-vault/models"
)

var base64Shape = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// Classify decides how a StoredBlob read from the substrate must be
// treated. Rules, first match wins:
//
//  1. valid JSON is Plaintext, even when it is also Base64-shaped;
//  2. a non-empty Base64 string whose length is a multiple of 4 and which
//     decodes to a well-formed record frame is Encrypted;
//  3. anything else is Plaintext.
//
// Base64 of a plaintext JSON document decodes fine but does not start with
// a valid IV length, so it stays Plaintext under rule 3. Such data cannot
// be told apart from ciphertext by shape alone; preferring Plaintext means
// old data is never thrown away as corrupt ciphertext.
func Classify(stored string) models.StoredFormat {
	if json.Valid([]byte(stored)) {
		return models.Plaintext
	}

	if stored != "" && len(stored)%4 == 0 && base64Shape.MatchString(stored) {
		frame, err := crypto.DecodeBase64(stored)
		if err == nil && crypto.CheckFrame(frame) == nil {
			return models.Encrypted
		}
	}

	return models.Plaintext
}
