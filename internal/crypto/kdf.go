// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// DefaultPBKDF2Iterations is the iteration count used for derived keys
// unless configured otherwise.
const DefaultPBKDF2Iterations = 100_000

// KDF turns device material and a salt into raw AES key bytes.
type KDF interface {
	Derive(material, salt []byte) ([]byte, error)
	Name() string
	// Params describes the function completely; [KDFFromParams] rebuilds
	// an equivalent KDF from it.
	Params() KDFParams
}

// KDFParams is persisted next to the salt of a derived key, so the key can
// be rebuilt after the configured KDF changed.
type KDFParams struct {
	Name       string `json:"name"`
	Iterations int    `json:"iterations,omitempty"`
	Time       uint32 `json:"time,omitempty"`
	Memory     uint32 `json:"memory,omitempty"`
	Threads    uint8  `json:"threads,omitempty"`
}

// KDFFromParams rebuilds the KDF that produced p. Unlike [NewKDF] it never
// fills in defaults: every parameter must be present.
func KDFFromParams(p KDFParams) (KDF, error) {
	switch p.Name {
	case KDFPBKDF2:
		if p.Iterations <= 0 {
			return nil, fmt.Errorf("pbkdf2: iterations must be positive, got %d", p.Iterations)
		}
		return pbkdf2KDF{iterations: p.Iterations}, nil
	case KDFArgon2id:
		if p.Time == 0 || p.Memory == 0 || p.Threads == 0 {
			return nil, fmt.Errorf("argon2id: time, memory and threads must be set, got %d/%d/%d", p.Time, p.Memory, p.Threads)
		}
		return argon2idKDF{time: p.Time, memory: p.Memory, threads: p.Threads}, nil
	default:
		return nil, fmt.Errorf("unknown kdf %q", p.Name)
	}
}

// KDF names accepted by [NewKDF].
const (
	KDFPBKDF2   = "pbkdf2"
	KDFArgon2id = "argon2id"
)

// NewKDF returns the KDF registered under name. iterations only applies to
// PBKDF2; zero selects [DefaultPBKDF2Iterations].
func NewKDF(name string, iterations int) (KDF, error) {
	switch name {
	case "", KDFPBKDF2:
		if iterations <= 0 {
			iterations = DefaultPBKDF2Iterations
		}
		return pbkdf2KDF{iterations: iterations}, nil
	case KDFArgon2id:
		return newArgon2idKDF(), nil
	default:
		return nil, fmt.Errorf("unknown kdf %q", name)
	}
}

// pbkdf2KDF is PBKDF2-HMAC-SHA-256.
type pbkdf2KDF struct {
	iterations int
}

func (k pbkdf2KDF) Derive(material, salt []byte) ([]byte, error) {
	if len(material) == 0 {
		return nil, fmt.Errorf("%w: empty key material", ErrKeyGenerationFailed)
	}
	return pbkdf2.Key(material, salt, k.iterations, KeySize, sha256.New), nil
}

func (k pbkdf2KDF) Name() string { return KDFPBKDF2 }

func (k pbkdf2KDF) Params() KDFParams {
	return KDFParams{Name: KDFPBKDF2, Iterations: k.iterations}
}

// argon2idKDF uses the OWASP (2024) Argon2id parameters:
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
type argon2idKDF struct {
	time    uint32
	memory  uint32
	threads uint8
}

func newArgon2idKDF() argon2idKDF {
	return argon2idKDF{
		time:    1,
		memory:  64 * 1024, // 64 MiB
		threads: 4,
	}
}

func (k argon2idKDF) Derive(material, salt []byte) ([]byte, error) {
	if len(material) == 0 {
		return nil, fmt.Errorf("%w: empty key material", ErrKeyGenerationFailed)
	}
	return argon2.IDKey(material, salt, k.time, k.memory, k.threads, KeySize), nil
}

func (k argon2idKDF) Name() string { return KDFArgon2id }

func (k argon2idKDF) Params() KDFParams {
	return KDFParams{Name: KDFArgon2id, Time: k.time, Memory: k.memory, Threads: k.threads}
}
