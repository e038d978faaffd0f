package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-note-vault/models"
)

// PersistenceService is the encrypted local persistence engine. Values are
// JSON-serialized with tagged dates, sealed with AES-GCM and written as one
// StoredBlob per logical key.
//
// The engine does no locking of its own: two concurrent Save calls on the
// same logical key race and the last write wins. Callers that need stronger
// ordering must serialize their writes per key.
type PersistenceService interface {
	// Save encrypts value and replaces whatever is stored under logicalKey.
	// Every failure is returned.
	Save(ctx context.Context, logicalKey string, value any) error

	// Load decrypts the value under logicalKey into target (a non-nil
	// pointer). found is false when nothing usable is stored: the key was
	// never written, or the stored record could not be decrypted and has
	// been removed. Legacy plaintext is migrated to an encrypted record on
	// the way out.
	Load(ctx context.Context, logicalKey string, target any) (found bool, err error)

	// Remove deletes the StoredBlob under logicalKey.
	Remove(ctx context.Context, logicalKey string) error

	// Inspect classifies the StoredBlob under logicalKey without decrypting.
	Inspect(ctx context.Context, logicalKey string) (format models.StoredFormat, found bool, err error)

	// ClearAll deletes every StoredBlob together with the key artifacts.
	ClearAll(ctx context.Context) error

	// State reports the last state the engine passed through.
	State() models.EngineState
}

// BlobStore is the part of the persistence adapter the engine uses.
// It is satisfied by *store.Adapter.
type BlobStore interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// MigrationJob eagerly loads a fixed set of logical keys so that legacy
// plaintext under them is re-encrypted without waiting for a caller read.
type MigrationJob interface {
	// RunOnce loads every configured key once.
	RunOnce(ctx context.Context) error

	// Start runs RunOnce every interval until ctx is done or Stop is called.
	Start(ctx context.Context, interval time.Duration)

	// Stop cancels a running job and waits for it to exit.
	Stop()
}
