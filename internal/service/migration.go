package service

import (
	"context"

	"github.com/MKhiriev/go-note-vault/internal/codec"
	"github.com/MKhiriev/go-note-vault/internal/logger"
)

// migrationResult is the outcome of re-encrypting one plaintext record.
// Load logs it and drops it: the read has already succeeded.
type migrationResult struct {
	logicalKey string
	err        error
}

func (r migrationResult) log(log *logger.Logger) {
	if r.err != nil {
		log.Warn().Err(r.err).Str("func", "persistenceService.migrate").Msg("plaintext record left unmigrated")
		return
	}
	log.Info().Str("func", "persistenceService.migrate").Msg("plaintext record migrated to encrypted")
}

// migrate re-serializes the already parsed document, encrypts it and
// overwrites the StoredBlob under logicalKey. It is attempted once and
// never retried.
func (s *persistenceService) migrate(ctx context.Context, logicalKey string, doc any) migrationResult {
	plaintext, err := codec.Marshal(doc)
	if err != nil {
		return migrationResult{logicalKey: logicalKey, err: err}
	}

	blob, err := s.seal(ctx, plaintext)
	if err != nil {
		return migrationResult{logicalKey: logicalKey, err: err}
	}

	if err = s.store.SetItem(ctx, logicalKey, blob); err != nil {
		return migrationResult{logicalKey: logicalKey, err: err}
	}

	return migrationResult{logicalKey: logicalKey}
}
