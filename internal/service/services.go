package service

import (
	"fmt"

	"github.com/MKhiriev/go-note-vault/internal/config"
	"github.com/MKhiriev/go-note-vault/internal/crypto"
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/internal/store"
)

type Services struct {
	KeyManager         crypto.KeyManager
	PersistenceService PersistenceService
	MigrationJob       MigrationJob
}

// NewServices builds the engine over adapter. Key artifacts live in the same
// substrate as the data they protect.
func NewServices(adapter *store.Adapter, cfg *config.StructuredConfig, log *logger.Logger) (*Services, error) {
	kdf, err := crypto.NewKDF(cfg.Vault.KDF, cfg.Vault.KDFIterations)
	if err != nil {
		return nil, fmt.Errorf("error creating kdf: %w", err)
	}

	keys, err := crypto.NewKeyManager(crypto.KeyStrategy(cfg.Vault.KeyStrategy), adapter, crypto.KeyOptions{
		ArtifactPrefix: cfg.Vault.ArtifactPrefix,
		KDF:            kdf,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("error creating key manager: %w", err)
	}

	persistence := NewPersistenceService(adapter, keys, crypto.NewCipherService(), log)

	return &Services{
		KeyManager:         keys,
		PersistenceService: persistence,
		MigrationJob:       NewMigrationJob(persistence, cfg.Workers.MigrationKeys, log),
	}, nil
}
