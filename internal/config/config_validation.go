// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"slices"
)

// validate checks that the final merged [StructuredConfig] is usable before
// any substrate is opened.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Storage.Driver {
	case DriverMemory:
	case DriverFile:
		if cfg.Storage.FilePath == "" {
			return fmt.Errorf("%w: file driver needs a file path", ErrInvalidStorageConfigs)
		}
	case DriverSQLite, DriverPostgres:
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("%w: %s driver needs a DSN", ErrInvalidStorageConfigs, cfg.Storage.Driver)
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.Driver)
	}

	if !slices.Contains([]string{"generated", "derived"}, cfg.Vault.KeyStrategy) {
		return fmt.Errorf("%w: unknown key strategy %q", ErrInvalidVaultConfigs, cfg.Vault.KeyStrategy)
	}
	if !slices.Contains([]string{"pbkdf2", "argon2id"}, cfg.Vault.KDF) {
		return fmt.Errorf("%w: unknown kdf %q", ErrInvalidVaultConfigs, cfg.Vault.KDF)
	}
	if cfg.Vault.KDFIterations <= 0 {
		return fmt.Errorf("%w: kdf iterations must be positive", ErrInvalidVaultConfigs)
	}
	if cfg.Vault.ArtifactPrefix == "" {
		return fmt.Errorf("%w: empty artifact prefix", ErrInvalidVaultConfigs)
	}

	if cfg.Workers.MigrationInterval < 0 {
		return fmt.Errorf("%w: negative migration interval", ErrInvalidWorkerConfigs)
	}

	if cfg.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: negative shutdown timeout", ErrInvalidServerConfigs)
	}
	if cfg.Remote.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative request timeout", ErrInvalidRemoteConfigs)
	}

	return nil
}
