// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter lets the command-line client use a running
// `notevault serve` instead of opening the substrate itself.
//
// [NewHTTPVaultAdapter] returns a [service.PersistenceService] backed by the
// HTTP API. Error responses are turned back into the sentinels the local
// engine returns (see app.ErrorFromCode), so callers handle both the same
// way with [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-note-vault/internal/service"
	"github.com/MKhiriev/go-note-vault/models"
)

// VaultAdapter is the persistence engine reached over the network.
type VaultAdapter interface {
	service.PersistenceService

	// Version reports the build of the server.
	Version(ctx context.Context) (models.VersionResponse, error)
}
