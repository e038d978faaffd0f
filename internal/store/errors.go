// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Adapter errors. Every failure of the underlying substrate is returned
// wrapped in exactly one of these, with the native error preserved as the
// cause. Callers should use [errors.Is] to match against them.
var (
	// ErrStorageReadFailed is returned when GetItem fails.
	ErrStorageReadFailed = errors.New("storage read failed")

	// ErrStorageWriteFailed is returned when SetItem or SetItems fails.
	ErrStorageWriteFailed = errors.New("storage write failed")

	// ErrStorageDeleteFailed is returned when RemoveItem or RemoveItems fails.
	ErrStorageDeleteFailed = errors.New("storage delete failed")

	// ErrStorageClearFailed is returned when Clear fails.
	ErrStorageClearFailed = errors.New("storage clear failed")
)

// Native substrate failure kinds. Substrates classify their driver errors
// into these so that callers can tell a full disk from a permission problem
// without knowing which backend is in use.
var (
	// ErrQuotaExceeded signals that the substrate has no room for the write
	// (memory quota, full disk, PostgreSQL disk_full, SQLITE_FULL).
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrAccessDenied signals that the substrate refused the operation
	// (file permissions, read-only database, insufficient privilege).
	ErrAccessDenied = errors.New("storage access denied")

	// ErrStorageClosed is returned by substrates used after Close.
	ErrStorageClosed = errors.New("storage is closed")
)
