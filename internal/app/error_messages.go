// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used by the
// notevault command-line client and its HTTP API.
//
// All Msg* constants are human-readable message strings printed to the user
// when a command fails. Keeping them in one place ensures consistent wording
// across commands.
package app

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-note-vault/internal/codec"
	"github.com/MKhiriev/go-note-vault/internal/config"
	"github.com/MKhiriev/go-note-vault/internal/crypto"
	"github.com/MKhiriev/go-note-vault/internal/service"
	"github.com/MKhiriev/go-note-vault/internal/store"
)

const (
	// MsgInvalidDataProvided is printed when the value to save is not valid
	// JSON or cannot be serialized.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgDataNotFound is printed when nothing usable is stored under the
	// requested logical key.
	MsgDataNotFound = "data not found"

	// MsgEmptyLogicalKey is printed when the logical key argument is blank.
	MsgEmptyLogicalKey = "logical key must not be empty"

	// MsgReservedLogicalKey is printed when the logical key collides with a
	// key artifact name.
	MsgReservedLogicalKey = "logical key is reserved"

	// MsgInvalidConfig is printed when configuration validation fails.
	MsgInvalidConfig = "invalid configuration"

	// MsgStorageFull is printed when the substrate has no room left.
	MsgStorageFull = "storage is full"

	// MsgAccessDenied is printed when the substrate refuses the operation.
	MsgAccessDenied = "access to storage denied"

	// MsgStorageUnavailable is printed for any other substrate failure.
	MsgStorageUnavailable = "storage is unavailable"

	// MsgKeyUnavailable is printed when the encryption key cannot be
	// created, imported or exported.
	MsgKeyUnavailable = "encryption key is unavailable"

	// MsgEncryptionFailed is printed when a value could not be sealed.
	MsgEncryptionFailed = "encryption failed"

	// MsgCorruptedData is printed when a stored record cannot be decoded.
	MsgCorruptedData = "stored data is corrupted"

	// MsgClipboardUnavailable is printed when --copy cannot reach the
	// system clipboard.
	MsgClipboardUnavailable = "clipboard is unavailable"

	// MsgConfirmationRequired is printed when a destructive command runs
	// without --yes.
	MsgConfirmationRequired = "refusing to clear all data without --yes"

	// MsgInternalError is printed for anything not covered above.
	MsgInternalError = "internal error"
)

// Codes carried in API error responses. Each one stands for a group of
// errors that share a Msg* constant.
const (
	CodeNotFound             = "not_found"
	CodeConfirmationRequired = "confirmation_required"
	CodeClipboard            = "clipboard_unavailable"
	CodeInvalidData          = "invalid_data"
	CodeEmptyLogicalKey      = "empty_logical_key"
	CodeReservedLogicalKey   = "reserved_logical_key"
	CodeInvalidConfig        = "invalid_config"
	CodeStorageFull          = "storage_full"
	CodeAccessDenied         = "access_denied"
	CodeStorageUnavailable   = "storage_unavailable"
	CodeKeyUnavailable       = "key_unavailable"
	CodeEncryptionFailed     = "encryption_failed"
	CodeCorruptedData        = "corrupted_data"
	CodeInternal             = "internal"
)

var (
	// ErrNotFound is returned by commands that require stored data.
	ErrNotFound = errors.New(MsgDataNotFound)

	// ErrConfirmationRequired is returned by clear without --yes.
	ErrConfirmationRequired = errors.New(MsgConfirmationRequired)

	// ErrClipboard wraps clipboard failures.
	ErrClipboard = errors.New(MsgClipboardUnavailable)

	// ErrInvalidInput wraps malformed command input.
	ErrInvalidInput = errors.New(MsgInvalidDataProvided)

	// ErrStorageUnavailable stands in for a remote substrate failure whose
	// exact operation is unknown to the client.
	ErrStorageUnavailable = errors.New(MsgStorageUnavailable)

	// ErrInternal stands in for an unclassified remote failure.
	ErrInternal = errors.New(MsgInternalError)
)

type errorKind struct {
	code    string
	message string
	// targets are matched with errors.Is; targets[0] is what a code
	// received from the API turns back into.
	targets []error
}

// errorKinds is ordered: the most specific kind comes first, so a quota
// failure is reported as such even though it is also a write failure.
var errorKinds = []errorKind{
	{CodeNotFound, MsgDataNotFound, []error{ErrNotFound}},
	{CodeConfirmationRequired, MsgConfirmationRequired, []error{ErrConfirmationRequired}},
	{CodeClipboard, MsgClipboardUnavailable, []error{ErrClipboard}},
	{CodeInvalidData, MsgInvalidDataProvided, []error{ErrInvalidInput, codec.ErrSerializeFailed}},
	{CodeEmptyLogicalKey, MsgEmptyLogicalKey, []error{service.ErrEmptyLogicalKey}},
	{CodeReservedLogicalKey, MsgReservedLogicalKey, []error{service.ErrReservedLogicalKey}},
	{CodeInvalidConfig, MsgInvalidConfig, []error{
		config.ErrInvalidStorageConfigs,
		config.ErrInvalidVaultConfigs,
		config.ErrInvalidWorkerConfigs,
		config.ErrInvalidServerConfigs,
		config.ErrInvalidRemoteConfigs,
	}},
	{CodeStorageFull, MsgStorageFull, []error{store.ErrQuotaExceeded}},
	{CodeAccessDenied, MsgAccessDenied, []error{store.ErrAccessDenied}},
	{CodeStorageUnavailable, MsgStorageUnavailable, []error{
		ErrStorageUnavailable,
		store.ErrStorageReadFailed,
		store.ErrStorageWriteFailed,
		store.ErrStorageDeleteFailed,
		store.ErrStorageClearFailed,
		store.ErrStorageClosed,
	}},
	{CodeKeyUnavailable, MsgKeyUnavailable, []error{
		crypto.ErrKeyGenerationFailed,
		crypto.ErrKeyImportFailed,
		crypto.ErrKeyExportFailed,
		crypto.ErrMissingEncryptionKey,
	}},
	{CodeEncryptionFailed, MsgEncryptionFailed, []error{crypto.ErrEncryptionFailed, crypto.ErrBase64EncodeFailed}},
	{CodeCorruptedData, MsgCorruptedData, []error{
		crypto.ErrDecryptionFailed,
		crypto.ErrInvalidIVSize,
		crypto.ErrUnsupportedAlgorithm,
		crypto.ErrBase64DecodeFailed,
		codec.ErrDeserializeFailed,
	}},
}

var internalKind = errorKind{CodeInternal, MsgInternalError, []error{ErrInternal}}

func classify(err error) errorKind {
	for _, kind := range errorKinds {
		for _, target := range kind.targets {
			if errors.Is(err, target) {
				return kind
			}
		}
	}
	return internalKind
}

// UserMessage maps err to the message shown on the terminal.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return classify(err).message
}

// ErrorCode maps err to the code sent in API error responses.
func ErrorCode(err error) string {
	return classify(err).code
}

// ErrorFromCode rebuilds an error received from the API so that errors.Is
// and UserMessage treat it like its local counterpart. detail is kept in
// the error text.
func ErrorFromCode(code, detail string) error {
	kind := internalKind
	for _, k := range errorKinds {
		if k.code == code {
			kind = k
			break
		}
	}
	if detail == "" {
		return kind.targets[0]
	}
	return fmt.Errorf("%w: %s", kind.targets[0], detail)
}
