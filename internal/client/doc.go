// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the notevault command-line client.
//
// It wires configuration, the storage substrate, the persistence engine and
// the background migration worker into cobra commands that save, load,
// inspect and remove encrypted documents by logical key.
package client
