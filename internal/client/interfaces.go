// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Execute parses the command line, runs the selected command and
	// releases every resource it opened before returning.
	Execute(ctx context.Context) error
}
