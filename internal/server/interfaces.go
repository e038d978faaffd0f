package server

import "context"

// Server defines the lifecycle contract of the API server.
type Server interface {
	// RunServer serves requests until ctx is done, then shuts down
	// gracefully. It returns early if the listener fails.
	RunServer(ctx context.Context) error

	// Addr is the bound listen address, useful when the configured port
	// was 0.
	Addr() string
}
