// Package server runs the HTTP API of the notevault engine.
//
// It binds the listener up front, serves until the caller's context is
// cancelled and then shuts down gracefully, letting in-flight requests
// finish within the configured timeout.
package server
