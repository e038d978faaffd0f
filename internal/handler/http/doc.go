// Package http implements the loopback REST API of the notevault engine.
//
// It exposes route wiring, request handlers and middleware. Request tracing,
// access logging and response compression are handled in this package
// before requests reach the persistence service. Item bodies are JSON
// documents in the engine's tagged-date form; errors are reported as
// [models.ErrorResponse] with a code from the app package.
package http
