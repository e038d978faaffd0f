// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run starts the worker and must not block: long-running work is expected
// to happen in goroutines owned by the worker, bound to ctx. Stop cancels
// that work and waits for it to finish.
//
// Example implementation:
//
//	type MyWorker struct{ job service.MigrationJob }
//
//	func (w *MyWorker) Run(ctx context.Context) { w.job.Start(ctx, time.Minute) }
//	func (w *MyWorker) Stop()                   { w.job.Stop() }
type Worker interface {
	Run(ctx context.Context)
	Stop()
}
