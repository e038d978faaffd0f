package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-note-vault/internal/logger"
)

// DefaultMigrationInterval is used by Start for a non-positive interval.
const DefaultMigrationInterval = 5 * time.Minute

type migrationJob struct {
	svc    PersistenceService
	keys   []string
	logger *logger.Logger

	// mu is held for the whole of Start and Stop, so at most one sweep
	// goroutine exists and Stop never returns before it has exited.
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMigrationJob creates a job that loads every key in keys through svc.
// The job is idle until Start or RunOnce is called.
func NewMigrationJob(svc PersistenceService, keys []string, log *logger.Logger) MigrationJob {
	if log == nil {
		log = logger.Nop()
	}
	return &migrationJob{svc: svc, keys: keys, logger: log}
}

// RunOnce implements MigrationJob. A failure on one key does not stop the
// sweep; all failures are returned joined.
func (j *migrationJob) RunOnce(ctx context.Context) error {
	var errs []error
	for _, key := range j.keys {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		var doc any
		if _, err := j.svc.Load(ctx, key, &doc); err != nil {
			j.logger.Err(err).Str("func", "migrationJob.RunOnce").Str("logical_key", key).Msg("migration sweep failed for key")
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// Start implements MigrationJob. It stops any previously running job, then
// launches a background goroutine that calls RunOnce every interval. The
// goroutine exits when ctx is cancelled or Stop is called.
func (j *migrationJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultMigrationInterval
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.stopLocked()

	jobCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	j.cancel, j.done = cancel, done

	go func() {
		defer close(done)
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				_ = j.RunOnce(jobCtx)
			}
		}
	}()
}

// Stop implements MigrationJob. It cancels the background goroutine's context
// and blocks until the goroutine has fully exited. Safe to call when the job
// is not running.
func (j *migrationJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.stopLocked()
}

func (j *migrationJob) stopLocked() {
	if j.cancel == nil {
		return
	}
	j.cancel()
	<-j.done
	j.cancel, j.done = nil, nil
}
