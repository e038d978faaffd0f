// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/internal/service"
)

// MigrationWorker sweeps the configured logical keys once on Run and then
// every interval, re-encrypting any legacy plaintext it finds.
type MigrationWorker struct {
	job      service.MigrationJob
	interval time.Duration
	logger   *logger.Logger
}

// NewMigrationWorker returns nil when job is nil, so that the result can be
// passed to NewWorkers unconditionally.
func NewMigrationWorker(job service.MigrationJob, interval time.Duration, log *logger.Logger) Worker {
	if job == nil {
		return nil
	}
	if log == nil {
		log = logger.Nop()
	}
	return &MigrationWorker{job: job, interval: interval, logger: log}
}

func (w *MigrationWorker) Run(ctx context.Context) {
	if err := w.job.RunOnce(ctx); err != nil {
		w.logger.Warn().Err(err).Str("func", "MigrationWorker.Run").Msg("initial migration sweep finished with errors")
	}
	w.job.Start(ctx, w.interval)
	w.logger.Debug().Str("func", "MigrationWorker.Run").Dur("interval", w.interval).Msg("migration worker started")
}

func (w *MigrationWorker) Stop() {
	w.job.Stop()
	w.logger.Debug().Str("func", "MigrationWorker.Stop").Msg("migration worker stopped")
}
