// Package worker runs background maintenance for stored secrets.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// Config holds purge worker configuration.
type Config struct {
	Interval  time.Duration
	Retention time.Duration
}

// Purger deletes dead secret records.
type Purger interface {
	Purge(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error)
}

// PurgeWorker periodically removes consumed and expired secrets.
type PurgeWorker struct {
	config Config
	purger Purger
	logger *slog.Logger
}

// NewPurgeWorker creates a new PurgeWorker.
func NewPurgeWorker(config Config, purger Purger, logger *slog.Logger) *PurgeWorker {
	return &PurgeWorker{
		config: config,
		purger: purger,
		logger: logger,
	}
}

// Start runs RunOnce on every tick until ctx is done. A failed run is logged and
// retried on the next tick.
func (w *PurgeWorker) Start(ctx context.Context) error {
	w.logger.Info("starting secret purge worker",
		slog.Duration("interval", w.config.Interval),
		slog.Duration("retention", w.config.Retention),
	)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopping secret purge worker")
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				w.logger.Error("failed to purge secrets", slog.Any("error", err))
			}
		}
	}
}

// RunOnce deletes dead records older than the configured retention.
func (w *PurgeWorker) RunOnce(ctx context.Context) (int64, error) {
	count, err := w.purger.Purge(ctx, w.config.Retention, false)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		w.logger.Info("purged secrets", slog.Int64("count", count))
	}

	return count, nil
}
