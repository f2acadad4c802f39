package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SecretPurger removes consumed and expired secrets.
type SecretPurger interface {
	Purge(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error)
}

// RunPurgeSecrets deletes consumed and expired secrets created more than hours ago.
// With dryRun set it only reports how many would be deleted.
func RunPurgeSecrets(
	ctx context.Context,
	purger SecretPurger,
	logger *slog.Logger,
	io IOTuple,
	hours int,
	dryRun bool,
	format string,
) error {
	if hours < 0 {
		return fmt.Errorf("hours must be a positive number, got: %d", hours)
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("purging secrets", slog.Int("hours", hours), slog.Bool("dry_run", dryRun))

	count, err := purger.Purge(ctx, time.Duration(hours)*time.Hour, dryRun)
	if err != nil {
		return fmt.Errorf("failed to purge secrets: %w", err)
	}

	if format == "json" {
		if err := writeJSON(io.Writer, map[string]interface{}{
			"count":   count,
			"hours":   hours,
			"dry_run": dryRun,
		}); err != nil {
			return err
		}
	} else if dryRun {
		fmt.Fprintf(io.Writer, "Dry-run mode: Would delete %d secret(s) older than %d hour(s)\n", count, hours)
	} else {
		fmt.Fprintf(io.Writer, "Successfully deleted %d secret(s) older than %d hour(s)\n", count, hours)
	}

	logger.Info("purge completed", slog.Int64("count", count), slog.Bool("dry_run", dryRun))
	return nil
}
