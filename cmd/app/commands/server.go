package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/secretlink/internal/app"
	"github.com/allisson/secretlink/internal/config"
)

const shutdownTimeout = 30 * time.Second

// Server is a listener that runs until Shutdown is called.
type Server interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Worker is a background loop that runs until its context is cancelled.
type Worker interface {
	Start(ctx context.Context) error
}

// RunServer starts the API server, the metrics server when enabled and the purge
// worker when enabled. It blocks until SIGINT/SIGTERM or until any of them fails,
// then shuts the rest down.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))
	defer closeContainer(container, logger)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server, err := container.HTTPServer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}
	servers := []Server{server}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}
	if metricsServer != nil {
		servers = append(servers, metricsServer)
	}

	var workers []Worker
	if cfg.PurgeEnabled {
		purgeWorker, err := container.PurgeWorker()
		if err != nil {
			return fmt.Errorf("failed to initialize purge worker: %w", err)
		}
		workers = append(workers, purgeWorker)
	}

	return serve(ctx, logger, servers, workers)
}

// serve runs servers and workers in one errgroup. The first failure or the end
// of ctx shuts every server down.
func serve(ctx context.Context, logger *slog.Logger, servers []Server, workers []Worker) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, s := range servers {
		g.Go(func() error {
			return s.Start(gctx)
		})
	}

	for _, w := range workers {
		g.Go(func() error {
			if err := w.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		var shutdownErrors []error
		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, err)
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return g.Wait()
}
