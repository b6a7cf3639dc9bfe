package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/meditrack/trustcore/internal/app"
	"github.com/meditrack/trustcore/internal/config"
)

// RunWorker starts the background worker: the expired session sweeper plus the
// metrics HTTP server. Blocks until receiving SIGINT/SIGTERM or encountering a
// fatal error, then shuts both down gracefully.
func RunWorker(ctx context.Context, version string, passphrase string) error {
	// Load configuration
	cfg := config.Load()

	// Keep gin quiet outside debug logging
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create DI container
	container := app.NewContainer(cfg)
	if passphrase != "" {
		container.SetPassphrase(passphrase)
	}

	// Get logger from container
	logger := container.Logger()
	logger.Info("starting worker", slog.String("version", version))

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	sweeper, err := container.Sweeper()
	if err != nil {
		return fmt.Errorf("failed to initialize sweeper: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := sweeper.Run(groupCtx); err != nil && !isContextError(err) {
			return fmt.Errorf("sweeper error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		if err := metricsServer.Start(groupCtx); err != nil {
			return fmt.Errorf("metrics server error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		return err
	}

	logger.Info("worker stopped")
	return nil
}
