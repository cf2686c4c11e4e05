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

	"github.com/allisson/passvault/internal/app"
	"github.com/allisson/passvault/internal/config"
)

// Service is a long-running component that blocks in Start until ctx is cancelled.
type Service interface {
	Start(ctx context.Context) error
}

// Server is a Service that must be stopped with Shutdown.
type Server interface {
	Service
	Shutdown(ctx context.Context) error
}

// RunWorker starts the breach scheduler and, when metrics are enabled, the metrics
// server. Blocks until SIGINT/SIGTERM or a fatal error. Sessions are process-local, so
// the session sweeper runs in the process that serves AccountUseCase, not here.
func RunWorker(ctx context.Context, version string) error {
	cfg := config.Load()
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting worker", slog.String("version", version))

	defer closeContainer(container, logger)

	scheduler, err := container.BreachScheduler()
	if err != nil {
		return fmt.Errorf("failed to initialize breach scheduler: %w", err)
	}

	var metricsServer Server
	if cfg.MetricsEnabled {
		server, err := container.MetricsServer()
		if err != nil {
			return fmt.Errorf("failed to initialize metrics server: %w", err)
		}
		metricsServer = server
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return runServices(ctx, logger, cfg.DBConnMaxLifetime, metricsServer, map[string]Service{
		"breach scheduler": scheduler,
	})
}

// runServices runs every service and the optional server until ctx is cancelled or one
// of them fails, then shuts the server down within shutdownTimeout.
func runServices(
	ctx context.Context,
	logger *slog.Logger,
	shutdownTimeout time.Duration,
	server Server,
	services map[string]Service,
) error {
	g, gctx := errgroup.WithContext(ctx)

	for name, service := range services {
		g.Go(func() error {
			if err := service.Start(gctx); err != nil && !errors.Is(err, gctx.Err()) {
				return fmt.Errorf("%s error: %w", name, err)
			}
			return nil
		})
	}

	if server != nil {
		g.Go(func() error {
			if err := server.Start(gctx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("metrics server shutdown: %w", err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		logger.Error("worker stopped with error", slog.Any("error", err))
		return err
	}

	logger.Info("worker stopped")
	return nil
}
