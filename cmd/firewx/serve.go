package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/couchcryptid/hawaii-firewx/internal/adapter/http"
	"github.com/couchcryptid/hawaii-firewx/internal/pipeline"
	"github.com/spf13/cobra"
)

func newServeCmd(sf *styleFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Re-render the configured jobs on an interval and serve health endpoints",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := newApp(*sf)
			if err != nil {
				return err
			}
			defer a.close()
			cfg, logger := a.cfg, a.logger

			jobs := pipeline.DefaultJobs(cfg.ReferenceSystem)
			if cfg.JobsFile != "" {
				jobs, err = pipeline.LoadJobs(cfg.JobsFile)
				if err != nil {
					return err
				}
			}
			scheduler, err := pipeline.NewScheduler(a.plotter, jobs, cfg.ReferenceSystem, cfg.RenderInterval, logger, a.metrics)
			if err != nil {
				return err
			}

			srv := httpadapter.NewServer(cfg.HTTPAddr, scheduler, logger)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			serve(ctx, srv, scheduler, cfg.ShutdownTimeout, logger)
			return nil
		},
	}
}

type httpService interface {
	Start() error
	Shutdown(ctx context.Context) error
}

type renderLoop interface {
	Run(ctx context.Context) error
}

// serve runs the HTTP server and the render loop until ctx is cancelled. It
// returns once the loop has stopped, so nothing it publishes to outlives the
// caller, or when shutdownTimeout elapses first.
func serve(ctx context.Context, srv httpService, loop renderLoop, shutdownTimeout time.Duration, logger *slog.Logger) {
	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start render loop.
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := loop.Run(ctx); err != nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	select {
	case <-loopDone:
	case <-shutdownCtx.Done():
		logger.Error("scheduler did not stop before shutdown timeout")
		return
	}

	logger.Info("shutdown complete")
}
