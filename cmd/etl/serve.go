package main

import (
	"context"
	"errors"
	"net/http"

	httpadapter "github.com/couchcryptid/stadium-data-etl/internal/adapter/http"
	"github.com/couchcryptid/stadium-data-etl/internal/observability"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the pipeline every RUN_INTERVAL and expose health and metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cleanup, err := newPipeline(cfg, observability.NewMetrics(), logger)
			if err != nil {
				return err
			}
			defer cleanup()

			srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

			ctx, stop := context.WithCancel(cmd.Context())
			defer stop()

			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server error", "error", err)
					stop()
				}
			}()

			runErr := p.Run(ctx, cfg.RunInterval)

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
			logger.Info("shutdown complete")
			return runErr
		},
	}
}
