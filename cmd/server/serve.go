package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"caregiver-support/internal/config"
	"caregiver-support/internal/core"
	httpserver "caregiver-support/internal/http"
)

func newServeCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the caregiver support form over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rules, err := loadRuleset(ctx, cfg, logger)
			if err != nil {
				return err
			}
			srv, err := httpserver.NewServer(
				core.NewClassifier(rules),
				httpserver.NewSessionStore(cfg.SessionTTL),
				logger,
				cfg.MaxInputBytes,
			)
			if err != nil {
				return err
			}
			return listen(ctx, cfg.Addr(), srv, logger)
		},
	}
}

// listen serves h on addr until ctx is cancelled, then drains in-flight
// requests.
func listen(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
