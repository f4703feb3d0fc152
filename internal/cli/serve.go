package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/csv2sendy/internal/config"
	"github.com/JonMunkholm/csv2sendy/internal/logging"
	"github.com/JonMunkholm/csv2sendy/internal/metrics"
	"github.com/JonMunkholm/csv2sendy/internal/session"
	"github.com/JonMunkholm/csv2sendy/internal/web"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and HTTP API",
		Long:  `Start the HTTP server. Configuration is read from the environment and an optional .env file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

// serve runs the HTTP server and the session sweeper until ctx is done or
// one of them fails.
func serve(ctx context.Context, cfg *config.Config) error {
	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"session_backend", cfg.Session.Backend,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"metrics_enabled", cfg.Metrics.Enabled,
	)

	store, err := session.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("close session store", "error", err)
		}
	}()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		if m, err = metrics.New(); err != nil {
			return err
		}
	}

	srv := web.NewServer(cfg, store, m)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		return nil
	})

	if sw, ok := store.(session.Sweeper); ok {
		g.Go(func() error {
			return session.RunSweeper(gctx, sw, cfg.Session.SweepInterval)
		})
	}

	err = g.Wait()
	slog.Info("server stopped")
	return err
}
