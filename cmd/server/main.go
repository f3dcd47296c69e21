package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/templui/darkroom/internal/app"
	"github.com/templui/darkroom/internal/config"
	"github.com/templui/darkroom/internal/logger"
	"github.com/templui/darkroom/internal/routes"
)

const (
	shutdownTimeout      = 15 * time.Second
	sessionPruneInterval = time.Hour
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN, cfg.AppName)
	defer sentry.Flush(2 * time.Second)

	slog.Info("config loaded", "config", cfg.Sanitized())

	app, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go pruneSessions(ctx, app)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", "http://localhost:"+cfg.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
		}
		return
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

// pruneSessions deletes expired sessions until ctx is done.
func pruneSessions(ctx context.Context, app *app.App) {
	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.AuthService.PruneSessions(ctx)
			if err != nil {
				slog.Warn("session pruning failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired sessions pruned", "count", n)
			}
		}
	}
}
