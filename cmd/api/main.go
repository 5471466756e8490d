package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"example.com/markdown-notes/internal/config"
	"example.com/markdown-notes/internal/logging"
	"example.com/markdown-notes/internal/notes"
	"example.com/markdown-notes/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load(os.Getenv("NOTES_CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(cfg.Log, cfg.App.Name)
	logger.Info().
		Str("environment", cfg.App.Environment).
		Bool("metrics", cfg.Metrics.Enabled).
		Msg("starting notes API")

	srv := server.New(cfg, logger, notes.NewMemoryStore())
	serverErr := srv.Start()

	return waitForShutdown(logger, srv, serverErr, cfg.HTTP.ShutdownTimeout)
}

// waitForShutdown blocks until SIGINT/SIGTERM or a server error, then
// drains in-flight requests for at most timeout.
func waitForShutdown(logger zerolog.Logger, srv *server.Server, serverErr <-chan error, timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-serverErr:
		if ok && err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("shutdown complete")
	return nil
}
