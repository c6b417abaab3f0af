// Command leaderboard serves the score tables over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invasion/internal/config"
	"invasion/internal/leaderboard"
	"invasion/internal/leaderboard/sqlite"
	"invasion/internal/logging"
	"invasion/internal/ports"
	"invasion/internal/ports/httpapi"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.ParseEnv()
	if err != nil {
		return err
	}
	zl, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(store, logging.Runtime(zl)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zl.Info("leaderboard listening", zap.String("addr", cfg.HTTPAddr), zap.String("backend", cfg.LeaderboardBackend))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	zl.Info("leaderboard shutting down")
	return srv.Shutdown(shutdownCtx)
}

func openStore(cfg config.ServerConfig) (ports.LeaderboardPort, func(), error) {
	if cfg.LeaderboardBackend == "sqlite" {
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	store, err := leaderboard.NewFileStore(cfg.LeaderboardDir)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}
