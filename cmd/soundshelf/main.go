package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"soundshelf/internal/store"
	"soundshelf/shared/go/config"
	"soundshelf/shared/go/logging"
)

func main() {
	cfg, err := config.Load("config/local.env", ".env")
	if err != nil {
		logging.Fatal(err, "Failed to load configuration")
	}

	logger := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	logging.SetGlobalLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	persister, closer, err := openPersister(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal(err, "Failed to open catalog storage")
	}
	defer closer.Close()

	dataStore, err := store.Open(ctx, persister)
	if err != nil {
		logger.Fatal(err, "Failed to load catalog")
	}
	fields := map[string]interface{}{"backend": cfg.Store.Backend}
	for kind, n := range dataStore.Reader().Counts() {
		fields[kind] = n
	}
	logger.WithFields(fields).Info().Msg("Catalog loaded")

	images, media, err := newResolvers(ctx, cfg.Blob)
	if err != nil {
		logger.Fatal(err, "Failed to configure media links")
	}

	handler, err := newHTTPHandler(cfg, dataStore, images, media, logger)
	if err != nil {
		logger.Fatal(err, "Failed to configure HTTP handler")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(map[string]interface{}{"addr": srv.Addr}).Info().Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error(err, "Server error")
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, "Graceful shutdown failed")
	}
}
