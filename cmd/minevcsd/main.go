package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minevcs/minevcs/internal/adapter"
	"github.com/minevcs/minevcs/internal/backend/local"
	"github.com/minevcs/minevcs/internal/backend/server"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		configPath  string
		listen      string
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&listen, "listen", "", "listen address, overrides server.listen")
	flag.Parse()

	if showVersion {
		fmt.Printf("minevcsd %s\n", Version)
		return
	}

	if err := run(configPath, listen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, listen string) error {
	cfg, err := adapter.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if listen != "" {
		cfg.Server.Listen = listen
	}

	logger, logFile, err := adapter.SetupLogger(cfg.Logging)
	if err != nil {
		// A daemon without a log file still logs to stderr
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		logger.Warn("file logging unavailable", "error", err)
	} else {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	backend, closer, err := local.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open local backend: %w", err)
	}
	defer closer.Close()

	if cfg.Server.Token == "" {
		logger.Warn("server.token is empty, API is unauthenticated")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           server.NewRouter(backend, cfg.Server.Token, logger),
		// No WriteTimeout: the event stream stays open
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("minevcsd starting", "version", Version, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("server stopped")
	return nil
}
