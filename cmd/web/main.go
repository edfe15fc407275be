package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"lobmonitor/internal/app/webserver"
	"lobmonitor/internal/config"
	"lobmonitor/internal/shared/logging"
)

func main() {
	cfg, err := config.Load(os.Getenv("LOBMONITOR_CONFIG"))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Env: cfg.App.Env, File: cfg.Log.File})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	app, err := webserver.New(*cfg, logger)
	if err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		logger.Error("stopped with error", zap.Error(err))
		os.Exit(1)
	}
}
