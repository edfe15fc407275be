package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	binanceadapter "lobmonitor/internal/adapters/exchange/binance"
	"lobmonitor/internal/app/realflow"
	"lobmonitor/internal/config"
	"lobmonitor/internal/shared/logging"
	"lobmonitor/internal/transport/cli"
	"lobmonitor/internal/usecase"
)

// Терминал занят дашбордом, поэтому логи по умолчанию — в файл.
const defaultLogFile = "lobmonitor.log"

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Ошибка выполнения: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("LOBMONITOR_CONFIG"))
	if err != nil {
		return err
	}
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = defaultLogFile
	}
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Env: cfg.App.Env, File: logFile})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	md := binanceadapter.New(cfg.Exchange.Endpoint(), cfg.Exchange.Timeout)
	sess := usecase.NewSession(md, cfg.Monitor.Settings(), logger)

	dash, err := cli.NewDashboard()
	if err != nil {
		return err
	}
	flow := realflow.New(sess, dash, cfg.Monitor.Interval, logger)

	logger.Info("terminal dashboard starting",
		zap.String("session", sess.ID()),
		zap.String("endpoint", md.Endpoint()),
		zap.Bool("testnet", cfg.Exchange.Testnet))
	_ = realflow.Probe(ctx, md, 3, logger)

	flowCtx, stopFlow := context.WithCancel(ctx)
	defer stopFlow()
	flowDone := make(chan struct{})
	go func() {
		defer close(flowDone)
		_ = flow.Run(flowCtx)
	}()

	err = cli.Run(ctx, dash, flow, cfg.Monitor.Available, logger)
	stopFlow()
	<-flowDone
	return err
}
