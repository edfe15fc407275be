package webserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	binanceadapter "lobmonitor/internal/adapters/exchange/binance"
	apphealth "lobmonitor/internal/app/health"
	"lobmonitor/internal/app/realflow"
	"lobmonitor/internal/config"
	"lobmonitor/internal/transport/httpapi"
	"lobmonitor/internal/usecase"
	"lobmonitor/internal/usecase/presenter"
)

const probeAttempts = 3

// App — веб-режим: цикл тиков, HTTP API с websocket и gRPC health.
type App struct {
	logger *zap.Logger

	md    *binanceadapter.BinanceExchange
	flow  *realflow.Flow
	http  *httpapi.Server
	grpc  *grpc.Server
	conn  *grpc.ClientConn
	grpcL net.Listener
}

func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	// Источник: Binance REST, testnet или mainnet
	md := binanceadapter.New(cfg.Exchange.Endpoint(), cfg.Exchange.Timeout)
	// Ядро: состояние дашборда
	sess := usecase.NewSession(md, cfg.Monitor.Settings(), logger)

	hs := health.NewServer()
	reporter := apphealth.NewReporter(hs, logger)
	gs := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(gs, hs)

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return nil, fmt.Errorf("grpc listen %s: %w", cfg.GRPC.Addr, err)
	}
	// gateway читает health через обычный gRPC-клиент
	conn, err := grpc.NewClient(dialTarget(lis.Addr()),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		_ = lis.Close()
		return nil, fmt.Errorf("grpc client: %w", err)
	}

	hub := httpapi.NewHub(logger)
	flow := realflow.New(sess, presenter.Multi{hub, reporter}, cfg.Monitor.Interval, logger)
	srv := httpapi.New(cfg.HTTP.Addr, flow, hub, grpc_health_v1.NewHealthClient(conn), cfg.Monitor.Available, logger)

	logger.Info("web app assembled",
		zap.String("session", sess.ID()),
		zap.String("endpoint", md.Endpoint()),
		zap.Bool("testnet", cfg.Exchange.Testnet))

	return &App{logger: logger, md: md, flow: flow, http: srv, grpc: gs, conn: conn, grpcL: lis}, nil
}

// Run работает до отмены ctx, затем гасит серверы.
func (a *App) Run(ctx context.Context) error {
	errc := make(chan error, 2)

	go func() {
		a.logger.Info("gRPC health server listening", zap.String("addr", a.grpcL.Addr().String()))
		if err := a.grpc.Serve(a.grpcL); err != nil {
			errc <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		if err := a.http.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("http server: %w", err)
		}
	}()

	_ = realflow.Probe(ctx, a.md, probeAttempts, a.logger)

	flowCtx, stopFlow := context.WithCancel(ctx)
	defer stopFlow()
	flowDone := make(chan struct{})
	go func() {
		defer close(flowDone)
		_ = a.flow.Run(flowCtx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errc:
		a.logger.Error("server failed", zap.Error(runErr))
	}

	stopFlow()
	<-flowDone
	a.shutdown()
	return runErr
}

func (a *App) shutdown() {
	a.logger.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.http.Shutdown(ctx); err != nil {
		a.logger.Warn("http shutdown error", zap.Error(err))
	}
	a.grpc.GracefulStop()
	_ = a.conn.Close()
	a.logger.Info("server stopped gracefully")
}

// dialTarget — адрес для локального клиента: ":9090" и "[::]:9090" → 127.0.0.1.
func dialTarget(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok || tcp.IP == nil || tcp.IP.IsUnspecified() {
		_, port, err := net.SplitHostPort(addr.String())
		if err != nil {
			return addr.String()
		}
		return net.JoinHostPort("127.0.0.1", port)
	}
	return addr.String()
}
