package health

import (
	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"lobmonitor/internal/domain"
)

// Service — имя сервиса в gRPC health.
const Service = "lobmonitor"

// Reporter переводит результат тика в статус gRPC health:
// SERVING, если хоть один символ дал данные (или символы не выбраны),
// NOT_SERVING, если упали все.
type Reporter struct {
	srv    *health.Server
	logger *zap.Logger
	last   healthpb.HealthCheckResponse_ServingStatus
}

func NewReporter(srv *health.Server, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	// до первого тика считаем, что всё в порядке: процесс жив и интерактивен
	srv.SetServingStatus(Service, healthpb.HealthCheckResponse_SERVING)
	srv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return &Reporter{srv: srv, logger: logger, last: healthpb.HealthCheckResponse_SERVING}
}

func (r *Reporter) Render(report domain.TickReport) error {
	status := healthpb.HealthCheckResponse_SERVING
	if !report.Healthy() {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	if status != r.last {
		r.logger.Info("health status changed",
			zap.String("service", Service),
			zap.String("status", status.String()),
			zap.String("endpoint", report.Endpoint))
		r.last = status
	}
	r.srv.SetServingStatus(Service, status)
	return nil
}
