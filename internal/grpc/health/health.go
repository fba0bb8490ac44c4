// Package health gRPC-сервис grpc.health.v1 веб-слоя. Статус SERVING выставляется,
// пока FitFlow API отвечает на проверки.
package health

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
)

// ServiceName имя сервиса в ответах health.
const ServiceName = "fitflow.web"

// Checker проверяет доступность зависимости.
type Checker interface {
	Ping(ctx context.Context) error
}

// Server gRPC-сервер с health-сервисом и фоновым пробером.
type Server struct {
	grpc     *grpc.Server
	health   *health.Server
	checker  Checker
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger
}

// New создает сервер. Пока пробер не выполнил первую проверку, статус NOT_SERVING.
func New(checker Checker, interval time.Duration, log *slog.Logger) *Server {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	timeout := interval / 2
	if timeout <= 0 || timeout > 5*time.Second {
		timeout = 5 * time.Second
	}
	return &Server{
		grpc:     srv,
		health:   hs,
		checker:  checker,
		interval: interval,
		timeout:  timeout,
		log:      log,
	}
}

// Serve принимает соединения до остановки сервера.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// Probe выполняет одну проверку и обновляет статус.
func (s *Server) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	const op = "health.Probe"

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.checker.Ping(ctx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.log.Warn("upstream is not reachable", sl.Op(op), sl.Err(err))
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// RunProber проверяет зависимость сразу и затем каждые interval до отмены ctx.
func (s *Server) RunProber(ctx context.Context) {
	s.Probe(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Probe(ctx)
		}
	}
}

// Stop переводит статус в NOT_SERVING и останавливает сервер.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
