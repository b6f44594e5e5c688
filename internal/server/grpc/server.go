package internalgrpc

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/lomoval/otus-golang/eventrsvp/internal/app"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const (
	ServiceName         = "eventrsvp"
	defaultPingInterval = 10 * time.Second
)

type Config struct {
	Host         string
	Port         int `validate:"min:0|max:65535"`
	PingInterval time.Duration
}

// Server exposes the standard health service. Serving status follows the
// storage availability.
type Server struct {
	grpcServer   *grpc.Server
	health       *health.Server
	app          *app.App
	addr         string
	pingInterval time.Duration
}

func NewServer(config Config, app *app.App) *Server {
	s := &Server{
		app:          app,
		addr:         net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		pingInterval: config.PingInterval,
		health:       health.NewServer(),
		grpcServer:   grpc.NewServer(grpc.UnaryInterceptor(loggingHandler)),
	}
	if s.pingInterval <= 0 {
		s.pingInterval = defaultPingInterval
	}
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	reflection.Register(s.grpcServer)
	return s
}

func (s *Server) Start(ctx context.Context) error {
	lsn, err := net.Listen("tcp", s.addr)
	if err != nil {
		log.Errorf("failed to listen grpc endpoint: %v", err)
		return err
	}

	log.Printf("starting grpc server on %s", s.addr)
	return s.Serve(ctx, lsn)
}

// Serve checks the storage once, then keeps checking it every ping interval
// until ctx is done.
func (s *Server) Serve(ctx context.Context, lsn net.Listener) error {
	s.checkStorage(ctx)
	go s.watchStorage(ctx)
	return s.grpcServer.Serve(lsn)
}

func (s *Server) Stop(_ context.Context) error {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	return nil
}

func (s *Server) watchStorage(ctx context.Context) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkStorage(ctx)
		}
	}
}

func (s *Server) checkStorage(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.pingInterval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.app.Ping(ctx); err != nil {
		log.Warnf("storage is unavailable: %v", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
