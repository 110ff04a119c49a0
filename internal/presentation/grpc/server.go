package grpc

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/monowai/beancounter-sub001/pkg/auth"
)

// ServerConfig configures the gRPC server. A nil JWT disables authentication
// and nil Creds serves plaintext.
type ServerConfig struct {
	Port       int
	JWT        *auth.JWTService
	Creds      credentials.TransportCredentials
	Reflection bool
}

// Server wraps a gRPC server with health checks and the position handler.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *slog.Logger
	port       int
}

// NewServer creates a new gRPC Server with health checking.
func NewServer(handler *Handler, logger *slog.Logger, cfg ServerConfig) *Server {
	var serverOpts []grpc.ServerOption
	if cfg.JWT != nil {
		serverOpts = append(serverOpts, grpc.UnaryInterceptor(auth.UnaryAuthInterceptor(cfg.JWT, []string{
			"/grpc.health.v1.Health/Check",
			"/grpc.health.v1.Health/Watch",
		})))
	} else {
		logger.Warn("gRPC authentication disabled")
	}
	if cfg.Creds != nil {
		serverOpts = append(serverOpts, grpc.Creds(cfg.Creds))
		logger.Info("gRPC TLS enabled")
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	grpcServer := grpc.NewServer(serverOpts...)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	RegisterPositionServiceServer(grpcServer, handler)

	if cfg.Reflection {
		reflection.Register(grpcServer)
	}

	return &Server{
		grpcServer: grpcServer,
		health:     healthSrv,
		logger:     logger,
		port:       cfg.Port,
	}
}

// Start begins listening for gRPC connections on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen on %s: %w", addr, err)
	}
	s.logger.Info("gRPC server starting", "addr", addr)
	return s.Serve(lis)
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	if err := s.grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// Stop marks the service not serving and gracefully stops the server.
func (s *Server) Stop() {
	s.logger.Info("gRPC server stopping")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
