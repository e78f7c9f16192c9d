package grpc

import (
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/ajkula/dirtidy/domain/port/outbound"
)

// OrganizerService is the health service name reported for the organizer itself
const OrganizerService = "dirtidy.Organizer"

// Server exposes the standard gRPC health protocol so supervisors
// (grpc_health_probe, kubelet) can check a running organizer
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	listener   net.Listener
	logger     outbound.Logger
}

func NewServer(logger outbound.Logger) *Server {
	s := &Server{
		grpcServer: grpc.NewServer(),
		health:     health.NewServer(),
		logger:     logger,
	}

	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	reflection.Register(s.grpcServer)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.health.SetServingStatus(OrganizerService, healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Start listens on address and reports SERVING
func (s *Server) Start(address string) error {
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = lis

	go func() {
		if err := s.grpcServer.Serve(lis); err != nil {
			s.logger.Error("gRPC server error", "error", err)
		}
	}()

	s.SetServing(true)
	s.logger.Info("gRPC health server started", "address", lis.Addr().String())
	return nil
}

// Addr is the bound address
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// SetServing flips the organizer status, e.g. while sessions are being stopped
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(OrganizerService, status)
}

// Stop reports NOT_SERVING to watchers then stops, forcing after a timeout
func (s *Server) Stop() {
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		s.logger.Info("gRPC server stopped gracefully")
	case <-time.After(10 * time.Second):
		s.logger.Warn("gRPC server stop timed out, forcing shutdown")
		s.grpcServer.Stop()
	}
}
