package health

import (
	"google.golang.org/grpc"

	healthgrpc "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server wraps grpc health server
type Server struct {
	server *healthgrpc.Server
}

// NewServer creates health server using default grpc health server.
func NewServer() *Server {
	return &Server{
		server: healthgrpc.NewServer(),
	}
}

// InitService marks serviceName as SERVING. The empty name reports the
// overall server status.
func (h *Server) InitService(serviceName string) {
	h.server.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
}

// MarkNotServing flips serviceName to NOT_SERVING, e.g. while a feed is disconnected.
func (h *Server) MarkNotServing(serviceName string) {
	h.server.SetServingStatus(serviceName, healthpb.HealthCheckResponse_NOT_SERVING)
}

// Shutdown sets all serving status to NOT_SERVING.
func (h *Server) Shutdown() {
	h.server.Shutdown()
}

// Register registers health server.
func (h *Server) Register(grpc *grpc.Server) {
	healthpb.RegisterHealthServer(grpc, h.server)
}
