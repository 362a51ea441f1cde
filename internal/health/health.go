// Package health reports readiness over gRPC and HTTP.
package health

import (
	"context"
	"net"

	"go-sales-desk/pkg/database"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"
)

// Dependency reports whether an optional service, such as the broker, is up
type Dependency func() bool

// Checker pings the database and every registered dependency
type Checker struct {
	db   *gorm.DB
	deps map[string]Dependency
	log  *zap.Logger
}

func NewChecker(db *gorm.DB, log *zap.Logger) *Checker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{db: db, deps: map[string]Dependency{}, log: log}
}

// AddDependency registers a named dependency check
func (h *Checker) AddDependency(name string, up Dependency) {
	h.deps[name] = up
}

// Status returns the name of each failing dependency, empty when healthy
func (h *Checker) Status(ctx context.Context) map[string]string {
	failing := map[string]string{}

	if err := database.Ping(ctx, h.db); err != nil {
		h.log.Error("Database health check failed", zap.Error(err))
		failing["database"] = err.Error()
	}

	for name, up := range h.deps {
		if !up() {
			h.log.Error("Dependency health check failed", zap.String("dependency", name))
			failing[name] = "unavailable"
		}
	}
	return failing
}

// Handler answers 200 when healthy and 503 otherwise
func (h *Checker) Handler(c *fiber.Ctx) error {
	failing := h.Status(c.UserContext())
	if len(failing) > 0 {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"failed": failing,
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Server implements the gRPC health checking protocol
type Server struct {
	grpc_health_v1.UnimplementedHealthServer
	checker *Checker
}

func NewServer(checker *Checker) *Server {
	return &Server{checker: checker}
}

func (s *Server) status(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	if len(s.checker.Status(ctx)) > 0 {
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

func (s *Server) Check(ctx context.Context, _ *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	return &grpc_health_v1.HealthCheckResponse{Status: s.status(ctx)}, nil
}

// Watch sends the current status once
func (s *Server) Watch(_ *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	return stream.Send(&grpc_health_v1.HealthCheckResponse{Status: s.status(stream.Context())})
}

// Serve runs a gRPC server exposing only the health service until ctx ends
func Serve(ctx context.Context, addr string, checker *Checker, log *zap.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, NewServer(checker))

	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	log.Info("gRPC health server listening", zap.String("addr", addr))
	return srv.Serve(lis)
}
