package health

import (
	"context"
	"net/http/httptest"
	"testing"

	"go-sales-desk/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func TestCheckerHealthy(t *testing.T) {
	checker := NewChecker(testutil.NewDB(t), nil)
	checker.AddDependency("rabbitmq", func() bool { return true })

	assert.Empty(t, checker.Status(context.Background()))

	resp, err := NewServer(checker).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)
}

func TestCheckerFailingDependency(t *testing.T) {
	checker := NewChecker(testutil.NewDB(t), nil)
	checker.AddDependency("rabbitmq", func() bool { return false })

	failing := checker.Status(context.Background())
	assert.Contains(t, failing, "rabbitmq")

	resp, err := NewServer(checker).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.Status)

	app := fiber.New()
	app.Get("/healthz", checker.Handler)
	httpResp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, httpResp.StatusCode)
}
