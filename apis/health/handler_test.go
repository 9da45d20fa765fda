package health

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-appstudio/ops-flow/internal/version"
)

func TestHealth(t *testing.T) {
	ok := Check{Name: "redis", Run: func(context.Context) error { return nil }}
	failing := Check{Name: "redis", Run: func(context.Context) error { return errors.New("connection refused") }}

	tests := []struct {
		name       string
		checks     []Check
		httpStatus int
		status     string
		results    map[string]string
	}{
		{name: "no checks", httpStatus: 200, status: StatusHealthy},
		{name: "passing check", checks: []Check{ok}, httpStatus: 200, status: StatusHealthy, results: map[string]string{"redis": "ok"}},
		{name: "failing check", checks: []Check{failing}, httpStatus: 503, status: StatusDegraded, results: map[string]string{"redis": "connection refused"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			RegisterRoutes(app.Group("/api/v1"), NewHandler(tt.checks...))

			resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/health", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.httpStatus, resp.StatusCode)

			var body HealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, version.GetShortVersion(), body.Version)
			assert.NotEmpty(t, body.Uptime)
			assert.False(t, body.Timestamp.IsZero())
			assert.Equal(t, tt.results, body.Checks)
		})
	}
}
