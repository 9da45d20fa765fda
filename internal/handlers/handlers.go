package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/redhat-appstudio/ops-flow/apis/credentials"
	"github.com/redhat-appstudio/ops-flow/apis/flows"
	"github.com/redhat-appstudio/ops-flow/apis/health"
	"github.com/redhat-appstudio/ops-flow/apis/integrations"
	"github.com/redhat-appstudio/ops-flow/apis/metrics"
	"github.com/redhat-appstudio/ops-flow/apis/settings"
	"github.com/redhat-appstudio/ops-flow/internal/version"
)

// Handlers groups the API handlers registered by SetupRoutes. A nil handler
// leaves its routes unregistered.
type Handlers struct {
	Health       *health.Handler
	Integrations *integrations.Handler
	Settings     *settings.Handler
	Credentials  *credentials.Handler
	Flows        *flows.Handler
	Metrics      *metrics.Handler
}

// SetupRoutes registers every API under /api/v1 plus the root and metrics
// endpoints.
func SetupRoutes(app *fiber.App, h Handlers) {
	v1 := app.Group("/api/v1")

	// Register all APIs here - just add one line per API
	if h.Health == nil {
		h.Health = health.NewHandler()
	}
	health.RegisterRoutes(v1, h.Health)
	if h.Settings != nil {
		settings.RegisterRoutes(v1, h.Settings)
	}
	if h.Integrations != nil {
		integrations.RegisterRoutes(v1, h.Integrations)
	}
	if h.Credentials != nil {
		credentials.RegisterRoutes(v1, h.Credentials)
	}
	if h.Flows != nil {
		flows.RegisterRoutes(v1, h.Flows)
	}

	if h.Metrics != nil {
		metrics.RegisterRoutes(app, h.Metrics)
	}
	app.Get("/", RootHandler)
}

// RootHandler handles requests to the root endpoint ("/").
// It returns basic server information including name, version, and available API endpoints.
func RootHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "ops-flow integration service",
		"version": version.GetShortVersion(),
		"docs":    "/api/v1/health",
	})
}
