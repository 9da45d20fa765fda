package health

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/redhat-appstudio/ops-flow/internal/version"
)

// CheckTimeout bounds all dependency checks of one request.
const CheckTimeout = 3 * time.Second

var startTime = time.Now()

// Handler reports server status and the result of its dependency checks.
type Handler struct {
	checks []Check
}

func NewHandler(checks ...Check) *Handler {
	return &Handler{checks: checks}
}

// Health handles GET /api/v1/health. A failing check marks the server
// degraded and answers 503 so load balancers can react.
func (h *Handler) Health(c *fiber.Ctx) error {
	response := HealthResponse{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Version:   version.GetShortVersion(),
		Uptime:    time.Since(startTime).String(),
	}

	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(c.UserContext(), CheckTimeout)
		defer cancel()

		response.Checks = make(map[string]string, len(h.checks))
		for _, check := range h.checks {
			if err := check.Run(ctx); err != nil {
				response.Checks[check.Name] = err.Error()
				response.Status = StatusDegraded
				continue
			}
			response.Checks[check.Name] = "ok"
		}
	}

	if response.Status != StatusHealthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(response)
	}
	return c.JSON(response)
}
