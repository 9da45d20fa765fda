package metrics

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts /metrics at the root of router, outside the API
// version prefix where scrapers expect it.
func RegisterRoutes(router fiber.Router, handler *Handler) {
	router.Get("/metrics", handler.Metrics)
}
