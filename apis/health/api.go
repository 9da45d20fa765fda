package health

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the health endpoint under router, which is
// expected to be the /api/v1 group.
func RegisterRoutes(router fiber.Router, handler *Handler) {
	router.Get("/health", handler.Health)
}
