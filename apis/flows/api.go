package flows

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the flow document routes under router, which is
// expected to be the /api/v1 group.
func RegisterRoutes(router fiber.Router, handler *Handler) {
	group := router.Group("/flows")
	group.Get("/", handler.List)
	group.Put("/", handler.Save)
	group.Get("/:id", handler.Load)
	group.Put("/:id", handler.Save)
	group.Delete("/:id", handler.Delete)
}
