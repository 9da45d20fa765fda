package credentials

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the credential routes under router, which is
// expected to be the /api/v1 group.
func RegisterRoutes(router fiber.Router, handler *Handler) {
	group := router.Group("/credentials")
	group.Put("/:id", handler.Save)
	group.Get("/:id", handler.Get)
	group.Delete("/:id", handler.Delete)
}
