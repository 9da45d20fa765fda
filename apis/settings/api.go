package settings

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the configuration collection routes under router,
// which is expected to be the /api/v1 group.
func RegisterRoutes(router fiber.Router, handler *Handler) {
	router.Get("/projects", handler.GetProjects)
	router.Put("/projects", handler.PutProjects)

	router.Get("/environments", handler.GetEnvironments)
	router.Put("/environments", handler.PutEnvironments)

	router.Get("/integrations", handler.GetIntegrations)
	router.Put("/integrations", handler.PutIntegrations)

	router.Get("/mappings", handler.GetMappings)
	router.Put("/mappings", handler.PutMappings)
}
