package integrations

import (
	"github.com/gofiber/fiber/v2"

	"github.com/redhat-appstudio/ops-flow/apis/common"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/keycloak"
)

// KeycloakRealms handles GET /api/v1/integrations/:id/keycloak/realms.
func (h *Handler) KeycloakRealms(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	adapter, err := adapterFor[*keycloak.Adapter](h, ctx, c, integrations.TypeKeycloak)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	realms, err := adapter.FetchRealms(ctx)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	return c.JSON(realms)
}

// KeycloakClients handles GET /api/v1/integrations/:id/keycloak/realms/:realm/clients.
func (h *Handler) KeycloakClients(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	adapter, err := adapterFor[*keycloak.Adapter](h, ctx, c, integrations.TypeKeycloak)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	clients, err := adapter.FetchClients(ctx, c.Params("realm"))
	if err != nil {
		return common.IntegrationError(c, err)
	}
	return c.JSON(clients)
}
