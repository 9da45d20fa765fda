package integrations

import (
	"github.com/gofiber/fiber/v2"

	"github.com/redhat-appstudio/ops-flow/apis/common"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/sonarqube"
)

// SonarQubeProjects handles GET /api/v1/integrations/:id/sonarqube/projects.
func (h *Handler) SonarQubeProjects(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	adapter, err := adapterFor[*sonarqube.Adapter](h, ctx, c, integrations.TypeSonarQube)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	projects, err := adapter.FetchProjects(ctx)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	return c.JSON(projects)
}

// SonarQubeMetrics handles GET /api/v1/integrations/:id/sonarqube/projects/:key/metrics.
func (h *Handler) SonarQubeMetrics(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	adapter, err := adapterFor[*sonarqube.Adapter](h, ctx, c, integrations.TypeSonarQube)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	metrics, err := adapter.FetchMetrics(ctx, c.Params("key"))
	if err != nil {
		return common.IntegrationError(c, err)
	}
	return c.JSON(metrics)
}
