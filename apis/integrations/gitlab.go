package integrations

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/redhat-appstudio/ops-flow/apis/common"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/gitlab"
)

// GitLabProjects handles GET /api/v1/integrations/:id/gitlab/projects.
func (h *Handler) GitLabProjects(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	adapter, err := adapterFor[*gitlab.Adapter](h, ctx, c, integrations.TypeGitLab)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	projects, err := adapter.FetchProjects(ctx)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	return c.JSON(projects)
}

// GitLabPipelines handles GET /api/v1/integrations/:id/gitlab/projects/:project/pipelines.
func (h *Handler) GitLabPipelines(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	projectID, err := projectParam(c)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	adapter, err := adapterFor[*gitlab.Adapter](h, ctx, c, integrations.TypeGitLab)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	pipelines, err := adapter.FetchPipelines(ctx, projectID)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	return c.JSON(pipelines)
}

// GitLabWebhooks handles GET /api/v1/integrations/:id/gitlab/projects/:project/hooks.
func (h *Handler) GitLabWebhooks(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	projectID, err := projectParam(c)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	adapter, err := adapterFor[*gitlab.Adapter](h, ctx, c, integrations.TypeGitLab)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	hooks, err := adapter.FetchWebhooks(ctx, projectID)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	return c.JSON(hooks)
}

// GitLabTriggerPipeline handles POST /api/v1/integrations/:id/gitlab/projects/:project/pipelines.
func (h *Handler) GitLabTriggerPipeline(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	projectID, err := projectParam(c)
	if err != nil {
		return common.IntegrationError(c, err)
	}

	var req TriggerPipelineRequest
	if err := c.BodyParser(&req); err != nil {
		return common.BadRequest(c, "Invalid request body: "+err.Error())
	}
	if strings.TrimSpace(req.Ref) == "" {
		return common.IntegrationError(c, integrations.ConfigError("Pipeline ref is required"))
	}

	adapter, err := adapterFor[*gitlab.Adapter](h, ctx, c, integrations.TypeGitLab)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	pipeline, err := adapter.TriggerPipeline(ctx, projectID, req.Ref)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pipeline)
}

func projectParam(c *fiber.Ctx) (int, error) {
	raw := c.Params("project")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, integrations.ConfigError("Invalid project id: %s", raw)
	}
	return id, nil
}
