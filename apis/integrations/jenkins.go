package integrations

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/redhat-appstudio/ops-flow/apis/common"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/jenkins"
)

// JenkinsJobs handles GET /api/v1/integrations/:id/jenkins/jobs.
func (h *Handler) JenkinsJobs(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	adapter, err := adapterFor[*jenkins.Adapter](h, ctx, c, integrations.TypeJenkins)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	jobs, err := adapter.FetchJobs(ctx)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	return c.JSON(jobs)
}

// JenkinsBuilds handles GET /api/v1/integrations/:id/jenkins/builds?job=.
func (h *Handler) JenkinsBuilds(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	job, err := jobQuery(c)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	adapter, err := adapterFor[*jenkins.Adapter](h, ctx, c, integrations.TypeJenkins)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	builds, err := adapter.FetchBuilds(ctx, job)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	return c.JSON(builds)
}

// JenkinsBuildDetails handles GET /api/v1/integrations/:id/jenkins/builds/:number?job=.
func (h *Handler) JenkinsBuildDetails(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	job, err := jobQuery(c)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	raw := c.Params("number")
	number, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return common.IntegrationError(c, integrations.ConfigError("Invalid build number: %s", raw))
	}

	adapter, err := adapterFor[*jenkins.Adapter](h, ctx, c, integrations.TypeJenkins)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	build, err := adapter.FetchBuildDetails(ctx, job, uint32(number))
	if err != nil {
		return common.IntegrationError(c, err)
	}
	return c.JSON(build)
}

// JenkinsTriggerBuild handles POST /api/v1/integrations/:id/jenkins/builds?job=.
// The body is optional; without parameters a plain build is queued.
func (h *Handler) JenkinsTriggerBuild(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	job, err := jobQuery(c)
	if err != nil {
		return common.IntegrationError(c, err)
	}

	var req TriggerBuildRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return common.BadRequest(c, "Invalid request body: "+err.Error())
		}
	}

	adapter, err := adapterFor[*jenkins.Adapter](h, ctx, c, integrations.TypeJenkins)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	if err := adapter.TriggerBuild(ctx, job, req.Parameters); err != nil {
		return common.IntegrationError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(TriggerBuildResponse{Job: job, Queued: true})
}

func jobQuery(c *fiber.Ctx) (string, error) {
	job := strings.Trim(c.Query("job"), "/")
	if job == "" {
		return "", integrations.ConfigError("Job name is required")
	}
	return job, nil
}
