package integrations

import (
	"github.com/gofiber/fiber/v2"

	"github.com/redhat-appstudio/ops-flow/apis/common"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/kubernetes"
)

func (h *Handler) KubernetesNamespaces(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	adapter, err := adapterFor[*kubernetes.Adapter](h, ctx, c, integrations.TypeKubernetes)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	namespaces, err := adapter.FetchNamespaces(ctx)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	return c.JSON(namespaces)
}

func (h *Handler) KubernetesPods(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	adapter, err := adapterFor[*kubernetes.Adapter](h, ctx, c, integrations.TypeKubernetes)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	pods, err := adapter.FetchPods(ctx, c.Params("ns"))
	if err != nil {
		return common.IntegrationError(c, err)
	}
	return c.JSON(pods)
}

func (h *Handler) KubernetesPodDetails(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	adapter, err := adapterFor[*kubernetes.Adapter](h, ctx, c, integrations.TypeKubernetes)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	pod, err := adapter.FetchPodDetails(ctx, c.Params("ns"), c.Params("pod"))
	if err != nil {
		return common.IntegrationError(c, err)
	}
	return c.JSON(pod)
}

func (h *Handler) KubernetesServices(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	adapter, err := adapterFor[*kubernetes.Adapter](h, ctx, c, integrations.TypeKubernetes)
	if err != nil {
		return common.IntegrationError(c, err)
	}
	services, err := adapter.FetchServices(ctx, c.Params("ns"))
	if err != nil {
		return common.IntegrationError(c, err)
	}
	return c.JSON(services)
}
