// Package flows serves the flow editor documents.
package flows

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/redhat-appstudio/ops-flow/apis/common"
	"github.com/redhat-appstudio/ops-flow/pkg/configstore"
)

type Handler struct {
	store  *configstore.FlowStore
	logger *zap.Logger
}

func NewHandler(store *configstore.FlowStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /api/v1/flows and returns metadata only.
func (h *Handler) List(c *fiber.Ctx) error {
	flows, err := h.store.List()
	if err != nil {
		return err
	}
	return c.JSON(flows)
}

// Load handles GET /api/v1/flows/:id.
func (h *Handler) Load(c *fiber.Ctx) error {
	flow, err := h.store.Load(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(flow)
}

// Save handles PUT /api/v1/flows and PUT /api/v1/flows/:id. The path id wins
// over the body id; without either a new id is assigned.
func (h *Handler) Save(c *fiber.Ctx) error {
	var flow configstore.Flow
	if err := c.BodyParser(&flow); err != nil {
		return common.BadRequest(c, "Invalid flow payload: "+err.Error())
	}
	if id := c.Params("id"); id != "" {
		flow.ID = id
	}

	saved, err := h.store.Save(flow)
	if err != nil {
		return h.fail(c, err)
	}

	h.logger.Info("Flow saved", zap.String("flow_id", saved.ID))
	return c.JSON(saved)
}

// Delete handles DELETE /api/v1/flows/:id.
func (h *Handler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.store.Delete(id); err != nil {
		return h.fail(c, err)
	}

	h.logger.Info("Flow deleted", zap.String("flow_id", id))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, configstore.ErrFlowNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case configstore.IsValidation(err):
		return common.BadRequest(c, err.Error())
	default:
		h.logger.Error("Flow store failure", zap.Error(err))
		return err
	}
}
