// Package credentials saves, reads and deletes integration credentials in the
// configured secret store.
package credentials

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/redhat-appstudio/ops-flow/apis/common"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/storage"
)

// Store is the credential codec over the secret store.
type Store interface {
	Save(ctx context.Context, key string, creds integrations.Credentials) error
	Load(ctx context.Context, key string) (*integrations.Credentials, error)
	Delete(ctx context.Context, key string) error
}

// Invalidator drops cached adapters built from a credentials key.
type Invalidator interface {
	Invalidate(id string)
}

type Handler struct {
	store       Store
	invalidator Invalidator
	logger      *zap.Logger
}

func NewHandler(store Store, invalidator Invalidator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, invalidator: invalidator, logger: logger}
}

// Save handles PUT /api/v1/credentials/:id.
func (h *Handler) Save(c *fiber.Ctx) error {
	id := c.Params("id")

	var creds integrations.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return common.BadRequest(c, "Invalid credentials payload: "+err.Error())
	}

	if err := h.store.Save(c.UserContext(), id, creds); err != nil {
		h.logger.Error("Failed to save credentials", zap.String("integration_id", id), zap.Error(err))
		return err
	}
	h.invalidate(id)

	h.logger.Info("Credentials saved", zap.String("integration_id", id))
	return c.SendStatus(fiber.StatusNoContent)
}

// Get handles GET /api/v1/credentials/:id.
func (h *Handler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	creds, err := h.store.Load(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, storage.ErrCredentialsNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "No credentials found for integration: "+id)
		}
		return err
	}
	return c.JSON(creds)
}

// Delete handles DELETE /api/v1/credentials/:id. Deleting credentials that
// do not exist succeeds.
func (h *Handler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.store.Delete(c.UserContext(), id); err != nil {
		h.logger.Error("Failed to delete credentials", zap.String("integration_id", id), zap.Error(err))
		return err
	}
	h.invalidate(id)

	h.logger.Info("Credentials deleted", zap.String("integration_id", id))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) invalidate(id string) {
	if h.invalidator != nil {
		h.invalidator.Invalidate(id)
	}
}
