// Package settings serves the persisted projects, environments, integrations
// and mappings collections.
package settings

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/redhat-appstudio/ops-flow/apis/common"
	"github.com/redhat-appstudio/ops-flow/pkg/configstore"
)

// AdapterCache is cleared whenever the integration list is replaced.
type AdapterCache interface {
	ClearCache()
}

type Handler struct {
	store  *configstore.Store
	cache  AdapterCache
	logger *zap.Logger
}

func NewHandler(store *configstore.Store, cache AdapterCache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, cache: cache, logger: logger}
}

func (h *Handler) GetProjects(c *fiber.Ctx) error {
	return respond(c, h.store.LoadProjects)
}

func (h *Handler) PutProjects(c *fiber.Ctx) error {
	return replace(h, c, "projects", h.store.SaveProjects, nil)
}

func (h *Handler) GetEnvironments(c *fiber.Ctx) error {
	return respond(c, h.store.LoadEnvironments)
}

func (h *Handler) PutEnvironments(c *fiber.Ctx) error {
	return replace(h, c, "environments", h.store.SaveEnvironments, nil)
}

func (h *Handler) GetIntegrations(c *fiber.Ctx) error {
	return respond(c, h.store.LoadIntegrations)
}

// PutIntegrations replaces the integration list and drops every cached
// adapter, since any of them may have been built from a stale record.
func (h *Handler) PutIntegrations(c *fiber.Ctx) error {
	return replace(h, c, "integrations", h.store.SaveIntegrations, func() {
		if h.cache != nil {
			h.cache.ClearCache()
		}
	})
}

func (h *Handler) GetMappings(c *fiber.Ctx) error {
	return respond(c, h.store.LoadMappings)
}

func (h *Handler) PutMappings(c *fiber.Ctx) error {
	return replace(h, c, "mappings", h.store.SaveMappings, nil)
}

func respond[T any](c *fiber.Ctx, load func() ([]T, error)) error {
	items, err := load()
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// replace decodes a JSON array body, saves it and echoes what was stored.
// Rejected records leave the file untouched and produce a 400.
func replace[T any](h *Handler, c *fiber.Ctx, name string, save func([]T) error, after func()) error {
	var items []T
	if err := c.BodyParser(&items); err != nil {
		return common.BadRequest(c, "Invalid "+name+" payload: "+err.Error())
	}
	if items == nil {
		items = []T{}
	}

	if err := save(items); err != nil {
		if configstore.IsValidation(err) {
			return common.BadRequest(c, err.Error())
		}
		h.logger.Error("Failed to save settings", zap.String("collection", name), zap.Error(err))
		return err
	}
	if after != nil {
		after()
	}

	h.logger.Info("Settings saved", zap.String("collection", name), zap.Int("count", len(items)))
	return c.JSON(items)
}
