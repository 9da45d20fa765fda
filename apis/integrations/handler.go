// Package integrations exposes connection tests and the per-service read and
// trigger operations of configured integrations over HTTP.
package integrations

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/redhat-appstudio/ops-flow/apis/common"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/monitors/connectivity"
)

// DefaultRequestTimeout bounds one command including adapter retries.
const DefaultRequestTimeout = 2 * time.Minute

// Handler serves the integration command routes.
type Handler struct {
	lookup   IntegrationLookup
	adapters AdapterProvider
	status   StatusProvider
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandler creates a handler. status may be nil when the connectivity
// monitor is disabled.
func NewHandler(lookup IntegrationLookup, adapters AdapterProvider, status StatusProvider, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		lookup:   lookup,
		adapters: adapters,
		status:   status,
		timeout:  DefaultRequestTimeout,
		logger:   logger,
		now:      time.Now,
	}
}

// TestConnection handles POST /api/v1/integrations/:id/test.
func (h *Handler) TestConnection(c *fiber.Ctx) error {
	ctx, cancel := h.context(c)
	defer cancel()

	id := c.Params("id")
	adapter, err := h.resolve(ctx, id, "")
	if err != nil {
		return common.IntegrationError(c, err)
	}

	if err := adapter.TestConnection(ctx); err != nil {
		h.logger.Warn("Connection test failed",
			zap.String("integration_id", id),
			zap.String("type", string(adapter.Type())),
			zap.Error(err))
		return common.IntegrationError(c, err)
	}

	h.logger.Info("Connection test succeeded", zap.String("integration_id", id))
	return c.JSON(ConnectionResult{IntegrationID: id, Success: true, CheckedAt: h.now().UTC()})
}

// Status handles GET /api/v1/integrations/status.
func (h *Handler) Status(c *fiber.Ctx) error {
	if h.status == nil {
		return c.JSON(connectivity.Snapshot{Statuses: []connectivity.Status{}})
	}
	return c.JSON(h.status.Snapshot())
}

func (h *Handler) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.timeout)
}

// resolve looks up the integration and returns its adapter. A non-empty want
// restricts the integration type.
func (h *Handler) resolve(ctx context.Context, id string, want integrations.IntegrationType) (integrations.Adapter, error) {
	integration, ok, err := h.lookup.FindIntegration(id)
	if err != nil {
		return nil, integrations.ConfigError("Failed to load integrations: %v", err)
	}
	if !ok {
		return nil, integrations.ConfigError("Integration not found: %s", id)
	}
	if want != "" && integration.Type != want {
		return nil, notA(id, want)
	}
	return h.adapters.GetAdapter(ctx, *integration)
}

func notA(id string, want integrations.IntegrationType) *integrations.Error {
	return integrations.ConfigError("Integration %s is not a %s integration", id, want.DisplayName())
}

// adapterFor resolves an integration of type want and asserts its concrete
// adapter type.
func adapterFor[T integrations.Adapter](h *Handler, ctx context.Context, c *fiber.Ctx, want integrations.IntegrationType) (T, error) {
	var zero T
	id := c.Params("id")

	adapter, err := h.resolve(ctx, id, want)
	if err != nil {
		return zero, err
	}
	typed, ok := adapter.(T)
	if !ok {
		return zero, notA(id, want)
	}
	return typed, nil
}
