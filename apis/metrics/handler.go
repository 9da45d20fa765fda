// Package metrics serves Prometheus metrics for the service.
package metrics

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler exposes a dedicated registry holding the Go runtime collector plus
// the collectors passed to NewHandler.
type Handler struct {
	registry *prometheus.Registry
	serve    fiber.Handler
}

func NewHandler(extra ...prometheus.Collector) (*Handler, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register go collector: %w", err)
	}
	for _, c := range extra {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return &Handler{
		registry: reg,
		serve:    adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
	}, nil
}

// Metrics handles GET /metrics in the Prometheus text format.
func (h *Handler) Metrics(c *fiber.Ctx) error {
	return h.serve(c)
}
