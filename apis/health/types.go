package health

import (
	"context"
	"time"
)

// Status values reported by the health endpoint.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// Check probes one dependency. A nil error means the dependency is usable.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

// HealthResponse represents the health check response structure.
type HealthResponse struct {
	// Status is "healthy" when every check passes, "degraded" otherwise
	Status string `json:"status"`

	// Timestamp is when the health check was performed
	Timestamp time.Time `json:"timestamp"`

	// Version is the server version information
	Version string `json:"version"`

	// Uptime is the server uptime duration
	Uptime string `json:"uptime"`

	// Checks maps each dependency to "ok" or its error
	Checks map[string]string `json:"checks,omitempty"`
}
