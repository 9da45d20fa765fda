package integrations

import (
	"context"
	"time"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/monitors/connectivity"
)

// IntegrationLookup finds a configured integration by id.
type IntegrationLookup interface {
	FindIntegration(id string) (*integrations.Integration, bool, error)
}

// AdapterProvider builds or returns the cached adapter for an integration.
type AdapterProvider interface {
	GetAdapter(ctx context.Context, integration integrations.Integration) (integrations.Adapter, error)
}

// StatusProvider exposes the latest connectivity snapshot.
type StatusProvider interface {
	Snapshot() connectivity.Snapshot
}

// ConnectionResult is returned by a successful connection test.
type ConnectionResult struct {
	IntegrationID string    `json:"integration_id"`
	Success       bool      `json:"success"`
	CheckedAt     time.Time `json:"checked_at"`
}

// TriggerPipelineRequest is the body of a GitLab pipeline trigger.
type TriggerPipelineRequest struct {
	Ref string `json:"ref"`
}

// TriggerBuildRequest is the body of a Jenkins build trigger.
type TriggerBuildRequest struct {
	Parameters map[string]string `json:"parameters"`
}

// TriggerBuildResponse acknowledges a queued Jenkins build.
type TriggerBuildResponse struct {
	Job    string `json:"job"`
	Queued bool   `json:"queued"`
}
