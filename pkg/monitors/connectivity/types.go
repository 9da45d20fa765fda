package connectivity

import (
	"context"
	"time"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
)

// Status is the outcome of one integration's connection test.
type Status struct {
	IntegrationID string                       `json:"integration_id"`
	Name          string                       `json:"name"`
	Type          integrations.IntegrationType `json:"type"`
	OK            bool                         `json:"ok"`
	Error         *integrations.Error          `json:"error,omitempty"`
	CheckedAt     time.Time                    `json:"checked_at"`
}

// Snapshot is the result of one full check run. CheckedAt is zero before the
// first run.
type Snapshot struct {
	Statuses  []Status  `json:"statuses"`
	CheckedAt time.Time `json:"checked_at"`
}

// IntegrationSource lists the configured integrations.
type IntegrationSource interface {
	LoadIntegrations() ([]integrations.Integration, error)
}

// AdapterProvider builds the adapter for an integration.
type AdapterProvider interface {
	GetAdapter(ctx context.Context, integration integrations.Integration) (integrations.Adapter, error)
}

// SnapshotCache receives every completed snapshot.
type SnapshotCache interface {
	SetCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
