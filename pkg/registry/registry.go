package registry

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/storage"
)

// CredentialLoader returns the credentials stored under a key, or
// storage.ErrCredentialsNotFound.
type CredentialLoader interface {
	Load(ctx context.Context, key string) (*integrations.Credentials, error)
}

type cachedAdapter struct {
	adapter     integrations.Adapter
	integration integrations.Integration
}

// Registry hands out ready adapters. An adapter is reused while the
// integration it was built from is unchanged and its credentials have not
// been invalidated.
type Registry struct {
	factory     *Factory
	credentials CredentialLoader
	logger      *zap.Logger

	mu       sync.RWMutex
	adapters map[string]cachedAdapter
	// epoch advances on every invalidation; an adapter whose build started
	// in an older epoch is returned but not cached.
	epoch uint64
}

func New(factory *Factory, credentials CredentialLoader, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		factory:     factory,
		credentials: credentials,
		logger:      logger,
		adapters:    make(map[string]cachedAdapter),
	}
}

// GetAdapter loads the integration's credentials and builds its adapter, or
// returns the cached one.
func (r *Registry) GetAdapter(ctx context.Context, integration integrations.Integration) (integrations.Adapter, error) {
	if adapter, ok := r.cached(integration); ok {
		return adapter, nil
	}

	r.mu.RLock()
	epoch := r.epoch
	r.mu.RUnlock()

	creds, err := r.LoadCredentials(ctx, integration)
	if err != nil {
		return nil, err
	}

	adapter, err := r.factory.Create(ctx, integration, *creds)
	if err != nil {
		r.logger.Warn("Failed to create adapter",
			zap.String("integration_id", integration.ID),
			zap.String("type", string(integration.Type)),
			zap.Error(err))
		return nil, err
	}

	r.mu.Lock()
	stale := r.epoch != epoch
	if !stale {
		r.adapters[integration.ID] = cachedAdapter{adapter: adapter, integration: copyIntegration(integration)}
	}
	r.mu.Unlock()

	if stale {
		r.logger.Debug("Credentials changed while building adapter, not caching it",
			zap.String("integration_id", integration.ID))
		return adapter, nil
	}

	r.logger.Debug("Adapter created", zap.String("integration_id", integration.ID), zap.String("type", string(integration.Type)))
	return adapter, nil
}

// LoadCredentials reads the credentials referenced by integration.
func (r *Registry) LoadCredentials(ctx context.Context, integration integrations.Integration) (*integrations.Credentials, error) {
	creds, err := r.credentials.Load(ctx, integration.CredentialsKey())
	if err != nil {
		if errors.Is(err, storage.ErrCredentialsNotFound) {
			return nil, integrations.ConfigError("No credentials found for integration '%s'. Please configure credentials first.", integration.Name)
		}
		return nil, integrations.ConfigError("Failed to load credentials: %v", err)
	}
	return creds, nil
}

// Invalidate drops the cached adapter of integration id and of any
// integration whose credentials are stored under id.
func (r *Registry) Invalidate(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.epoch++
	for key, entry := range r.adapters {
		if key == id || entry.integration.CredentialsKey() == id {
			delete(r.adapters, key)
		}
	}
}

// ClearCache drops every cached adapter.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epoch++
	r.adapters = make(map[string]cachedAdapter)
}

// Len returns the number of cached adapters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.adapters)
}

func (r *Registry) cached(integration integrations.Integration) (integrations.Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.adapters[integration.ID]
	if !ok || !sameIntegration(entry.integration, integration) {
		return nil, false
	}
	return entry.adapter, true
}

func sameIntegration(a, b integrations.Integration) bool {
	if a.ID != b.ID || a.Type != b.Type || a.Name != b.Name || a.BaseURL != b.BaseURL {
		return false
	}
	return a.CredentialsKey() == b.CredentialsKey()
}

func copyIntegration(i integrations.Integration) integrations.Integration {
	if i.CredentialsRef != nil {
		ref := *i.CredentialsRef
		i.CredentialsRef = &ref
	}
	return i
}
