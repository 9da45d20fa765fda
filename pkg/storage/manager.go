package storage

import (
	"fmt"

	"github.com/redhat-appstudio/ops-flow/pkg/logger"
)

// Manager bundles the configured secret store and the optional Redis client
// used for caching.
type Manager struct {
	Secrets SecretStore
	Redis   *RedisClient
}

// NewManager creates the storage backends described by config. The redis
// backend requires Redis to be enabled; the other backends use Redis for
// caching only when it is enabled.
func NewManager(config StorageConfig) (*Manager, error) {
	m := &Manager{}

	if config.Redis.Enabled {
		client, err := NewRedisClient(config.Redis)
		if err != nil {
			return nil, err
		}
		m.Redis = client
	}

	switch config.Backend {
	case BackendRedis:
		if m.Redis == nil {
			return nil, fmt.Errorf("Redis secret backend selected but Redis is not enabled")
		}
		m.Secrets = m.Redis
	case BackendMemory:
		logger.Warnf("Using in-memory secret store, credentials will not survive a restart")
		m.Secrets = NewMemoryStore()
	case BackendKeyring, "":
		m.Secrets = NewKeyringStore(config.KeyringService)
	default:
		_ = m.Close()
		return nil, fmt.Errorf("unknown secret backend %q", config.Backend)
	}

	logger.Infof("Secret store backend: %s", backendName(config.Backend))
	return m, nil
}

// Close releases the Redis connection when one is open.
func (m *Manager) Close() error {
	if m == nil || m.Redis == nil {
		return nil
	}
	return m.Redis.Close()
}

func backendName(backend string) string {
	if backend == "" {
		return BackendKeyring
	}
	return backend
}
