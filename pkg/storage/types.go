package storage

import (
	"context"
	"errors"
)

// Secret backend names accepted in configuration.
const (
	BackendKeyring = "keyring"
	BackendRedis   = "redis"
	BackendMemory  = "memory"
)

// DefaultKeyringService is the OS keyring service that owns every entry.
const DefaultKeyringService = "ops-flow"

var (
	// ErrSecretNotFound is returned when a secret store has no entry for a key.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrCredentialsNotFound is returned when an integration has no stored credentials.
	ErrCredentialsNotFound = errors.New("credentials not found")
)

// SecretStore persists opaque secret strings by key.
type SecretStore interface {
	GetSecret(ctx context.Context, key string) (string, error)
	SetSecret(ctx context.Context, key, value string) error
	DeleteSecret(ctx context.Context, key string) error
}

// StorageConfig holds configuration for the storage backends.
type StorageConfig struct {
	// Backend selects the secret store: keyring, redis or memory
	Backend string `json:"backend"`

	// KeyringService is the OS keyring service name
	KeyringService string `json:"keyring_service"`

	// Redis configuration
	Redis RedisConfig `json:"redis"`
}

// RedisConfig holds Redis-specific configuration.
type RedisConfig struct {
	// Enabled indicates if Redis is available for secrets and caching
	Enabled bool `json:"enabled"`

	// Address is the Redis server address (host:port)
	Address string `json:"address"`

	// Password is the Redis password (optional)
	Password string `json:"password"`

	// Database is the Redis database number (0-15)
	Database int `json:"database"`

	// KeyPrefix is the prefix for all Redis keys
	KeyPrefix string `json:"key_prefix"`
}
