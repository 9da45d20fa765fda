package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/redhat-appstudio/ops-flow/pkg/logger"
)

// Key namespaces below the configured prefix.
const (
	secretNamespace = "secret"
	cacheNamespace  = "cache"
)

const redisConnectTimeout = 5 * time.Second

// RedisClient stores secrets and cached JSON values in Redis. Keys have the
// form <prefix>:secret:<key> and <prefix>:cache:<key>.
type RedisClient struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisClient connects to Redis and fails when the server does not answer
// a ping within redisConnectTimeout.
func NewRedisClient(config RedisConfig) (*RedisClient, error) {
	switch {
	case !config.Enabled:
		return nil, errors.New("Redis storage is disabled")
	case config.Address == "":
		return nil, errors.New("Redis address is required")
	}

	rdb := redis.NewClient(redisOptions(config))

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", config.Address, err)
	}

	logger.Infof("Connected to Redis at %s (db %d)", config.Address, config.Database)
	return &RedisClient{client: rdb, keyPrefix: config.KeyPrefix}, nil
}

func redisOptions(config RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         config.Address,
		Password:     config.Password,
		DB:           config.Database,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  redisConnectTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Ping checks that Redis answers.
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func (r *RedisClient) buildKey(namespace, key string) string {
	var builder strings.Builder
	builder.Grow(len(r.keyPrefix) + len(namespace) + len(key) + 2)
	builder.WriteString(r.keyPrefix)
	builder.WriteByte(':')
	builder.WriteString(namespace)
	builder.WriteByte(':')
	builder.WriteString(key)
	return builder.String()
}

// get returns the raw value and false when the key does not exist.
func (r *RedisClient) get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// GetSecret returns the secret stored under key or ErrSecretNotFound.
func (r *RedisClient) GetSecret(ctx context.Context, key string) (string, error) {
	data, found, err := r.get(ctx, r.buildKey(secretNamespace, key))
	if err != nil {
		return "", fmt.Errorf("failed to get secret: %w", err)
	}
	if !found {
		return "", ErrSecretNotFound
	}
	return string(data), nil
}

// SetSecret stores a secret without expiration.
func (r *RedisClient) SetSecret(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.buildKey(secretNamespace, key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}
	logger.Debugf("Stored secret %s in Redis", key)
	return nil
}

// DeleteSecret removes a secret. Deleting a missing key is not an error.
func (r *RedisClient) DeleteSecret(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.buildKey(secretNamespace, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}
	return nil
}

// SetCache stores value as JSON. A zero ttl keeps it until overwritten.
func (r *RedisClient) SetCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	if err := r.client.Set(ctx, r.buildKey(cacheNamespace, key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache value: %w", err)
	}
	return nil
}

// GetCache decodes the cached value into dest and reports whether it existed.
func (r *RedisClient) GetCache(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, found, err := r.get(ctx, r.buildKey(cacheNamespace, key))
	if err != nil {
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}
