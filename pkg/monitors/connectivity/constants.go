package connectivity

import "time"

const (
	// DefaultSchedule runs a check every five minutes
	DefaultSchedule = "@every 5m"

	// DefaultCheckTimeout bounds one integration's connection test
	DefaultCheckTimeout = 45 * time.Second

	// CacheKey is the cache entry holding the latest snapshot
	CacheKey = "connectivity:snapshot"

	// CacheTTL keeps a snapshot for two default check periods
	CacheTTL = 10 * time.Minute

	// MaxConcurrentChecks limits connection tests running at once
	MaxConcurrentChecks = 4
)

// Error messages
const (
	ErrLoadIntegrations = "failed to load integrations"
	ErrInvalidSchedule  = "invalid monitor schedule"
	ErrCacheSnapshot    = "failed to cache connectivity snapshot"
)
