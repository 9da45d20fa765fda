package config

import "time"

// Default configuration values
const (
	// DefaultPort is the default HTTP server port
	DefaultPort = "3000"

	// DefaultEnvironment is the default deployment environment
	DefaultEnvironment = "development"

	// DefaultLogLevel is the default logging level
	DefaultLogLevel = "info"

	DefaultLogOutput = "stdout"

	// DefaultConfigFile is read relative to the working directory
	DefaultConfigFile = "configs/config.yaml"

	// DefaultDataDir is created under the user's home directory
	DefaultDataDir = ".ops-flow"

	DefaultSecretsBackend = ValidSecretsBackendKeyring
	DefaultKeyringService = "ops-flow"
	DefaultRedisKeyPrefix = "ops-flow"
	DefaultRedisPort      = "6379"

	DefaultConnectTimeout = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRetries     = 3
	DefaultInitialBackoff = 500 * time.Millisecond

	DefaultMonitorSchedule = "@every 5m"
)

// Valid environment values
const (
	ValidEnvironmentDevelopment = "development"
	ValidEnvironmentProduction  = "production"
)

// Valid log level values
const (
	ValidLogLevelDebug = "debug"
	ValidLogLevelInfo  = "info"
	ValidLogLevelWarn  = "warn"
	ValidLogLevelError = "error"
)

// Valid secret store backends
const (
	ValidSecretsBackendKeyring = "keyring"
	ValidSecretsBackendRedis   = "redis"
	ValidSecretsBackendMemory  = "memory"
)

// Environment variable names
const (
	EnvPort            = "PORT"
	EnvEnvironment     = "ENVIRONMENT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvConfigFile      = "OPSFLOW_CONFIG_FILE"
	EnvConfigDir       = "OPSFLOW_CONFIG_DIR"
	EnvFlowsDir        = "OPSFLOW_FLOWS_DIR"
	EnvSecretsBackend  = "OPSFLOW_SECRETS_BACKEND"
	EnvRedisHost       = "REDIS_HOST"
	EnvRedisPort       = "REDIS_PORT"
	EnvRedisPassword   = "REDIS_PASSWORD"
	EnvMonitorSchedule = "OPSFLOW_MONITOR_SCHEDULE"
)
