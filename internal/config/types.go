package config

import "time"

// Config is the resolved application configuration after flags, environment
// variables, configs/config.yaml and defaults have been applied.
type Config struct {
	// HTTP server port (e.g., "3000")
	Port string

	// Application environment ("development" or "production")
	Environment string

	// Logging level (debug, info, warn, error)
	LogLevel string

	// Log destination: stdout, stderr or a file path
	LogOutput string

	Data    DataConfig
	Secrets SecretsConfig
	HTTP    HTTPConfig
	Monitor MonitorConfig
}

// DataConfig locates the persisted collections and flow documents.
type DataConfig struct {
	// Directory holding projects.yaml, environments.yaml, integrations.yaml and mappings.yaml
	ConfigDir string

	// Directory holding one JSON file per flow
	FlowsDir string
}

// SecretsConfig selects where integration credentials are kept.
type SecretsConfig struct {
	// keyring, redis or memory
	Backend string

	// Service name used for OS keyring entries
	KeyringService string

	Redis RedisYAMLConfig
}

// HTTPConfig tunes the outbound HTTP client shared by the service adapters.
type HTTPConfig struct {
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
}

// MonitorConfig controls the scheduled connectivity checks.
type MonitorConfig struct {
	Enabled  bool
	Schedule string
}

// ServerConfig represents server-related configuration settings that can be
// overridden by command-line flags.
type ServerConfig struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	LogOutput   string `yaml:"log_output"`
}

type DataYAMLConfig struct {
	ConfigDir string `yaml:"config_dir"`
	FlowsDir  string `yaml:"flows_dir"`
}

type SecretsYAMLConfig struct {
	Backend        string          `yaml:"backend"`
	KeyringService string          `yaml:"keyring_service"`
	Redis          RedisYAMLConfig `yaml:"redis"`
}

// RedisYAMLConfig represents Redis configuration from YAML files.
type RedisYAMLConfig struct {
	// Whether Redis is enabled (true/false)
	Enabled bool `yaml:"enabled"`

	// Redis server address (e.g., "localhost:6379")
	Address string `yaml:"address"`

	// Redis password for authentication
	Password string `yaml:"password"`

	// Redis database number (0-15)
	Database int `yaml:"database"`

	// Key prefix for all Redis keys (e.g., "ops-flow")
	KeyPrefix string `yaml:"key_prefix"`
}

// HTTPYAMLConfig holds durations as strings (e.g., "10s", "500ms").
type HTTPYAMLConfig struct {
	ConnectTimeout string `yaml:"connect_timeout"`
	RequestTimeout string `yaml:"request_timeout"`
	MaxRetries     *int   `yaml:"max_retries"`
	InitialBackoff string `yaml:"initial_backoff"`
}

type MonitorYAMLConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// YAMLConfig is the root of configs/config.yaml.
type YAMLConfig struct {
	Server  ServerConfig      `yaml:"server"`
	Data    DataYAMLConfig    `yaml:"data"`
	Secrets SecretsYAMLConfig `yaml:"secrets"`
	HTTP    HTTPYAMLConfig    `yaml:"http"`
	Monitor MonitorYAMLConfig `yaml:"monitor"`
}
