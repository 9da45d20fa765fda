package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
	"k8s.io/client-go/util/homedir"
)

var (
	// Cache for configuration to avoid repeated file reads
	configCache *Config
	configOnce  sync.Once
)

// Load creates a new Config without command-line flags.
func Load() *Config {
	return LoadWithFlags(nil)
}

// LoadCached loads the configuration once and returns the same instance on
// every later call.
func LoadCached() *Config {
	configOnce.Do(func() {
		configCache = LoadWithFlags(nil)
	})
	return configCache
}

// Flags defines the interface for command-line flag access.
type Flags interface {
	GetPort() string
	GetEnvironment() string
	GetLogLevel() string
	GetSecretsBackend() string
	GetConfigDir() string
}

// LoadWithFlags builds a Config from configs/config.yaml (or the file named
// by OPSFLOW_CONFIG_FILE) with overrides applied in this order, highest
// first:
//  1. Command-line flags
//  2. Environment variables
//  3. YAML configuration file
//  4. Default values
//
// Parameters:
//   - flgs: Command-line flags interface (can be nil)
func LoadWithFlags(flgs Flags) *Config {
	yamlConfig := loadFromYAML(getEnv(EnvConfigFile, DefaultConfigFile))

	port := pick(flagValue(flgs, Flags.GetPort), os.Getenv(EnvPort), yamlConfig.Server.Port, DefaultPort)
	environment := pick(flagValue(flgs, Flags.GetEnvironment), os.Getenv(EnvEnvironment), yamlConfig.Server.Environment, DefaultEnvironment)
	logLevel := pick(flagValue(flgs, Flags.GetLogLevel), os.Getenv(EnvLogLevel), yamlConfig.Server.LogLevel, DefaultLogLevel)
	logOutput := pick(yamlConfig.Server.LogOutput, DefaultLogOutput)

	dataDir := filepath.Join(homedir.HomeDir(), DefaultDataDir)
	configDir := pick(flagValue(flgs, Flags.GetConfigDir), os.Getenv(EnvConfigDir), yamlConfig.Data.ConfigDir, filepath.Join(dataDir, "config"))
	flowsDir := pick(os.Getenv(EnvFlowsDir), yamlConfig.Data.FlowsDir, filepath.Join(dataDir, "flows"))

	backend := pick(flagValue(flgs, Flags.GetSecretsBackend), os.Getenv(EnvSecretsBackend), yamlConfig.Secrets.Backend, DefaultSecretsBackend)
	keyringService := pick(yamlConfig.Secrets.KeyringService, DefaultKeyringService)

	// Redis configuration - support environment variables
	redisConfig := yamlConfig.Secrets.Redis
	redisHost := getEnv(EnvRedisHost, "")
	redisPort := getEnv(EnvRedisPort, "")
	redisPassword := getEnv(EnvRedisPassword, redisConfig.Password)

	redisAddress := redisConfig.Address
	if redisHost != "" {
		redisAddress = redisHost + ":" + pick(redisPort, DefaultRedisPort)
	}

	maxRetries := DefaultMaxRetries
	if yamlConfig.HTTP.MaxRetries != nil && *yamlConfig.HTTP.MaxRetries >= 0 {
		maxRetries = *yamlConfig.HTTP.MaxRetries
	}

	return &Config{
		Port:        port,
		Environment: environment,
		LogLevel:    logLevel,
		LogOutput:   logOutput,
		Data: DataConfig{
			ConfigDir: expandHome(configDir),
			FlowsDir:  expandHome(flowsDir),
		},
		Secrets: SecretsConfig{
			Backend:        backend,
			KeyringService: keyringService,
			Redis: RedisYAMLConfig{
				Enabled:   redisConfig.Enabled || backend == ValidSecretsBackendRedis,
				Address:   redisAddress,
				Password:  redisPassword,
				Database:  redisConfig.Database,
				KeyPrefix: pick(redisConfig.KeyPrefix, DefaultRedisKeyPrefix),
			},
		},
		HTTP: HTTPConfig{
			ConnectTimeout: parseDuration(yamlConfig.HTTP.ConnectTimeout, DefaultConnectTimeout),
			RequestTimeout: parseDuration(yamlConfig.HTTP.RequestTimeout, DefaultRequestTimeout),
			MaxRetries:     maxRetries,
			InitialBackoff: parseDuration(yamlConfig.HTTP.InitialBackoff, DefaultInitialBackoff),
		},
		Monitor: MonitorConfig{
			Enabled:  yamlConfig.Monitor.Enabled,
			Schedule: pick(os.Getenv(EnvMonitorSchedule), yamlConfig.Monitor.Schedule, DefaultMonitorSchedule),
		},
	}
}

func loadFromYAML(path string) *YAMLConfig {
	config := &YAMLConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		return config
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return &YAMLConfig{}
	}
	return config
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// pick returns the first non-empty value.
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func flagValue(flgs Flags, get func(Flags) string) string {
	if flgs == nil {
		return ""
	}
	return get(flgs)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func expandHome(path string) string {
	if path == "~" {
		return homedir.HomeDir()
	}
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(homedir.HomeDir(), path[2:])
	}
	return path
}
