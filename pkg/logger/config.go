package logger

import (
	"github.com/redhat-appstudio/ops-flow/internal/config"
)

// FromConfig derives the logger settings from the application configuration:
// JSON in production, colored console output otherwise.
func FromConfig(cfg *config.Config) *Config {
	loggerConfig := DefaultConfig()
	if cfg == nil {
		return loggerConfig
	}

	if cfg.LogLevel != "" {
		loggerConfig.Level = LogLevel(cfg.LogLevel)
	}
	if cfg.Environment == config.ValidEnvironmentProduction {
		loggerConfig.Format = FormatJSON
	}
	if cfg.LogOutput != "" {
		loggerConfig.OutputPath = cfg.LogOutput
	}
	return loggerConfig
}

func InitFromConfig(cfg *config.Config) error {
	return Init(FromConfig(cfg))
}
