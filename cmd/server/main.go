package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/redhat-appstudio/ops-flow/internal/config"
	"github.com/redhat-appstudio/ops-flow/internal/server"
	"github.com/redhat-appstudio/ops-flow/pkg/logger"
)

// main parses flags, loads .env and the configuration, initializes logging
// and runs the server until it receives SIGINT or SIGTERM.
func main() {
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid arguments: %v (use -help for usage)", err)
	}
	if flags.Help {
		flags.showHelp(os.Stdout)
		return
	}
	if flags.Version {
		flags.showVersion(os.Stdout)
		return
	}
	if err := flags.validate(); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.LoadWithFlags(flags)
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logger.InitFromConfig(cfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Infof("Starting on port %s", cfg.Port)
	logger.Infof("Environment: %s", cfg.Environment)
	logger.Infof("Log level: %s", cfg.LogLevel)
	logger.Infof("Config directory: %s", cfg.Data.ConfigDir)
	logger.Infof("Flows directory: %s", cfg.Data.FlowsDir)
	logger.Infof("Secret store backend: %s", cfg.Secrets.Backend)

	if cfg.Monitor.Enabled {
		logger.Infof("Connectivity monitor: enabled (schedule: %s)", cfg.Monitor.Schedule)
	} else {
		logger.Infof("Connectivity monitor: disabled")
	}

	srv, err := server.New(cfg)
	if err != nil {
		logger.Fatalf("Failed to create server: %v", err)
	}
	if err := srv.Start(); err != nil {
		logger.Fatalf("Server stopped with error: %v", err)
	}
	logger.Info("Server stopped")
}
