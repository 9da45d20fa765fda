package main

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/redhat-appstudio/ops-flow/internal/config"
	"github.com/redhat-appstudio/ops-flow/internal/version"
)

// Help and version text
const (
	AppName        = "ops-flow"
	AppDescription = "Integration service for GitLab, Jenkins, Kubernetes, SonarQube and Keycloak"
)

var (
	validEnvironments = []string{config.ValidEnvironmentDevelopment, config.ValidEnvironmentProduction}
	validLogLevels    = []string{config.ValidLogLevelDebug, config.ValidLogLevelInfo, config.ValidLogLevelWarn, config.ValidLogLevelError}
	validBackends     = []string{config.ValidSecretsBackendKeyring, config.ValidSecretsBackendRedis, config.ValidSecretsBackendMemory}
)

// ServerFlags holds the command-line flags. Empty values leave the setting
// to the environment, the YAML file or the defaults.
type ServerFlags struct {
	Port           string
	Environment    string
	LogLevel       string
	SecretsBackend string
	ConfigDir      string

	Help    bool
	Version bool
}

// parseFlags parses args (without the program name).
func parseFlags(args []string) (*ServerFlags, error) {
	f := &ServerFlags{}
	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&f.Port, "port", "", fmt.Sprintf("Server port (default: %s)", config.DefaultPort))
	fs.StringVar(&f.Environment, "env", "", fmt.Sprintf("Deployment environment: %s", strings.Join(validEnvironments, ", ")))
	fs.StringVar(&f.LogLevel, "log-level", "", fmt.Sprintf("Log level: %s", strings.Join(validLogLevels, ", ")))
	fs.StringVar(&f.SecretsBackend, "secrets-backend", "", fmt.Sprintf("Secret store: %s", strings.Join(validBackends, ", ")))
	fs.StringVar(&f.ConfigDir, "config-dir", "", "Directory holding the YAML collections")

	fs.BoolVar(&f.Help, "help", false, "Show help information and exit")
	fs.BoolVar(&f.Help, "h", false, "Show help information and exit (short form)")
	fs.BoolVar(&f.Version, "version", false, "Show version information and exit")
	fs.BoolVar(&f.Version, "v", false, "Show version information and exit (short form)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// showHelp writes usage information to w.
func (f *ServerFlags) showHelp(w io.Writer) {
	fmt.Fprintf(w, "%s - %s\n", AppName, AppDescription)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  ops-flow [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "FLAGS:")
	fmt.Fprintln(w, "    -port string")
	fmt.Fprintf(w, "          Server port (default: %s)\n", config.DefaultPort)
	fmt.Fprintln(w, "    -env string")
	fmt.Fprintf(w, "          Environment: %s (default: %s)\n", strings.Join(validEnvironments, ", "), config.DefaultEnvironment)
	fmt.Fprintln(w, "    -log-level string")
	fmt.Fprintf(w, "          Log level: %s (default: %s)\n", strings.Join(validLogLevels, ", "), config.DefaultLogLevel)
	fmt.Fprintln(w, "    -secrets-backend string")
	fmt.Fprintf(w, "          Secret store: %s (default: %s)\n", strings.Join(validBackends, ", "), config.DefaultSecretsBackend)
	fmt.Fprintln(w, "    -config-dir string")
	fmt.Fprintln(w, "          Directory holding projects, environments, integrations and mappings (default: ~/.ops-flow/config)")
	fmt.Fprintln(w, "    -help, -h")
	fmt.Fprintln(w, "          Show this help information")
	fmt.Fprintln(w, "    -version, -v")
	fmt.Fprintln(w, "          Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Other settings (data directories, Redis, HTTP timeouts, the connectivity monitor)")
	fmt.Fprintf(w, "are read from %s and environment variables such as %s.\n", config.DefaultConfigFile, config.EnvMonitorSchedule)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "  ops-flow -env production -log-level warn")
	fmt.Fprintln(w, "  ops-flow -secrets-backend redis -port 8080")
}

// showVersion writes build information to w.
func (f *ServerFlags) showVersion(w io.Writer) {
	info := version.Get()
	fmt.Fprintf(w, "%s %s\n", AppName, info.Version)
	fmt.Fprintf(w, "Build info: %s\n", version.GetBuildInfo())
}

// validate checks the values given on the command line. Unset flags are not
// checked here.
func (f *ServerFlags) validate() error {
	if err := oneOf("environment", f.Environment, validEnvironments); err != nil {
		return err
	}
	if err := oneOf("log level", f.LogLevel, validLogLevels); err != nil {
		return err
	}
	return oneOf("secrets backend", f.SecretsBackend, validBackends)
}

// validateConfig checks the resolved configuration, whatever its source.
func validateConfig(cfg *config.Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if err := oneOf("environment", cfg.Environment, validEnvironments); err != nil {
		return err
	}
	if err := oneOf("log level", cfg.LogLevel, validLogLevels); err != nil {
		return err
	}
	return oneOf("secrets backend", cfg.Secrets.Backend, validBackends)
}

func oneOf(name, value string, valid []string) error {
	if value == "" || slices.Contains(valid, value) {
		return nil
	}
	return fmt.Errorf("invalid %s: %s (must be one of: %s)", name, value, strings.Join(valid, ", "))
}

// config.Flags implementation

func (f *ServerFlags) GetPort() string {
	return f.Port
}

func (f *ServerFlags) GetEnvironment() string {
	return f.Environment
}

func (f *ServerFlags) GetLogLevel() string {
	return f.LogLevel
}

func (f *ServerFlags) GetSecretsBackend() string {
	return f.SecretsBackend
}

func (f *ServerFlags) GetConfigDir() string {
	return f.ConfigDir
}

var _ config.Flags = (*ServerFlags)(nil)
