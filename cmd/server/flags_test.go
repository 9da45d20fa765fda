package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-appstudio/ops-flow/internal/config"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    ServerFlags
		wantErr bool
	}{
		{name: "no flags", args: nil, want: ServerFlags{}},
		{
			name: "all settings",
			args: []string{"-port", "8080", "-env", "production", "-log-level", "warn", "-secrets-backend", "redis", "-config-dir", "/etc/ops-flow"},
			want: ServerFlags{Port: "8080", Environment: "production", LogLevel: "warn", SecretsBackend: "redis", ConfigDir: "/etc/ops-flow"},
		},
		{name: "short help", args: []string{"-h"}, want: ServerFlags{Help: true}},
		{name: "long version", args: []string{"-version"}, want: ServerFlags{Version: true}},
		{name: "unknown flag", args: []string{"-verbose"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlags(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestServerFlags_Validate(t *testing.T) {
	tests := []struct {
		name   string
		flags  ServerFlags
		errMsg string
	}{
		{name: "unset flags are valid", flags: ServerFlags{}},
		{name: "valid values", flags: ServerFlags{Environment: "development", LogLevel: "debug", SecretsBackend: "memory"}},
		{name: "bad environment", flags: ServerFlags{Environment: "staging"}, errMsg: "invalid environment: staging (must be one of: development, production)"},
		{name: "bad log level", flags: ServerFlags{LogLevel: "trace"}, errMsg: "invalid log level: trace"},
		{name: "bad backend", flags: ServerFlags{SecretsBackend: "vault"}, errMsg: "invalid secrets backend: vault (must be one of: keyring, redis, memory)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.flags.validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateConfig(t *testing.T) {
	valid := config.Config{Port: "3000", Environment: "production", LogLevel: "info", Secrets: config.SecretsConfig{Backend: "keyring"}}
	assert.NoError(t, validateConfig(&valid))

	noPort := valid
	noPort.Port = ""
	assert.EqualError(t, validateConfig(&noPort), "port cannot be empty")

	badBackend := valid
	badBackend.Secrets.Backend = "file"
	assert.Error(t, validateConfig(&badBackend))
}

func TestHelpAndVersionOutput(t *testing.T) {
	var help bytes.Buffer
	(&ServerFlags{}).showHelp(&help)
	assert.Contains(t, help.String(), "-secrets-backend")
	assert.Contains(t, help.String(), config.DefaultConfigFile)

	var ver bytes.Buffer
	(&ServerFlags{}).showVersion(&ver)
	assert.Contains(t, ver.String(), AppName)
	assert.Contains(t, ver.String(), "Build info:")
}
