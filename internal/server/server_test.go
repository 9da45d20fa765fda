package server

import (
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-appstudio/ops-flow/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Port:        "0",
		Environment: config.ValidEnvironmentDevelopment,
		LogLevel:    config.ValidLogLevelDebug,
		Data: config.DataConfig{
			ConfigDir: filepath.Join(dir, "config"),
			FlowsDir:  filepath.Join(dir, "flows"),
		},
		Secrets: config.SecretsConfig{
			Backend:        config.ValidSecretsBackendMemory,
			KeyringService: config.DefaultKeyringService,
		},
		HTTP: config.HTTPConfig{
			ConnectTimeout: config.DefaultConnectTimeout,
			RequestTimeout: config.DefaultRequestTimeout,
			MaxRetries:     0,
			InitialBackoff: config.DefaultInitialBackoff,
		},
		Monitor: config.MonitorConfig{Schedule: config.DefaultMonitorSchedule},
	}
}

func request(t *testing.T, srv *Server, method, target, body string) (int, string, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data), resp.Header.Get("X-Request-ID")
}

func TestNew_Routes(t *testing.T) {
	srv, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(srv.close)

	status, body, requestID := request(t, srv, "GET", "/api/v1/health", "")
	assert.Equal(t, 200, status)
	assert.Contains(t, body, `"status":"healthy"`)
	assert.NotEmpty(t, requestID)

	status, body, _ = request(t, srv, "GET", "/", "")
	assert.Equal(t, 200, status)
	assert.Contains(t, body, "ops-flow")

	status, body, _ = request(t, srv, "GET", "/api/v1/integrations/status", "")
	assert.Equal(t, 200, status)
	assert.Contains(t, body, `"statuses":[]`)

	status, body, _ = request(t, srv, "GET", "/metrics", "")
	assert.Equal(t, 200, status)
	assert.Contains(t, body, "opsflow_cached_adapters 0")

	status, body, _ = request(t, srv, "GET", "/api/v1/nowhere", "")
	assert.Equal(t, 404, status)
	assert.Contains(t, body, `"error":true`)
}

// An integration saved through the settings routes, with credentials saved
// through the credentials routes, is resolved by the integration routes.
func TestNew_EndToEndConnectionTest(t *testing.T) {
	srv, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(srv.close)

	status, body, _ := request(t, srv, "PUT", "/api/v1/integrations",
		`[{"id":"sonar","type":"sonarqube","name":"Sonar","base_url":"http://127.0.0.1:1"}]`)
	require.Equal(t, 200, status, body)

	status, body, _ = request(t, srv, "POST", "/api/v1/integrations/sonar/test", "")
	assert.Equal(t, 400, status)
	assert.Contains(t, body, `"type":"ConfigError"`)
	assert.Contains(t, body, "No credentials found for integration 'Sonar'")

	status, _, _ = request(t, srv, "PUT", "/api/v1/credentials/sonar", `{"token":"squ_123"}`)
	require.Equal(t, 204, status)

	status, body, _ = request(t, srv, "POST", "/api/v1/integrations/sonar/test", "")
	assert.Equal(t, 503, status, "nothing listens on port 1")
	assert.Contains(t, body, `"type":"NetworkError"`)
	assert.Equal(t, 1, srv.registry.Len())

	status, _, _ = request(t, srv, "DELETE", "/api/v1/credentials/sonar", "")
	require.Equal(t, 204, status)
	assert.Equal(t, 0, srv.registry.Len())
}

func TestNew_MonitorMirrorsToRedis(t *testing.T) {
	redis := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Secrets.Backend = config.ValidSecretsBackendRedis
	cfg.Secrets.Redis = config.RedisYAMLConfig{Enabled: true, Address: redis.Addr(), KeyPrefix: "ops-flow"}
	cfg.Monitor.Enabled = true

	srv, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(srv.close)

	require.NotNil(t, srv.monitor)
	_, err = srv.monitor.Check(t.Context())
	require.NoError(t, err)
	assert.True(t, redis.Exists("ops-flow:cache:connectivity:snapshot"))

	_, body, _ := request(t, srv, "GET", "/metrics", "")
	assert.Contains(t, body, "opsflow_connectivity_last_run_timestamp_seconds")

	status, body, _ := request(t, srv, "GET", "/api/v1/health", "")
	assert.Equal(t, 200, status)
	assert.Contains(t, body, `"redis":"ok"`)

	redis.Close()
	status, body, _ = request(t, srv, "GET", "/api/v1/health", "")
	assert.Equal(t, 503, status)
	assert.Contains(t, body, `"status":"degraded"`)
}

func TestNew_StorageFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Secrets.Backend = config.ValidSecretsBackendRedis

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize storage")
}
