package credentials

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/redhat-appstudio/ops-flow/apis/common"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/storage"
)

type recordingInvalidator struct {
	ids []string
}

func (r *recordingInvalidator) Invalidate(id string) { r.ids = append(r.ids, id) }

type failingStore struct{}

func (failingStore) Save(context.Context, string, integrations.Credentials) error {
	return errors.New("keyring locked")
}

func (failingStore) Load(context.Context, string) (*integrations.Credentials, error) {
	return nil, errors.New("keyring locked")
}

func (failingStore) Delete(context.Context, string) error {
	return errors.New("keyring locked")
}

func newTestApp(store Store, invalidator Invalidator, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: common.ErrorHandler,
	})
	RegisterRoutes(app.Group("/api/v1"), NewHandler(store, invalidator, logger))
	return app
}

func send(t *testing.T, app *fiber.App, method, target, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestCredentials_Lifecycle(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	store := storage.NewCredentialStore(storage.NewMemoryStore())
	invalidator := &recordingInvalidator{}
	app := newTestApp(store, invalidator, zap.New(core))

	status, _ := send(t, app, "PUT", "/api/v1/credentials/ci", `{"username":"bot","password":"s3cret","token":"api-token"}`)
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.Equal(t, []string{"ci"}, invalidator.ids)

	status, body := send(t, app, "GET", "/api/v1/credentials/ci", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"token":"api-token","username":"bot","password":"s3cret","custom":{}}`, body)

	status, _ = send(t, app, "DELETE", "/api/v1/credentials/ci", "")
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.Equal(t, []string{"ci", "ci"}, invalidator.ids)

	status, body = send(t, app, "GET", "/api/v1/credentials/ci", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.JSONEq(t, `{"error":true,"message":"No credentials found for integration: ci"}`, body)

	status, _ = send(t, app, "DELETE", "/api/v1/credentials/ci", "")
	assert.Equal(t, fiber.StatusNoContent, status, "deleting twice is not an error")

	for _, entry := range logs.All() {
		for _, field := range entry.Context {
			assert.NotContains(t, field.String, "s3cret")
		}
		assert.NotContains(t, entry.Message, "s3cret")
	}
}

func TestCredentials_KubernetesCustomFields(t *testing.T) {
	store := storage.NewCredentialStore(storage.NewMemoryStore())
	app := newTestApp(store, nil, nil)

	status, _ := send(t, app, "PUT", "/api/v1/credentials/k8s", `{"custom":{"kubeconfig_path":"~/.kube/staging"}}`)
	require.Equal(t, fiber.StatusNoContent, status)

	creds, err := store.Load(context.Background(), "k8s")
	require.NoError(t, err)
	assert.Equal(t, "~/.kube/staging", creds.Custom["kubeconfig_path"])
	assert.Nil(t, creds.Token)
}

func TestCredentials_Errors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		status int
		msg    string
	}{
		{name: "malformed body", method: "PUT", body: `{"token":`, status: 400, msg: "Invalid credentials payload"},
		{name: "save fails", method: "PUT", body: `{"token":"t"}`, status: 500, msg: "keyring locked"},
		{name: "load fails", method: "GET", status: 500, msg: "keyring locked"},
		{name: "delete fails", method: "DELETE", status: 500, msg: "keyring locked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invalidator := &recordingInvalidator{}
			app := newTestApp(failingStore{}, invalidator, nil)

			status, body := send(t, app, tt.method, "/api/v1/credentials/x", tt.body)
			assert.Equal(t, tt.status, status)
			assert.Contains(t, body, tt.msg)
			assert.Empty(t, invalidator.ids, "failed writes keep the cache")
		})
	}
}
