// Package keycloak implements the Keycloak admin REST API adapter.
package keycloak

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/httpclient"
)

// Adapter talks to one Keycloak server with basic auth. Realm and client
// listing need an administrator account.
type Adapter struct {
	baseURL  string
	username string
	password string
	client   *httpclient.Client
	logger   *zap.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithClient sets the HTTP execution layer.
func WithClient(client *httpclient.Client) Option {
	return func(a *Adapter) { a.client = client }
}

// WithLogger sets the adapter logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) { a.logger = logger }
}

// New creates a Keycloak adapter.
func New(baseURL, username, password string, opts ...Option) *Adapter {
	a := &Adapter{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		username: username,
		password: password,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil {
		a.client = httpclient.New(httpclient.WithLogger(a.logger))
	}
	return a
}

func (a *Adapter) Name() string { return "Keycloak" }

func (a *Adapter) Type() integrations.IntegrationType { return integrations.TypeKeycloak }

func (a *Adapter) BaseURL() string { return a.baseURL }

// TestConnection reads the master realm discovery document. It does not need
// admin rights.
func (a *Adapter) TestConnection(ctx context.Context) error {
	var discovery map[string]interface{}
	return a.get(ctx, "/realms/master/.well-known/openid-configuration", &discovery)
}

// FetchRealms lists realms. Without admin rights it returns an empty list.
func (a *Adapter) FetchRealms(ctx context.Context) ([]Realm, error) {
	var items []realmItem
	if err := a.get(ctx, "/admin/realms", &items); err != nil {
		if isAccessDenied(err) {
			a.logger.Warn("Keycloak realm listing requires admin access, returning no realms", zap.Error(err))
			return []Realm{}, nil
		}
		return nil, err
	}

	realms := make([]Realm, 0, len(items))
	for _, item := range items {
		realm, ok := item.toRealm()
		if !ok {
			return nil, integrations.ConfigError("Invalid realm format: missing 'realm'")
		}
		realms = append(realms, realm)
	}
	return realms, nil
}

// FetchClients lists the clients of realm. Without admin rights it returns an
// empty list.
func (a *Adapter) FetchClients(ctx context.Context, realm string) ([]Client, error) {
	var items []clientItem
	if err := a.get(ctx, "/admin/realms/"+url.PathEscape(realm)+"/clients", &items); err != nil {
		if isAccessDenied(err) {
			a.logger.Warn("Keycloak client listing requires admin access, returning no clients",
				zap.String("realm", realm), zap.Error(err))
			return []Client{}, nil
		}
		return nil, err
	}

	clients := make([]Client, 0, len(items))
	for _, item := range items {
		client, ok := item.toClient()
		if !ok {
			return nil, integrations.ConfigError("Invalid client format: missing 'clientId'")
		}
		clients = append(clients, client)
	}
	return clients, nil
}

func isAccessDenied(err error) bool {
	e, ok := integrations.AsError(err)
	return ok && e.Kind == integrations.KindAuth
}

func (a *Adapter) get(ctx context.Context, endpoint string, v interface{}) error {
	target := a.baseURL + endpoint
	a.logger.Debug("Keycloak API request", zap.String("url", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return integrations.ConfigError("Invalid Keycloak URL %s: %v", target, err)
	}
	req.SetBasicAuth(a.username, a.password)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return a.classify(err)
	}
	if err := resp.DecodeJSON(v); err != nil {
		a.logger.Error("Failed to parse Keycloak API response", zap.String("url", target), zap.Error(err))
		return err
	}
	return nil
}

// classify reports 403 and 404 from Keycloak as missing admin access, since
// admin endpoints answer 404 to accounts that cannot see them.
func (a *Adapter) classify(err error) error {
	var e *integrations.Error
	if !errors.As(err, &e) {
		return integrations.Classify(err)
	}
	if e.Status == http.StatusForbidden || e.Status == http.StatusNotFound {
		return integrations.AuthError("Access denied. Admin access may be required for this operation. Status: %d", e.Status)
	}
	return e
}
