// Package registry builds service adapters from configured integrations and
// caches them for reuse across requests.
package registry

import (
	"context"

	"go.uber.org/zap"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/gitlab"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/httpclient"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/jenkins"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/keycloak"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/kubernetes"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/sonarqube"
)

// Construction is the result of validating an integration against its
// credentials. HTTP adapters are ready immediately; Kubernetes adapters are
// built by Complete because they read the kubeconfig and create a cluster client.
type Construction struct {
	adapter integrations.Adapter
	build   func(ctx context.Context) (integrations.Adapter, error)
}

// Ready reports whether the adapter was built without deferred work.
func (c Construction) Ready() bool {
	return c.adapter != nil
}

// Complete returns the adapter, running deferred construction if needed.
func (c Construction) Complete(ctx context.Context) (integrations.Adapter, error) {
	if c.adapter != nil {
		return c.adapter, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, integrations.FromTransportError(err)
	}
	return c.build(ctx)
}

// Factory creates adapters. All HTTP adapters share one execution client.
type Factory struct {
	client *httpclient.Client
	logger *zap.Logger
}

// NewFactory creates a factory. A nil client uses the default retry policy
// and timeouts.
func NewFactory(client *httpclient.Client, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		client = httpclient.New(httpclient.WithLogger(logger.Named("http")))
	}
	return &Factory{client: client, logger: logger}
}

// Create builds the adapter for integration using creds.
func (f *Factory) Create(ctx context.Context, integration integrations.Integration, creds integrations.Credentials) (integrations.Adapter, error) {
	construction, err := f.Prepare(integration, creds)
	if err != nil {
		return nil, err
	}
	return construction.Complete(ctx)
}

// Prepare validates that creds carry the fields integration's type needs.
func (f *Factory) Prepare(integration integrations.Integration, creds integrations.Credentials) (Construction, error) {
	logger := f.logger.Named(string(integration.Type)).With(zap.String("integration_id", integration.ID))

	switch integration.Type {
	case integrations.TypeGitLab:
		token, ok := integrations.NonEmpty(creds.Token)
		if !ok {
			return Construction{}, integrations.ConfigError("GitLab integration requires a Personal Access Token. GitLab API v4 does not support Basic Auth with username/password.")
		}
		return ready(gitlab.New(integration.BaseURL, token, gitlab.WithClient(f.client), gitlab.WithLogger(logger))), nil

	case integrations.TypeJenkins:
		username, password, err := basicAuth("Jenkins", creds)
		if err != nil {
			return Construction{}, err
		}
		return ready(jenkins.New(integration.BaseURL, username, password, jenkins.WithClient(f.client), jenkins.WithLogger(logger))), nil

	case integrations.TypeKeycloak:
		username, password, err := basicAuth("Keycloak", creds)
		if err != nil {
			return Construction{}, err
		}
		return ready(keycloak.New(integration.BaseURL, username, password, keycloak.WithClient(f.client), keycloak.WithLogger(logger))), nil

	case integrations.TypeSonarQube:
		token, ok := integrations.NonEmpty(creds.Token)
		if !ok {
			return Construction{}, integrations.ConfigError("SonarQube integration requires a token")
		}
		return ready(sonarqube.New(integration.BaseURL, token, sonarqube.WithClient(f.client), sonarqube.WithLogger(logger))), nil

	case integrations.TypeKubernetes:
		custom := creds.Custom
		return Construction{build: func(ctx context.Context) (integrations.Adapter, error) {
			path, err := kubernetes.ResolveKubeconfig(custom)
			if err != nil {
				return nil, err
			}
			logger.Debug("Building Kubernetes client", zap.String("kubeconfig", path))
			adapter, err := kubernetes.New(path, kubernetes.WithLogger(logger))
			if err != nil {
				return nil, err
			}
			return adapter, nil
		}}, nil

	default:
		return Construction{}, integrations.ConfigError("Unsupported integration type: %s", integration.Type)
	}
}

func ready(adapter integrations.Adapter) Construction {
	return Construction{adapter: adapter}
}

// basicAuth returns the username and the password, falling back to the token
// when no password is set.
func basicAuth(service string, creds integrations.Credentials) (string, string, error) {
	username, ok := integrations.NonEmpty(creds.Username)
	if !ok {
		return "", "", integrations.ConfigError("%s integration requires a username", service)
	}
	if password, ok := integrations.NonEmpty(creds.Password); ok {
		return username, password, nil
	}
	if token, ok := integrations.NonEmpty(creds.Token); ok {
		return username, token, nil
	}
	return "", "", integrations.ConfigError("%s integration requires a password or token", service)
}
