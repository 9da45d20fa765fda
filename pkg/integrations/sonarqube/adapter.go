// Package sonarqube implements the SonarQube Web API adapter.
package sonarqube

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/httpclient"
)

const defaultQualifier = "TRK"

// Adapter talks to one SonarQube server. The user token is sent as the basic
// auth username with an empty password.
type Adapter struct {
	baseURL string
	token   string
	client  *httpclient.Client
	logger  *zap.Logger
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

// New creates a SonarQube adapter.
func New(baseURL, token string, opts ...Option) *Adapter {
	a := &Adapter{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   token,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil {
		a.client = httpclient.New(httpclient.WithLogger(a.logger))
	}
	return a
}

func (a *Adapter) Name() string { return "SonarQube" }

func (a *Adapter) Type() integrations.IntegrationType { return integrations.TypeSonarQube }

func (a *Adapter) BaseURL() string { return a.baseURL }

func (a *Adapter) TestConnection(ctx context.Context) error {
	var status map[string]interface{}
	return a.get(ctx, "/system/status", &status)
}

// FetchProjects returns the first page (up to 100) of projects.
func (a *Adapter) FetchProjects(ctx context.Context) ([]Project, error) {
	var resp searchResponse
	if err := a.get(ctx, "/projects/search?ps=100", &resp); err != nil {
		return nil, err
	}
	if resp.Components == nil {
		return nil, integrations.ConfigError("Invalid response format: missing 'components' array")
	}

	projects := make([]Project, 0, len(*resp.Components))
	for _, c := range *resp.Components {
		if c.Key == nil {
			return nil, integrations.ConfigError("Invalid project format: missing 'key'")
		}
		if c.Name == nil {
			return nil, integrations.ConfigError("Invalid project format: missing 'name'")
		}
		qualifier := defaultQualifier
		if c.Qualifier != nil {
			qualifier = *c.Qualifier
		}
		projects = append(projects, Project{Key: *c.Key, Name: *c.Name, Qualifier: qualifier})
	}
	return projects, nil
}

// FetchMetrics returns coverage, issue counts and technical debt for a project.
func (a *Adapter) FetchMetrics(ctx context.Context, projectKey string) (*Metrics, error) {
	endpoint := "/measures/component?component=" + url.QueryEscape(projectKey) +
		"&metricKeys=" + strings.Join(metricKeys, ",")

	var resp measuresResponse
	if err := a.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Component.Measures == nil {
		return nil, integrations.ConfigError("Invalid response format: missing 'measures' array")
	}

	metrics := &Metrics{}
	for _, m := range *resp.Component.Measures {
		switch m.Metric {
		case "coverage":
			if v, err := strconv.ParseFloat(m.Value, 64); err == nil {
				metrics.Coverage = &v
			}
		case "bugs":
			metrics.Bugs = a.count(m)
		case "vulnerabilities":
			metrics.Vulnerabilities = a.count(m)
		case "code_smells":
			metrics.CodeSmells = a.count(m)
		case "sqale_index":
			debt := m.Value
			metrics.TechnicalDebt = &debt
		}
	}
	return metrics, nil
}

func (a *Adapter) count(m measure) int {
	n, err := strconv.Atoi(m.Value)
	if err != nil {
		a.logger.Debug("Ignoring non-integer SonarQube measure", zap.String("metric", m.Metric), zap.String("value", m.Value))
		return 0
	}
	return n
}

func (a *Adapter) get(ctx context.Context, endpoint string, v interface{}) error {
	target := a.baseURL + "/api" + endpoint
	a.logger.Debug("SonarQube API request", zap.String("url", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return integrations.ConfigError("Invalid SonarQube URL %s: %v", target, err)
	}
	req.SetBasicAuth(a.token, "")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("SonarQube API error", zap.String("url", target), zap.Error(err))
		return err
	}
	if err := resp.DecodeJSON(v); err != nil {
		a.logger.Error("Failed to parse SonarQube API response", zap.String("url", target), zap.Error(err))
		return err
	}
	return nil
}
