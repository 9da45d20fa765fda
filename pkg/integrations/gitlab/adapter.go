// Package gitlab implements the GitLab API v4 adapter.
package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/httpclient"
)

const (
	// apiPrefix is appended to the instance URL for every API call
	apiPrefix = "/api/v4"

	// tokenHeader carries the Personal Access Token
	tokenHeader = "PRIVATE-TOKEN"
)

// Adapter talks to one GitLab instance using a Personal Access Token.
// GitLab API v4 does not accept basic auth.
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

// New creates a GitLab adapter. Trailing slashes on baseURL are ignored.
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

func (a *Adapter) Name() string { return "GitLab" }

func (a *Adapter) Type() integrations.IntegrationType { return integrations.TypeGitLab }

func (a *Adapter) BaseURL() string { return a.baseURL }

// apiURL builds the full API URL for an endpoint starting with "/".
func (a *Adapter) apiURL(endpoint string) string {
	return a.baseURL + apiPrefix + endpoint
}

// TestConnection fetches the current user, which needs a valid token.
func (a *Adapter) TestConnection(ctx context.Context) error {
	var user map[string]interface{}
	return a.get(ctx, "/user", &user)
}

// FetchProjects returns the first page (up to 100) of visible projects.
func (a *Adapter) FetchProjects(ctx context.Context) ([]Project, error) {
	projects := []Project{}
	if err := a.get(ctx, "/projects?per_page=100", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// FetchPipelines returns the most recent pipelines of a project.
func (a *Adapter) FetchPipelines(ctx context.Context, projectID int) ([]Pipeline, error) {
	pipelines := []Pipeline{}
	if err := a.get(ctx, fmt.Sprintf("/projects/%d/pipelines?per_page=100", projectID), &pipelines); err != nil {
		return nil, err
	}
	return pipelines, nil
}

// FetchWebhooks returns the hooks configured on a project.
func (a *Adapter) FetchWebhooks(ctx context.Context, projectID int) ([]Webhook, error) {
	var payload []hookPayload
	if err := a.get(ctx, fmt.Sprintf("/projects/%d/hooks", projectID), &payload); err != nil {
		return nil, err
	}
	hooks := make([]Webhook, 0, len(payload))
	for _, h := range payload {
		hooks = append(hooks, h.toWebhook())
	}
	return hooks, nil
}

// TriggerPipeline starts a pipeline for ref and returns it.
func (a *Adapter) TriggerPipeline(ctx context.Context, projectID int, ref string) (*Pipeline, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, integrations.ConfigError("A ref is required to trigger a pipeline")
	}
	var pipeline Pipeline
	body := map[string]string{"ref": ref}
	if err := a.do(ctx, http.MethodPost, fmt.Sprintf("/projects/%d/trigger/pipeline", projectID), body, &pipeline); err != nil {
		return nil, err
	}
	return &pipeline, nil
}

func (a *Adapter) get(ctx context.Context, endpoint string, v interface{}) error {
	return a.do(ctx, http.MethodGet, endpoint, nil, v)
}

func (a *Adapter) do(ctx context.Context, method, endpoint string, payload, v interface{}) error {
	url := a.apiURL(endpoint)
	a.logger.Debug("GitLab API request", zap.String("method", method), zap.String("url", url))

	req, err := httpclient.NewJSONRequest(ctx, method, url, payload)
	if err != nil {
		return err
	}
	req.Header.Set(tokenHeader, a.token)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("GitLab API error", zap.String("url", url), zap.Error(err))
		return err
	}
	return a.decode(resp, v)
}

// decode rejects HTML and empty bodies before parsing. An HTML page almost
// always means the base URL points at the web UI instead of the instance root.
func (a *Adapter) decode(resp *httpclient.Response, v interface{}) error {
	if resp.LooksLikeHTML() {
		a.logger.Error("GitLab returned HTML instead of JSON", zap.String("url", resp.URL))
		return integrations.ConfigError(
			"GitLab returned an HTML page instead of JSON for %s. Check that the configured base URL (%s) is the GitLab instance root (for example https://gitlab.com) and not a project, group or login page.",
			resp.URL, a.baseURL)
	}
	if resp.IsEmpty() {
		a.logger.Error("GitLab returned an empty body", zap.String("url", resp.URL))
		return integrations.ConfigError(
			"GitLab returned an empty response for %s. Check the configured base URL (%s).",
			resp.URL, a.baseURL)
	}
	if err := resp.DecodeJSON(v); err != nil {
		a.logger.Error("Failed to parse GitLab API response", zap.String("url", resp.URL), zap.Error(err))
		return err
	}
	return nil
}
