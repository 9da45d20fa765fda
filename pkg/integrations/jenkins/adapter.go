// Package jenkins implements the Jenkins JSON API adapter.
package jenkins

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/httpclient"
)

const (
	jobsTree   = "/api/json?tree=jobs[name,url,color,_class]"
	buildsTree = "/api/json?tree=builds[number,result,timestamp,url,duration]"

	// defaultColor is reported for jobs that never ran
	defaultColor = "notbuilt"
)

// Adapter talks to one Jenkins controller with basic auth. The password may
// be an API token.
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

// New creates a Jenkins adapter.
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

func (a *Adapter) Name() string { return "Jenkins" }

func (a *Adapter) Type() integrations.IntegrationType { return integrations.TypeJenkins }

func (a *Adapter) BaseURL() string { return a.baseURL }

// TestConnection reads the controller node name, which requires valid credentials.
func (a *Adapter) TestConnection(ctx context.Context) error {
	var info map[string]interface{}
	return a.get(ctx, "/api/json?tree=nodeName", &info)
}

// FetchJobs lists every job, descending into folders breadth first. A failure
// on the top-level listing is returned; a sub-folder that cannot be read is
// skipped with a warning.
func (a *Adapter) FetchJobs(ctx context.Context) ([]Job, error) {
	jobs := []Job{}
	queue := []string{""}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, integrations.FromTransportError(err)
		}

		path := queue[0]
		queue = queue[1:]

		endpoint := jobsTree
		if path != "" {
			endpoint = jobPath(path) + jobsTree
		}

		var list jobList
		if err := a.get(ctx, endpoint, &list); err != nil {
			if path == "" {
				return nil, err
			}
			a.logger.Warn("Failed to fetch Jenkins folder, skipping", zap.String("path", path), zap.Error(err))
			continue
		}
		if list.Jobs == nil {
			a.logger.Warn("Invalid Jenkins response: missing 'jobs' array", zap.String("path", path))
			continue
		}

		for _, item := range *list.Jobs {
			if item.Name == nil || item.URL == nil {
				continue
			}

			color := defaultColor
			if item.Color != nil {
				color = *item.Color
			}

			fullPath := *item.Name
			if path != "" {
				fullPath = path + "/" + *item.Name
			}

			if isFolder(item.Class, color) {
				queue = append(queue, fullPath)
				continue
			}
			jobs = append(jobs, Job{Name: fullPath, URL: *item.URL, Color: color})
		}
	}

	return jobs, nil
}

// FetchBuilds returns the builds of a job. job is the full path from FetchJobs.
func (a *Adapter) FetchBuilds(ctx context.Context, job string) ([]Build, error) {
	var list buildList
	if err := a.get(ctx, jobPath(job)+buildsTree, &list); err != nil {
		return nil, err
	}
	if list.Builds == nil {
		return nil, integrations.ConfigError("Invalid response format: missing 'builds' array")
	}

	builds := make([]Build, 0, len(*list.Builds))
	for _, item := range *list.Builds {
		build, err := item.toBuild(ListStatus(item.Result))
		if err != nil {
			return nil, err
		}
		builds = append(builds, build)
	}
	return builds, nil
}

// FetchBuildDetails returns a single build.
func (a *Adapter) FetchBuildDetails(ctx context.Context, job string, number uint32) (*Build, error) {
	var item buildItem
	if err := a.get(ctx, fmt.Sprintf("%s/%d/api/json", jobPath(job), number), &item); err != nil {
		return nil, err
	}

	building := item.Building != nil && *item.Building
	build, err := item.toBuild(DetailStatus(item.Result, building))
	if err != nil {
		return nil, err
	}
	return &build, nil
}

// TriggerBuild queues a build. Non-empty params use buildWithParameters.
func (a *Adapter) TriggerBuild(ctx context.Context, job string, params map[string]string) error {
	endpoint := jobPath(job) + "/build"
	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		query := make([]string, 0, len(keys))
		for _, k := range keys {
			query = append(query, url.QueryEscape(k)+"="+url.QueryEscape(params[k]))
		}
		endpoint = jobPath(job) + "/buildWithParameters?" + strings.Join(query, "&")
	}

	_, err := a.request(ctx, http.MethodPost, endpoint)
	return err
}

// ListStatus maps a build result from a list response, where an absent
// result means the build is still running.
func ListStatus(result *string) BuildStatus {
	if result == nil {
		return StatusBuilding
	}
	return mapResult(*result)
}

// DetailStatus maps a build result from a single-build response, which also
// reports whether the build is running.
func DetailStatus(result *string, building bool) BuildStatus {
	if result == nil {
		if building {
			return StatusBuilding
		}
		return StatusPending
	}
	return mapResult(*result)
}

// mapResult falls back to NotBuilt for results Jenkins may add in the future.
func mapResult(result string) BuildStatus {
	switch result {
	case "SUCCESS":
		return StatusSuccess
	case "FAILURE":
		return StatusFailure
	case "UNSTABLE":
		return StatusUnstable
	case "ABORTED":
		return StatusAborted
	default:
		// NOT_BUILT and anything unrecognized.
		return StatusNotBuilt
	}
}

func isFolder(class, color string) bool {
	return strings.Contains(class, "Folder") || color == "folder"
}

// jobPath converts "a/b/c" into "/job/a/job/b/job/c" with each segment escaped.
func jobPath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "/job/" + strings.Join(segments, "/job/")
}

func (b buildItem) toBuild(status BuildStatus) (Build, error) {
	if b.Number == nil {
		return Build{}, integrations.ConfigError("Invalid build format: missing 'number'")
	}
	if b.URL == nil {
		return Build{}, integrations.ConfigError("Invalid build format: missing 'url'")
	}
	if b.Timestamp == nil {
		return Build{}, integrations.ConfigError("Invalid build format: missing 'timestamp'")
	}

	build := Build{
		Number:    *b.Number,
		Status:    status,
		Timestamp: fmt.Sprintf("%d", *b.Timestamp),
		URL:       *b.URL,
	}
	if b.Duration != nil {
		d := fmt.Sprintf("%d", *b.Duration)
		build.Duration = &d
	}
	return build, nil
}

func (a *Adapter) get(ctx context.Context, endpoint string, v interface{}) error {
	resp, err := a.request(ctx, http.MethodGet, endpoint)
	if err != nil {
		return err
	}
	if err := resp.DecodeJSON(v); err != nil {
		a.logger.Error("Failed to parse Jenkins API response", zap.String("url", resp.URL), zap.Error(err))
		return err
	}
	return nil
}

func (a *Adapter) request(ctx context.Context, method, endpoint string) (*httpclient.Response, error) {
	target := a.baseURL + endpoint
	a.logger.Debug("Jenkins API request", zap.String("method", method), zap.String("url", target))

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, integrations.ConfigError("Invalid Jenkins URL %s: %v", target, err)
	}
	req.SetBasicAuth(a.username, a.password)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("Jenkins API error", zap.String("url", target), zap.Error(err))
		return nil, err
	}
	return resp, nil
}
