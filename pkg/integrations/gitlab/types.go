package gitlab

// Project is a GitLab project as returned by /projects.
type Project struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Path   string `json:"path"`
	WebURL string `json:"web_url"`
}

// Pipeline is a CI pipeline of a project.
type Pipeline struct {
	ID        int    `json:"id"`
	Status    string `json:"status"`
	Ref       string `json:"ref"`
	CreatedAt string `json:"created_at"`
}

// Webhook is a project hook. Events lists the *_events flags that are enabled.
type Webhook struct {
	ID     int      `json:"id"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

// hookPayload mirrors the fields GitLab returns for a project hook.
type hookPayload struct {
	ID                       int      `json:"id"`
	URL                      string   `json:"url"`
	Events                   []string `json:"events"`
	PushEvents               bool     `json:"push_events"`
	TagPushEvents            bool     `json:"tag_push_events"`
	MergeRequestsEvents      bool     `json:"merge_requests_events"`
	IssuesEvents             bool     `json:"issues_events"`
	NoteEvents               bool     `json:"note_events"`
	PipelineEvents           bool     `json:"pipeline_events"`
	JobEvents                bool     `json:"job_events"`
	DeploymentEvents         bool     `json:"deployment_events"`
	ReleasesEvents           bool     `json:"releases_events"`
	WikiPageEvents           bool     `json:"wiki_page_events"`
	ConfidentialIssuesEvents bool     `json:"confidential_issues_events"`
}

func (h hookPayload) toWebhook() Webhook {
	events := h.Events
	if events == nil {
		events = []string{}
		flags := []struct {
			enabled bool
			name    string
		}{
			{h.PushEvents, "push_events"},
			{h.TagPushEvents, "tag_push_events"},
			{h.MergeRequestsEvents, "merge_requests_events"},
			{h.IssuesEvents, "issues_events"},
			{h.ConfidentialIssuesEvents, "confidential_issues_events"},
			{h.NoteEvents, "note_events"},
			{h.PipelineEvents, "pipeline_events"},
			{h.JobEvents, "job_events"},
			{h.DeploymentEvents, "deployment_events"},
			{h.ReleasesEvents, "releases_events"},
			{h.WikiPageEvents, "wiki_page_events"},
		}
		for _, f := range flags {
			if f.enabled {
				events = append(events, f.name)
			}
		}
	}
	return Webhook{ID: h.ID, URL: h.URL, Events: events}
}
