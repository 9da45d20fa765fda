package configstore

import "github.com/goccy/go-json"

// Project groups environments that belong to one product.
type Project struct {
	ID           string   `json:"id" yaml:"id" validate:"required,max=100"`
	Name         string   `json:"name" yaml:"name" validate:"required,max=200"`
	Description  *string  `json:"description" yaml:"description,omitempty"`
	Environments []string `json:"environments" yaml:"environments"`
}

// Environment is a deployment target of a project, optionally bound to a
// Kubernetes namespace.
type Environment struct {
	ID        string  `json:"id" yaml:"id" validate:"required,max=100"`
	Name      string  `json:"name" yaml:"name" validate:"required,max=200"`
	Namespace *string `json:"namespace" yaml:"namespace,omitempty"`
	ProjectID string  `json:"project_id" yaml:"project_id" validate:"required"`
}

// Mapping links resources across services, e.g. a GitLab repository to the
// Jenkins job and Kubernetes service that build and run it.
type Mapping struct {
	ID            string  `json:"id" yaml:"id" validate:"required,max=100"`
	RepoID        *string `json:"repo_id" yaml:"repo_id,omitempty"`
	JobID         *string `json:"job_id" yaml:"job_id,omitempty"`
	Namespace     *string `json:"namespace" yaml:"namespace,omitempty"`
	ServiceName   *string `json:"service_name" yaml:"service_name,omitempty"`
	ProjectID     *string `json:"project_id" yaml:"project_id,omitempty"`
	EnvironmentID *string `json:"environment_id" yaml:"environment_id,omitempty"`
}

// Flow is a flow editor document. Nodes, edges and viewport are owned by
// the editor and stored verbatim.
type Flow struct {
	ID        string           `json:"id"`
	Name      string           `json:"name" validate:"required,max=200"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
	Nodes     json.RawMessage  `json:"nodes"`
	Edges     json.RawMessage  `json:"edges"`
	Viewport  *json.RawMessage `json:"viewport,omitempty"`
}

// FlowMetadata is the listing view of a flow.
type FlowMetadata struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
