package integrations

import (
	"context"
	"fmt"
	"strings"
)

// IntegrationType identifies one of the supported external services.
type IntegrationType string

const (
	TypeGitLab     IntegrationType = "gitlab"
	TypeJenkins    IntegrationType = "jenkins"
	TypeKubernetes IntegrationType = "kubernetes"
	TypeSonarQube  IntegrationType = "sonarqube"
	TypeKeycloak   IntegrationType = "keycloak"
)

// AllTypes lists every supported integration type.
var AllTypes = []IntegrationType{TypeGitLab, TypeJenkins, TypeKubernetes, TypeSonarQube, TypeKeycloak}

// DisplayName returns the service name as shown to users.
func (t IntegrationType) DisplayName() string {
	switch t {
	case TypeGitLab:
		return "GitLab"
	case TypeJenkins:
		return "Jenkins"
	case TypeKubernetes:
		return "Kubernetes"
	case TypeSonarQube:
		return "SonarQube"
	case TypeKeycloak:
		return "Keycloak"
	default:
		return string(t)
	}
}

// Valid reports whether t is one of the supported types.
func (t IntegrationType) Valid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseIntegrationType accepts any casing of a supported type name.
func ParseIntegrationType(s string) (IntegrationType, error) {
	t := IntegrationType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unsupported integration type %q", s)
	}
	return t, nil
}

// Integration is a configured connection to one external service instance.
// It carries no secrets; CredentialsRef names the secret store entry.
type Integration struct {
	ID             string          `json:"id" yaml:"id" validate:"required,max=100"`
	Type           IntegrationType `json:"type" yaml:"type" validate:"required,oneof=gitlab jenkins kubernetes sonarqube keycloak"`
	Name           string          `json:"name" yaml:"name" validate:"required,max=200"`
	BaseURL        string          `json:"base_url" yaml:"base_url"`
	CredentialsRef *string         `json:"credentials_ref" yaml:"credentials_ref"`
}

// CredentialsKey is the secret store key holding this integration's credentials.
func (i Integration) CredentialsKey() string {
	if i.CredentialsRef != nil && *i.CredentialsRef != "" {
		return *i.CredentialsRef
	}
	return i.ID
}

// Credentials is the secret bundle used to authenticate an adapter.
type Credentials struct {
	Token    *string           `json:"token"`
	Username *string           `json:"username"`
	Password *string           `json:"password"`
	Custom   map[string]string `json:"custom"`
}

// Adapter is the capability set shared by every service adapter.
type Adapter interface {
	// TestConnection performs one cheap authenticated call without side effects.
	TestConnection(ctx context.Context) error
	Name() string
	Type() IntegrationType
	BaseURL() string
}

// NonEmpty returns the value of s when it is set and not blank.
func NonEmpty(s *string) (string, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "", false
	}
	return *s, true
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
