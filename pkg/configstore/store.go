// Package configstore persists projects, environments, integrations,
// mappings and flow documents as files under the application data directories.
package configstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/redhat-appstudio/ops-flow/pkg/integrations"
	"github.com/redhat-appstudio/ops-flow/pkg/logger"
)

// Collection file names inside the config directory.
const (
	ProjectsFile     = "projects.yaml"
	EnvironmentsFile = "environments.yaml"
	IntegrationsFile = "integrations.yaml"
	MappingsFile     = "mappings.yaml"
)

// ValidationError reports a record rejected before anything was written.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err was caused by invalid input.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Store reads and writes YAML collections in one directory. A missing file
// is an empty collection; writes replace the file atomically.
type Store struct {
	dir      string
	validate *validator.Validate
}

func New(dir string) *Store {
	return &Store{dir: dir, validate: validator.New()}
}

// Dir returns the config directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) LoadProjects() ([]Project, error) {
	return load[Project](s, ProjectsFile, "projects")
}

func (s *Store) SaveProjects(projects []Project) error {
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return save(s, ProjectsFile, "projects", projects, ids)
}

func (s *Store) LoadEnvironments() ([]Environment, error) {
	return load[Environment](s, EnvironmentsFile, "environments")
}

func (s *Store) SaveEnvironments(environments []Environment) error {
	ids := make([]string, len(environments))
	for i, e := range environments {
		ids[i] = e.ID
	}
	return save(s, EnvironmentsFile, "environments", environments, ids)
}

func (s *Store) LoadIntegrations() ([]integrations.Integration, error) {
	return load[integrations.Integration](s, IntegrationsFile, "integrations")
}

func (s *Store) SaveIntegrations(list []integrations.Integration) error {
	ids := make([]string, len(list))
	for i, in := range list {
		ids[i] = in.ID
	}
	return save(s, IntegrationsFile, "integrations", list, ids)
}

// FindIntegration returns the integration with id, or false when none exists.
func (s *Store) FindIntegration(id string) (*integrations.Integration, bool, error) {
	list, err := s.LoadIntegrations()
	if err != nil {
		return nil, false, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], true, nil
		}
	}
	return nil, false, nil
}

func (s *Store) LoadMappings() ([]Mapping, error) {
	return load[Mapping](s, MappingsFile, "mappings")
}

func (s *Store) SaveMappings(mappings []Mapping) error {
	ids := make([]string, len(mappings))
	for i, m := range mappings {
		ids[i] = m.ID
	}
	return save(s, MappingsFile, "mappings", mappings, ids)
}

func load[T any](s *Store, file, key string) ([]T, error) {
	path := filepath.Join(s.dir, file)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	doc := map[string][]T{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}

	items := doc[key]
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func save[T any](s *Store, file, key string, items []T, ids []string) error {
	if items == nil {
		items = []T{}
	}
	for i := range items {
		if err := s.validate.Struct(items[i]); err != nil {
			return &ValidationError{Err: fmt.Errorf("invalid %s: %w", key, err)}
		}
	}
	if err := uniqueIDs(ids); err != nil {
		return &ValidationError{Err: fmt.Errorf("invalid %s: %w", key, err)}
	}

	data, err := yaml.Marshal(map[string][]T{key: items})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", file, err)
	}
	if err := writeAtomic(s.dir, file, data); err != nil {
		return err
	}

	logger.Debugf("Saved %d %s to %s", len(items), key, filepath.Join(s.dir, file))
	return nil
}

func uniqueIDs(ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// writeAtomic writes data to dir/<file>.tmp and renames it over dir/file.
// The directory is created on demand.
func writeAtomic(dir, file string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, file)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
