package configstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/redhat-appstudio/ops-flow/pkg/logger"
)

const (
	maxFlowIDLength   = 100
	maxFlowNameLength = 200
	flowExtension     = ".json"
)

// ErrFlowNotFound is wrapped by Load and Delete when no file exists for an id.
var ErrFlowNotFound = errors.New("Flow not found")

// FlowStore keeps one JSON file per flow in a directory.
type FlowStore struct {
	dir      string
	validate *validator.Validate
	now      func() time.Time
}

func NewFlowStore(dir string) *FlowStore {
	return &FlowStore{
		dir:      dir,
		validate: validator.New(),
		now:      time.Now,
	}
}

// List returns the metadata of every readable flow, most recently updated
// first. Files that cannot be read or parsed are skipped.
func (s *FlowStore) List() ([]FlowMetadata, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []FlowMetadata{}, nil
		}
		return nil, fmt.Errorf("failed to read flows directory: %w", err)
	}

	flows := []FlowMetadata{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != flowExtension {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warnf("Skipping unreadable flow file %s: %v", path, err)
			continue
		}

		var meta FlowMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			logger.Warnf("Skipping invalid flow file %s: %v", path, err)
			continue
		}
		flows = append(flows, meta)
	}

	sort.SliceStable(flows, func(i, j int) bool {
		return flows[i].UpdatedAt > flows[j].UpdatedAt
	})
	return flows, nil
}

// Load reads one flow.
func (s *FlowStore) Load(id string) (*Flow, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFlowNotFound, id)
		}
		return nil, fmt.Errorf("failed to read flow: %w", err)
	}

	var flow Flow
	if err := json.Unmarshal(data, &flow); err != nil {
		return nil, fmt.Errorf("failed to parse flow: %w", err)
	}
	return &flow, nil
}

// Save validates and writes a flow, assigning an id when it has none. The
// creation time of an existing flow is kept; the update time is always set.
func (s *FlowStore) Save(flow Flow) (*Flow, error) {
	if strings.TrimSpace(flow.ID) == "" {
		flow.ID = uuid.NewString()
	}
	id, err := sanitizeFlowID(flow.ID)
	if err != nil {
		return nil, &ValidationError{Err: err}
	}
	flow.ID = id

	if err := s.validateFlow(flow); err != nil {
		return nil, &ValidationError{Err: err}
	}

	now := s.now().UTC().Format(time.RFC3339)
	flow.UpdatedAt = now
	if existing, err := s.Load(id); err == nil && existing.CreatedAt != "" {
		flow.CreatedAt = existing.CreatedAt
	} else if flow.CreatedAt == "" {
		flow.CreatedAt = now
	}
	if len(flow.Nodes) == 0 {
		flow.Nodes = json.RawMessage("[]")
	}
	if len(flow.Edges) == 0 {
		flow.Edges = json.RawMessage("[]")
	}

	data, err := json.MarshalIndent(flow, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode flow: %w", err)
	}
	if err := writeAtomic(s.dir, id+flowExtension, data); err != nil {
		return nil, err
	}

	logger.Debugf("Saved flow %s (%s)", id, flow.Name)
	return &flow, nil
}

// Delete removes a flow.
func (s *FlowStore) Delete(id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFlowNotFound, id)
		}
		return fmt.Errorf("failed to delete flow: %w", err)
	}
	return nil
}

func (s *FlowStore) path(id string) (string, error) {
	clean, err := sanitizeFlowID(id)
	if err != nil {
		return "", &ValidationError{Err: err}
	}
	return filepath.Join(s.dir, clean+flowExtension), nil
}

func (s *FlowStore) validateFlow(flow Flow) error {
	err := s.validate.Struct(flow)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch {
		case fe.Field() == "Name" && fe.Tag() == "required":
			return errors.New("Flow name cannot be empty")
		case fe.Field() == "Name" && fe.Tag() == "max":
			return fmt.Errorf("Flow name too long (max %d characters)", maxFlowNameLength)
		}
	}
	return fmt.Errorf("invalid flow: %w", err)
}

// sanitizeFlowID keeps ASCII letters, digits, '-' and '_' so an id is always
// a plain file name.
func sanitizeFlowID(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", errors.New("Flow ID cannot be empty")
	}
	if len(id) > maxFlowIDLength {
		return "", fmt.Errorf("Flow ID too long (max %d characters)", maxFlowIDLength)
	}

	var b strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("Flow ID cannot be empty")
	}
	return b.String(), nil
}
