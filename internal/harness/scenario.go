package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of RecordStore operations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps run in order against one RecordStore.
	Steps []Step `yaml:"steps"`

	// ListenerCalls, if set, is the expected number of change notifications
	// after the last step.
	ListenerCalls *int `yaml:"listener_calls,omitempty"`
}

// Step is one operation. Which fields are required depends on Op.
type Step struct {
	Op     string  `yaml:"op"`
	Index  *int    `yaml:"index,omitempty"`
	ID     int64   `yaml:"id,omitempty"`
	Name   string  `yaml:"name,omitempty"`
	Path   string  `yaml:"path,omitempty"`
	Length int64   `yaml:"length,omitempty"`
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect lists the values a step must produce. Unset fields are not checked.
type Expect struct {
	ID     *int64  `yaml:"id,omitempty"`
	Name   *string `yaml:"name,omitempty"`
	Path   *string `yaml:"path,omitempty"`
	Length *int64  `yaml:"length,omitempty"`
	Count  *int    `yaml:"count,omitempty"`

	// Error is the expected error class: "not_found" or "index".
	Error string `yaml:"error,omitempty"`
}

// Step operation names.
const (
	OpAdd      = "add"
	OpCount    = "count"
	OpGetAt    = "get_at"
	OpRemoveAt = "remove_at"
	OpRenameAt = "rename_at"
	OpGet      = "get"
	OpRemove   = "remove"
	OpRename   = "rename"
	OpList     = "list"
)

// Error classes reported in traces and matched by Expect.Error.
const (
	ErrClassNotFound = "not_found"
	ErrClassIndex    = "index"
	ErrClassOther    = "error"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "step:" vs "steps:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single step based on its op.
func validateStep(i int, s *Step) error {
	switch s.Op {
	case "":
		return fmt.Errorf("steps[%d]: op is required", i)
	case OpAdd:
		if s.Name == "" {
			return fmt.Errorf("steps[%d]: name is required for add", i)
		}
	case OpGetAt, OpRemoveAt:
		if s.Index == nil {
			return fmt.Errorf("steps[%d]: index is required for %s", i, s.Op)
		}
	case OpRenameAt:
		if s.Index == nil {
			return fmt.Errorf("steps[%d]: index is required for rename_at", i)
		}
		if s.Name == "" {
			return fmt.Errorf("steps[%d]: name is required for rename_at", i)
		}
	case OpGet, OpRemove:
		if s.ID == 0 {
			return fmt.Errorf("steps[%d]: id is required for %s", i, s.Op)
		}
	case OpRename:
		if s.ID == 0 {
			return fmt.Errorf("steps[%d]: id is required for rename", i)
		}
		if s.Name == "" {
			return fmt.Errorf("steps[%d]: name is required for rename", i)
		}
	case OpCount, OpList:
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", i, s.Op)
	}

	if s.Expect != nil {
		switch s.Expect.Error {
		case "", ErrClassNotFound, ErrClassIndex:
		default:
			return fmt.Errorf("steps[%d].expect: unknown error class %q", i, s.Expect.Error)
		}
	}
	return nil
}
