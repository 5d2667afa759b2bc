// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

//go:embed activities.json
var embeddedRegistry []byte

var ErrActivityNotFound = errors.New("activity not found")

// Default returns the registry compiled into the binary.
func Default() (*ActivityRegistry, error) {
	return Parse(embeddedRegistry)
}

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a registry document.
func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Lookup finds an activity by its task type.
func (r *ActivityRegistry) Lookup(taskType string) (*Activity, error) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrActivityNotFound, taskType)
}

// Validate checks that every activity is addressable and has usable timeouts.
func (r *ActivityRegistry) Validate() error {
	seen := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if a.ID == "" || a.TaskType == "" {
			return fmt.Errorf("activity %q: id and taskType are required", a.DisplayName)
		}
		if seen[a.TaskType] {
			return fmt.Errorf("duplicate taskType %q", a.TaskType)
		}
		seen[a.TaskType] = true
		if _, err := a.TimeoutDuration(); err != nil {
			return fmt.Errorf("activity %s: %w", a.ID, err)
		}
		if a.ImplementationStatus != "" && !knownStatuses[a.ImplementationStatus] {
			return fmt.Errorf("activity %s: unknown implementation status %q", a.ID, a.ImplementationStatus)
		}
		if a.Retries < 0 {
			return fmt.Errorf("activity %s: retries must not be negative", a.ID)
		}
	}
	return nil
}
