// pkg/registry/schema.go
package registry

import (
	"fmt"
	"time"
)

// Implementation states an activity moves through.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusVerified   = "verified"
)

var knownStatuses = map[string]bool{
	StatusPlanned:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusVerified:   true,
}

// ActivityRegistry lists every task type the matching workers serve.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one task type: its job-variable contract, the BPMN
// error codes it may throw and the broker-side timeout and retry budget.
type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows"`
	Tags                 []string               `json:"tags"`
}

// TimeoutDuration parses the activity timeout. An empty timeout is zero.
func (a *Activity) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", a.Timeout, err)
	}
	return d, nil
}

// DeclaresError reports whether the activity lists code among its BPMN errors.
func (a *Activity) DeclaresError(code string) bool {
	for _, c := range a.ErrorCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Runnable reports whether workers may be started for the activity.
func (a *Activity) Runnable() bool {
	return a.ImplementationStatus == StatusCompleted || a.ImplementationStatus == StatusVerified
}
