package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"influencer-matching/internal/common/errors"
	"influencer-matching/pkg/registry"
)

// SchemaValidator checks job variables against the input schemas of the
// activity registry. Schemas are compiled once at construction.
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewSchemaValidator compiles the input schema of every registered activity.
func NewSchemaValidator(reg *registry.ActivityRegistry) (*SchemaValidator, error) {
	v := &SchemaValidator{schemas: make(map[string]*gojsonschema.Schema, len(reg.Activities))}
	for _, a := range reg.Activities {
		if len(a.InputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema for %s: %w", a.TaskType, err)
		}
		v.schemas[a.TaskType] = schema
	}
	return v, nil
}

// ValidateInput validates raw job variables for a task type. Task types
// without a schema are accepted. Violations come back as an
// INPUT_SCHEMA_VIOLATION error listing every failing field.
func (v *SchemaValidator) ValidateInput(taskType, variables string) error {
	schema, ok := v.schemas[taskType]
	if !ok {
		return nil
	}
	if variables == "" {
		variables = "{}"
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(variables))
	if err != nil {
		return errors.NewInputSchemaViolationError(taskType, []string{err.Error()})
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		violations[i] = desc.String()
	}
	return errors.NewInputSchemaViolationError(taskType, violations)
}
