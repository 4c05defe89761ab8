package tooldef

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// InputSchema builds the JSON Schema describing the tool's arguments object.
func (d ToolDef) InputSchema() *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(d.Params))
	var required []string

	for _, param := range d.Params {
		schema := &jsonschema.Schema{
			Type:        string(param.Type),
			Description: param.Description,
		}
		if param.Type == ParamTypeString && param.Pattern != "" {
			schema.Pattern = param.Pattern
		}
		if param.Default != nil {
			if raw, err := json.Marshal(param.Default); err == nil {
				schema.Default = raw
			}
		}

		properties[param.Name] = schema

		if param.Required {
			required = append(required, param.Name)
		}
	}

	inputSchema := &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
	}

	if len(required) > 0 {
		inputSchema.Required = required
	}

	return inputSchema
}

// Validate checks decoded call arguments against the tool's input schema.
func (d ToolDef) Validate(args map[string]any) error {
	resolved, err := d.InputSchema().Resolve(nil)
	if err != nil {
		return fmt.Errorf("failed to resolve schema for %s: %w", d.Name, err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return resolved.Validate(args)
}
