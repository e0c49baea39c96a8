// Package tools holds the process-wide tool registry. Tools are
// registered at process start (builtin set plus caller registrations) and
// the registry is read-only afterwards; there is no dynamic code loading.
package tools

import (
	"context"
)

// ToolDefinition describes one agent-callable tool.
type ToolDefinition struct {
	// Name is the tool's unique name (e.g. "write_file").
	Name string
	// Description tells the model what the tool does.
	Description string
	// Parameters defines the input schema.
	Parameters []ParameterDef
	// Handler is called when the tool is invoked.
	Handler ToolHandler
}

// ParameterDef defines a single tool parameter.
type ParameterDef struct {
	// Name is the parameter name (e.g. "path").
	Name string
	// Type is the JSON data type ("string", "number", "boolean", "object", "array").
	Type string
	// Description is a brief purpose statement.
	Description string
	// Required marks mandatory parameters.
	Required bool
}

// ToolHandler executes a tool call with decoded parameters.
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// RequiredParams returns the names of the required parameters.
func (d ToolDefinition) RequiredParams() []string {
	var req []string
	for _, p := range d.Parameters {
		if p.Required {
			req = append(req, p.Name)
		}
	}
	return req
}
