package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/inkwell-ai/inkwell/pkg/utils/json"
)

// RegistryTool adapts a ToolDefinition to Eino's tool.InvokableTool so
// registered tools plug into the chat-model tool-call loop.
type RegistryTool struct {
	def ToolDefinition
}

var _ tool.InvokableTool = (*RegistryTool)(nil)

// Info returns the Eino ToolInfo the model sees.
func (t *RegistryTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	params := make(map[string]*schema.ParameterInfo, len(t.def.Parameters))
	for _, p := range t.def.Parameters {
		params[p.Name] = &schema.ParameterInfo{
			Desc:     p.Description,
			Type:     toSchemaDataType(p.Type),
			Required: p.Required,
		}
	}

	return &schema.ToolInfo{
		Name:        t.def.Name,
		Desc:        t.def.Description,
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}, nil
}

// InvokableRun decodes the JSON arguments, checks required parameters and
// calls the handler.
func (t *RegistryTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var params map[string]interface{}
	if argumentsInJSON != "" && argumentsInJSON != "{}" {
		if err := json.Unmarshal([]byte(argumentsInJSON), &params); err != nil {
			return "", fmt.Errorf("tool %q: decode arguments: %w", t.def.Name, err)
		}
	}
	if params == nil {
		params = make(map[string]interface{})
	}

	for _, required := range t.def.RequiredParams() {
		if _, ok := params[required]; !ok {
			return "", fmt.Errorf("tool %q: missing required parameter %q", t.def.Name, required)
		}
	}

	result, err := t.def.Handler(ctx, params)
	if err != nil {
		return "", fmt.Errorf("tool %q: %w", t.def.Name, err)
	}

	if s, ok := result.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("tool %q: encode result: %w", t.def.Name, err)
	}
	return string(data), nil
}

// Adapt wraps tool definitions as Eino tools.
func Adapt(defs []ToolDefinition) []tool.BaseTool {
	out := make([]tool.BaseTool, 0, len(defs))
	for _, def := range defs {
		out = append(out, &RegistryTool{def: def})
	}
	return out
}

func toSchemaDataType(t string) schema.DataType {
	switch t {
	case "string":
		return schema.String
	case "number":
		return schema.Number
	case "boolean":
		return schema.Boolean
	case "object":
		return schema.Object
	case "array":
		return schema.Array
	default:
		return schema.String
	}
}
