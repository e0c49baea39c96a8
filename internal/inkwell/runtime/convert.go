package runtime

import (
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/inkwell-ai/inkwell/internal/inkwell/entity"
)

// ToSchemaMessages converts persisted turns to Eino schema messages.
func ToSchemaMessages(turns []*entity.Turn) []*schema.Message {
	result := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		result = append(result, ToSchemaMessage(t))
	}
	return result
}

// ToSchemaMessage handles turn to schema message conversion.
func ToSchemaMessage(t *entity.Turn) *schema.Message {
	sm := &schema.Message{
		Role:       toSchemaRole(t.Role),
		Content:    t.Content,
		Name:       t.Name,
		ToolCallID: t.ToolCallID,
	}

	if len(t.ToolCalls) > 0 {
		sm.ToolCalls = make([]schema.ToolCall, 0, len(t.ToolCalls))
		for _, tc := range t.ToolCalls {
			sm.ToolCalls = append(sm.ToolCalls, schema.ToolCall{
				ID: tc.ID,
				Function: schema.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
	}
	return sm
}

// FromSchemaMessage converts a model response back to a turn.
func FromSchemaMessage(sm *schema.Message) *entity.Turn {
	if sm == nil {
		return nil
	}
	t := &entity.Turn{
		Role:       fromSchemaRole(sm.Role),
		Content:    sm.Content,
		Name:       sm.Name,
		ToolCallID: sm.ToolCallID,
		CreatedAt:  time.Now(),
	}

	if len(sm.ToolCalls) > 0 {
		t.ToolCalls = make([]*entity.ToolCall, 0, len(sm.ToolCalls))
		for _, tc := range sm.ToolCalls {
			t.ToolCalls = append(t.ToolCalls, &entity.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
	}
	return t
}

func toSchemaRole(role entity.Role) schema.RoleType {
	switch role {
	case entity.RoleUser:
		return schema.User
	case entity.RoleAssistant:
		return schema.Assistant
	case entity.RoleSystem:
		return schema.System
	case entity.RoleTool:
		return schema.Tool
	default:
		return schema.User
	}
}

func fromSchemaRole(role schema.RoleType) entity.Role {
	switch role {
	case schema.User:
		return entity.RoleUser
	case schema.Assistant:
		return entity.RoleAssistant
	case schema.System:
		return entity.RoleSystem
	case schema.Tool:
		return entity.RoleTool
	default:
		return entity.RoleAssistant
	}
}
