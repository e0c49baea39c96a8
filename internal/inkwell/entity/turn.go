package entity

import (
	"time"
)

// Role is the sender role of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Turn is one message exchange unit within a run. Turns are append-only;
// the store never rewrites history.
type Turn struct {
	// Role is the sender role (system/user/assistant/tool).
	Role Role `json:"role"`

	// Content is the text content.
	Content string `json:"content"`

	// Name is an optional sender name, set for tool results.
	Name string `json:"name,omitempty"`

	// ToolCalls are tool invocations requested by the assistant.
	ToolCalls []*ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID links a tool-role turn back to the call it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// CreatedAt is when this turn was produced.
	CreatedAt time.Time `json:"created_at"`
}

// ToolCall is a single model-requested tool invocation.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewUserTurn creates a user turn.
func NewUserTurn(content string) *Turn {
	return &Turn{Role: RoleUser, Content: content, CreatedAt: time.Now()}
}

// NewAssistantTurn creates an assistant turn.
func NewAssistantTurn(content string) *Turn {
	return &Turn{Role: RoleAssistant, Content: content, CreatedAt: time.Now()}
}

// NewToolTurn creates a tool result turn.
func NewToolTurn(toolCallID, name, content string) *Turn {
	return &Turn{
		Role:       RoleTool,
		Content:    content,
		Name:       name,
		ToolCallID: toolCallID,
		CreatedAt:  time.Now(),
	}
}
