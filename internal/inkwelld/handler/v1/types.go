// Package v1 implements the /v1 REST API handlers.
package v1

import (
	"time"

	"github.com/inkwell-ai/inkwell/internal/inkwell/entity"
)

// InvokeRequest is the body of POST /v1/invoke.
type InvokeRequest struct {
	// Agent is the agent definition name. Required.
	Agent string `json:"agent" binding:"required"`

	// Message is the user message. Required.
	Message string `json:"message" binding:"required"`

	// Files maps file paths to contents injected into the prompt.
	Files map[string]string `json:"files,omitempty"`

	// RunID resumes an existing run when set.
	RunID string `json:"run_id,omitempty"`
}

// AgentResponse describes one loadable agent definition.
type AgentResponse struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Model         string   `json:"model"`
	Tools         []string `json:"tools,omitempty"`
	MCPServers    []string `json:"mcp_servers,omitempty"`
	MaxToolRounds int      `json:"max_tool_rounds,omitempty"`
}

// AgentListItem is the shallow form used by the list endpoint; broken
// definitions still appear, with the load error attached.
type AgentListItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ToolParameterResponse describes one tool parameter.
type ToolParameterResponse struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// ToolResponse describes one registered tool.
type ToolResponse struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Parameters  []ToolParameterResponse `json:"parameters,omitempty"`
}

// RunSummary is the shallow run form used by the list endpoint.
type RunSummary struct {
	ID        string       `json:"id"`
	Agent     string       `json:"agent,omitempty"`
	Turns     int          `json:"turns"`
	Usage     entity.Usage `json:"usage"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ArtifactResponse describes one run artifact without its content.
type ArtifactResponse struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAgentResponse(def *entity.AgentDefinition) AgentResponse {
	return AgentResponse{
		Name:          def.Name,
		Description:   def.Description,
		Model:         def.Model,
		Tools:         def.Tools,
		MCPServers:    def.MCPServers,
		MaxToolRounds: def.MaxToolRounds,
	}
}

func toRunSummary(run *entity.ConversationRun) RunSummary {
	return RunSummary{
		ID:        run.ID,
		Agent:     run.Agent,
		Turns:     len(run.Turns),
		Usage:     run.Usage,
		CreatedAt: run.CreatedAt,
		UpdatedAt: run.UpdatedAt,
	}
}
