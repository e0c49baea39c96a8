package entity

import (
	"time"
)

// ConversationRun is the durable record behind a run id: the ordered turn
// history plus cumulative usage. It is what lets the stateless dispatcher
// resume a stateful conversation.
//
// Lifecycle is a two-state machine: Fresh (no record) → Active (record
// exists, may be extended). There is no terminal state; runs stay
// appendable until externally deleted.
type ConversationRun struct {
	// ID is the short opaque run identifier.
	ID string `json:"id"`

	// Agent is the agent name that created the run.
	Agent string `json:"agent,omitempty"`

	// Turns is the strictly chronological, append-only message history.
	Turns []*Turn `json:"turns"`

	// Usage accumulates across all invocations of this run.
	Usage Usage `json:"usage"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Usage tracks cumulative request and token counters for a run.
type Usage struct {
	Requests         int   `json:"requests"`
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// Add accumulates another usage delta.
func (u *Usage) Add(delta Usage) {
	u.Requests += delta.Requests
	u.PromptTokens += delta.PromptTokens
	u.CompletionTokens += delta.CompletionTokens
	u.TotalTokens += delta.TotalTokens
}

// ToolCallRecord summarizes one tool invocation inside an invocation
// result: what was called, with which arguments, and how it went.
type ToolCallRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
	Result    string `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
	Failed    bool   `json:"failed"`
}
