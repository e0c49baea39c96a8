package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// scriptedResponse configures one model turn in a scripted sequence.
type scriptedResponse struct {
	msg   *schema.Message
	err   error
	delay time.Duration
}

// scriptedModel is a deterministic chat model for runtime tests. It
// records every request so assertions can inspect what the model saw.
type scriptedModel struct {
	mu        sync.Mutex
	index     int
	responses []scriptedResponse

	requests   [][]*schema.Message
	boundTools []*schema.ToolInfo
}

var _ model.ToolCallingChatModel = (*scriptedModel)(nil)

func newScriptedModel(responses ...scriptedResponse) *scriptedModel {
	cloned := make([]scriptedResponse, len(responses))
	copy(cloned, responses)
	return &scriptedModel{responses: cloned}
}

func (m *scriptedModel) Generate(ctx context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	if m.index >= len(m.responses) {
		m.mu.Unlock()
		return nil, fmt.Errorf("script exhausted at request %d", m.index+1)
	}
	current := m.responses[m.index]
	m.index++
	m.requests = append(m.requests, append([]*schema.Message{}, in...))
	m.mu.Unlock()

	if current.delay > 0 {
		select {
		case <-time.After(current.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if current.err != nil {
		return nil, current.err
	}
	return current.msg, nil
}

func (m *scriptedModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("streaming not supported")
}

func (m *scriptedModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boundTools = tools
	return m, nil
}

func (m *scriptedModel) generateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

func assistantText(content string, usage *schema.TokenUsage) *schema.Message {
	msg := &schema.Message{Role: schema.Assistant, Content: content}
	if usage != nil {
		msg.ResponseMeta = &schema.ResponseMeta{Usage: usage}
	}
	return msg
}

func assistantToolCall(callID, toolName, args string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{ID: callID, Function: schema.FunctionCall{Name: toolName, Arguments: args}},
		},
	}
}
