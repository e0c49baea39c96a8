package runtime

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-ai/inkwell/internal/inkwell/entity"
	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
	"github.com/inkwell-ai/inkwell/internal/inkwell/tools"
)

var testRetry = Retrier{MaxAttempts: 1, BaseWait: time.Millisecond}

func echoTools(calls *int) []tool.BaseTool {
	r := tools.NewRegistry()
	r.MustRegister(tools.ToolDefinition{
		Name:        "echo",
		Description: "echoes text",
		Parameters: []tools.ParameterDef{
			{Name: "text", Type: "string", Required: true},
		},
		Handler: func(_ context.Context, params map[string]interface{}) (interface{}, error) {
			if calls != nil {
				*calls++
			}
			return "echo: " + params["text"].(string), nil
		},
	})
	defs, _ := r.Resolve([]string{"echo"})
	return tools.Adapt(defs)
}

func userMessages(content string) []*schema.Message {
	return []*schema.Message{{Role: schema.User, Content: content}}
}

func TestLoopDirectAnswer(t *testing.T) {
	m := newScriptedModel(
		scriptedResponse{msg: assistantText("done", &schema.TokenUsage{PromptTokens: 7, CompletionTokens: 3, TotalTokens: 10})},
	)

	res, err := runLoop(context.Background(), m, userMessages("hi"), nil, 5, testRetry)
	require.NoError(t, err)

	assert.Equal(t, "done", res.Output)
	require.Len(t, res.Turns, 1)
	assert.Equal(t, entity.RoleAssistant, res.Turns[0].Role)
	assert.Empty(t, res.ToolCalls)
	assert.Equal(t, 1, res.Usage.Requests)
	assert.Equal(t, int64(10), res.Usage.TotalTokens)
}

func TestLoopExecutesToolThenAnswers(t *testing.T) {
	m := newScriptedModel(
		scriptedResponse{msg: assistantToolCall("call-1", "echo", `{"text":"ping"}`)},
		scriptedResponse{msg: assistantText("final", nil)},
	)
	calls := 0

	res, err := runLoop(context.Background(), m, userMessages("hi"), echoTools(&calls), 5, testRetry)
	require.NoError(t, err)

	assert.Equal(t, "final", res.Output)
	assert.Equal(t, 1, calls)

	// assistant(tool call) + tool observation + assistant(final).
	require.Len(t, res.Turns, 3)
	assert.Equal(t, entity.RoleTool, res.Turns[1].Role)
	assert.Equal(t, "echo: ping", res.Turns[1].Content)
	assert.Equal(t, "echo", res.Turns[1].Name)
	assert.Equal(t, "call-1", res.Turns[1].ToolCallID)

	require.Len(t, res.ToolCalls, 1)
	assert.Equal(t, "echo", res.ToolCalls[0].Name)
	assert.Equal(t, "echo: ping", res.ToolCalls[0].Result)
	assert.False(t, res.ToolCalls[0].Failed)

	require.Len(t, m.boundTools, 1)
	assert.Equal(t, "echo", m.boundTools[0].Name)
}

func TestLoopToolFailureIsNotFatal(t *testing.T) {
	r := tools.NewRegistry()
	r.MustRegister(tools.ToolDefinition{
		Name:        "flaky",
		Description: "always fails",
		Handler: func(context.Context, map[string]interface{}) (interface{}, error) {
			return nil, fmt.Errorf("disk on fire")
		},
	})
	defs, _ := r.Resolve([]string{"flaky"})

	m := newScriptedModel(
		scriptedResponse{msg: assistantToolCall("call-1", "flaky", `{}`)},
		scriptedResponse{msg: assistantText("recovered", nil)},
	)

	res, err := runLoop(context.Background(), m, userMessages("hi"), tools.Adapt(defs), 5, testRetry)
	require.NoError(t, err)

	assert.Equal(t, "recovered", res.Output)
	require.Len(t, res.ToolCalls, 1)
	assert.True(t, res.ToolCalls[0].Failed)
	assert.Contains(t, res.ToolCalls[0].Error, "disk on fire")

	// The failure went back to the model as the observation.
	assert.Contains(t, res.Turns[1].Content, "tool error")
	assert.Contains(t, res.Turns[1].Content, "disk on fire")
}

func TestLoopUnknownToolCall(t *testing.T) {
	m := newScriptedModel(
		scriptedResponse{msg: assistantToolCall("call-1", "imaginary", `{}`)},
		scriptedResponse{msg: assistantText("ok", nil)},
	)

	res, err := runLoop(context.Background(), m, userMessages("hi"), echoTools(nil), 5, testRetry)
	require.NoError(t, err)

	require.Len(t, res.ToolCalls, 1)
	assert.True(t, res.ToolCalls[0].Failed)
	assert.Contains(t, res.ToolCalls[0].Error, "not available")
}

func TestLoopHaltsAtRoundCeiling(t *testing.T) {
	// A model that requests a tool on every turn must be stopped after
	// exactly maxRounds tool rounds.
	m := newScriptedModel(
		scriptedResponse{msg: assistantToolCall("c1", "echo", `{"text":"1"}`)},
		scriptedResponse{msg: assistantToolCall("c2", "echo", `{"text":"2"}`)},
		scriptedResponse{msg: assistantToolCall("c3", "echo", `{"text":"3"}`)},
		scriptedResponse{msg: assistantToolCall("c4", "echo", `{"text":"4"}`)},
	)
	calls := 0

	res, err := runLoop(context.Background(), m, userMessages("hi"), echoTools(&calls), 2, testRetry)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrMaxRoundsReached))

	assert.Equal(t, 2, calls, "only maxRounds tool rounds may execute")
	assert.Equal(t, 3, m.generateCount(), "the halting request is the maxRounds+1-th generate")
	assert.Empty(t, res.Output)
	assert.NotEmpty(t, res.Turns, "partial turns must be returned for persistence")
}

func TestLoopZeroRoundsForbidsAnyToolUse(t *testing.T) {
	m := newScriptedModel(
		scriptedResponse{msg: assistantToolCall("c1", "echo", `{"text":"1"}`)},
	)
	calls := 0

	_, err := runLoop(context.Background(), m, userMessages("hi"), echoTools(&calls), 0, testRetry)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrMaxRoundsReached))
	assert.Zero(t, calls)
}

func TestLoopAccumulatesUsageAcrossRounds(t *testing.T) {
	m := newScriptedModel(
		scriptedResponse{msg: func() *schema.Message {
			msg := assistantToolCall("c1", "echo", `{"text":"1"}`)
			msg.ResponseMeta = &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 10, CompletionTokens: 2, TotalTokens: 12}}
			return msg
		}()},
		scriptedResponse{msg: assistantText("done", &schema.TokenUsage{PromptTokens: 20, CompletionTokens: 4, TotalTokens: 24})},
	)

	res, err := runLoop(context.Background(), m, userMessages("hi"), echoTools(nil), 5, testRetry)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Usage.Requests)
	assert.Equal(t, int64(30), res.Usage.PromptTokens)
	assert.Equal(t, int64(6), res.Usage.CompletionTokens)
	assert.Equal(t, int64(36), res.Usage.TotalTokens)
}

func TestLoopRetriesTransientGenerateFailure(t *testing.T) {
	m := newScriptedModel(
		scriptedResponse{err: fmt.Errorf("429 too many requests")},
		scriptedResponse{msg: assistantText("after retry", nil)},
	)

	res, err := runLoop(context.Background(), m, userMessages("hi"), nil, 5,
		Retrier{MaxAttempts: 2, BaseWait: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, "after retry", res.Output)
	assert.Equal(t, 2, m.generateCount())
	assert.Equal(t, 1, res.Usage.Requests, "failed attempts do not count as completed requests")
}

func TestLoopDoesNotRetryNonTransientFailure(t *testing.T) {
	m := newScriptedModel(
		scriptedResponse{err: fmt.Errorf("model does not exist")},
		scriptedResponse{msg: assistantText("never reached", nil)},
	)

	_, err := runLoop(context.Background(), m, userMessages("hi"), nil, 5,
		Retrier{MaxAttempts: 3, BaseWait: time.Millisecond})
	require.Error(t, err)
	assert.Equal(t, 1, m.generateCount())
}

func TestLoopHonorsContextCancellation(t *testing.T) {
	m := newScriptedModel(
		scriptedResponse{msg: assistantText("slow", nil), delay: 200 * time.Millisecond},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := runLoop(ctx, m, userMessages("hi"), nil, 5, testRetry)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
