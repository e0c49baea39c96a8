package runtime

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-ai/inkwell/internal/inkwell/config"
	"github.com/inkwell-ai/inkwell/internal/inkwell/definition"
	"github.com/inkwell-ai/inkwell/internal/inkwell/entity"
	"github.com/inkwell-ai/inkwell/internal/inkwell/llm/spi"
	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
	"github.com/inkwell-ai/inkwell/internal/inkwell/prompt"
	"github.com/inkwell-ai/inkwell/internal/inkwell/runstore"
	"github.com/inkwell-ai/inkwell/internal/inkwell/tools"
)

type fakeModels struct {
	m   model.ToolCallingChatModel
	err error
}

func (f *fakeModels) ChatModel(context.Context, string, *spi.Params) (model.ToolCallingChatModel, error) {
	return f.m, f.err
}

const reviewerAgent = `---
name: reviewer
description: Reviews code changes
model: openai/gpt-4o
tools:
  - echo
---
You are {{ agent_name }} working on run {{ run_id }}.
`

type dispatchFixture struct {
	dispatcher *Dispatcher
	agentsDir  string
	runs       *runstore.Store
	toolCalls  int
}

func newDispatchFixture(t *testing.T, m model.ToolCallingChatModel) *dispatchFixture {
	t.Helper()

	f := &dispatchFixture{agentsDir: t.TempDir()}
	require.NoError(t, os.WriteFile(filepath.Join(f.agentsDir, "reviewer.md"), []byte(reviewerAgent), 0o644))

	cfg := &config.Config{
		AgentsDir:     f.agentsDir,
		Defaults:      config.GenerationDefaults{Model: config.DefaultModel},
		MaxToolRounds: 5,
		RunTimeout:    5 * time.Second,
		Retry:         config.RetryConfig{MaxAttempts: 1, BaseWait: time.Millisecond},
	}

	registry := tools.NewRegistry()
	registry.MustRegister(tools.ToolDefinition{
		Name:        "echo",
		Description: "echoes text",
		Parameters: []tools.ParameterDef{
			{Name: "text", Type: "string", Required: true},
		},
		Handler: func(_ context.Context, params map[string]interface{}) (interface{}, error) {
			f.toolCalls++
			return "echo: " + params["text"].(string), nil
		},
	})

	db, err := runstore.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	f.runs = runstore.NewStore(db)

	f.dispatcher = NewDispatcher(
		cfg,
		definition.NewParser(cfg, registry),
		prompt.NewRenderer(t.TempDir(), nil),
		registry,
		&fakeModels{m: m},
		f.runs,
		runstore.NewArtifactStore(t.TempDir()),
	)
	return f
}

func TestDispatchNewRun(t *testing.T) {
	m := newScriptedModel(
		scriptedResponse{msg: assistantText("looks good", &schema.TokenUsage{PromptTokens: 5, CompletionTokens: 2, TotalTokens: 7})},
	)
	f := newDispatchFixture(t, m)

	res, err := f.dispatcher.Dispatch(context.Background(), Request{Agent: "reviewer", Message: "review this"})
	require.NoError(t, err)

	assert.True(t, res.NewRun)
	assert.Regexp(t, `^[A-Za-z0-9]{8}$`, res.RunID)
	assert.Equal(t, "looks good", res.Output)
	assert.Equal(t, int64(7), res.Usage.TotalTokens)

	run, err := f.runs.Load(res.RunID)
	require.NoError(t, err)
	assert.Equal(t, "reviewer", run.Agent)
	require.Len(t, run.Turns, 2)
	assert.Equal(t, entity.RoleUser, run.Turns[0].Role)
	assert.Equal(t, "review this", run.Turns[0].Content)
	assert.Equal(t, entity.RoleAssistant, run.Turns[1].Role)
}

func TestDispatchSystemPromptNeverPersisted(t *testing.T) {
	m := newScriptedModel(scriptedResponse{msg: assistantText("ok", nil)})
	f := newDispatchFixture(t, m)

	res, err := f.dispatcher.Dispatch(context.Background(), Request{Agent: "reviewer", Message: "hi"})
	require.NoError(t, err)

	// The model saw the rendered system prompt with the builtin context.
	require.Len(t, m.requests, 1)
	first := m.requests[0][0]
	assert.Equal(t, schema.System, first.Role)
	assert.Contains(t, first.Content, "reviewer")
	assert.Contains(t, first.Content, res.RunID)

	// The stored transcript starts at the user turn.
	run, err := f.runs.Load(res.RunID)
	require.NoError(t, err)
	for _, turn := range run.Turns {
		assert.NotEqual(t, entity.RoleSystem, turn.Role)
	}
}

func TestDispatchResumeIncludesHistory(t *testing.T) {
	m := newScriptedModel(
		scriptedResponse{msg: assistantText("first answer", nil)},
		scriptedResponse{msg: assistantText("second answer", nil)},
	)
	f := newDispatchFixture(t, m)

	first, err := f.dispatcher.Dispatch(context.Background(), Request{Agent: "reviewer", Message: "one"})
	require.NoError(t, err)

	second, err := f.dispatcher.Dispatch(context.Background(), Request{
		Agent: "reviewer", Message: "two", RunID: first.RunID,
	})
	require.NoError(t, err)

	assert.False(t, second.NewRun)
	assert.Equal(t, first.RunID, second.RunID)

	// system + persisted user/assistant pair + new user turn.
	require.Len(t, m.requests, 2)
	resumed := m.requests[1]
	require.Len(t, resumed, 4)
	assert.Equal(t, schema.System, resumed[0].Role)
	assert.Equal(t, "one", resumed[1].Content)
	assert.Equal(t, "first answer", resumed[2].Content)
	assert.Equal(t, "two", resumed[3].Content)

	run, err := f.runs.Load(first.RunID)
	require.NoError(t, err)
	assert.Len(t, run.Turns, 4)
}

func TestDispatchUnknownRunIDCreatesNothing(t *testing.T) {
	m := newScriptedModel(scriptedResponse{msg: assistantText("unreachable", nil)})
	f := newDispatchFixture(t, m)

	_, err := f.dispatcher.Dispatch(context.Background(), Request{
		Agent: "reviewer", Message: "hi", RunID: "nosuch99",
	})
	require.Error(t, err)
	assert.Equal(t, errno.CategoryNotFound, CategoryOf(err))
	assert.True(t, errors.Is(err, errno.ErrRunNotFound))
	assert.Zero(t, m.generateCount())

	runs, err := f.runs.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestDispatchUnknownAgent(t *testing.T) {
	f := newDispatchFixture(t, newScriptedModel())

	_, err := f.dispatcher.Dispatch(context.Background(), Request{Agent: "ghost", Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, errno.CategoryNotFound, CategoryOf(err))
	assert.True(t, errors.Is(err, errno.ErrAgentNotFound))
}

func TestDispatchInvalidAgentDefinition(t *testing.T) {
	f := newDispatchFixture(t, newScriptedModel())
	broken := `---
name: broken
description: Out of range settings
model: openai/gpt-4o
temperature: 3.5
---
Body.
`
	require.NoError(t, os.WriteFile(filepath.Join(f.agentsDir, "broken.md"), []byte(broken), 0o644))

	_, err := f.dispatcher.Dispatch(context.Background(), Request{Agent: "broken", Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, errno.CategoryConfiguration, CategoryOf(err))
}

func TestDispatchRejectsEmptyFields(t *testing.T) {
	f := newDispatchFixture(t, newScriptedModel())

	_, err := f.dispatcher.Dispatch(context.Background(), Request{Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, errno.CategoryConfiguration, CategoryOf(err))

	_, err = f.dispatcher.Dispatch(context.Background(), Request{Agent: "reviewer"})
	require.Error(t, err)
	assert.Equal(t, errno.CategoryConfiguration, CategoryOf(err))
}

func TestDispatchTimeoutPersistsPartial(t *testing.T) {
	m := newScriptedModel(
		scriptedResponse{msg: assistantText("too slow", nil), delay: 500 * time.Millisecond},
	)
	f := newDispatchFixture(t, m)
	f.dispatcher.cfg.RunTimeout = 20 * time.Millisecond

	res, err := f.dispatcher.Dispatch(context.Background(), Request{Agent: "reviewer", Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, errno.CategoryTimeout, CategoryOf(err))
	require.NotNil(t, res, "partial result must carry the run id")

	// The user turn survives a timeout so the run can be resumed.
	run, loadErr := f.runs.Load(res.RunID)
	require.NoError(t, loadErr)
	require.Len(t, run.Turns, 1)
	assert.Equal(t, entity.RoleUser, run.Turns[0].Role)
}

func TestDispatchPerAgentRoundCeiling(t *testing.T) {
	m := newScriptedModel(
		scriptedResponse{msg: assistantToolCall("c1", "echo", `{"text":"1"}`)},
		scriptedResponse{msg: assistantToolCall("c2", "echo", `{"text":"2"}`)},
		scriptedResponse{msg: assistantToolCall("c3", "echo", `{"text":"3"}`)},
	)
	f := newDispatchFixture(t, m)
	capped := `---
name: capped
description: One tool round only
model: openai/gpt-4o
tools:
  - echo
max_tool_rounds: 1
---
Use tools sparingly.
`
	require.NoError(t, os.WriteFile(filepath.Join(f.agentsDir, "capped.md"), []byte(capped), 0o644))

	res, err := f.dispatcher.Dispatch(context.Background(), Request{Agent: "capped", Message: "go"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrMaxRoundsReached))
	assert.Equal(t, errno.CategoryModel, CategoryOf(err))
	assert.Equal(t, 1, f.toolCalls)
	require.NotNil(t, res)

	// user + first tool round + the halting assistant request.
	run, loadErr := f.runs.Load(res.RunID)
	require.NoError(t, loadErr)
	assert.Len(t, run.Turns, 4)
}

func TestDispatchToolCallsRecordedInResult(t *testing.T) {
	m := newScriptedModel(
		scriptedResponse{msg: assistantToolCall("c1", "echo", `{"text":"ping"}`)},
		scriptedResponse{msg: assistantText("done", nil)},
	)
	f := newDispatchFixture(t, m)

	res, err := f.dispatcher.Dispatch(context.Background(), Request{Agent: "reviewer", Message: "hi"})
	require.NoError(t, err)

	require.Len(t, res.ToolCalls, 1)
	assert.Equal(t, "echo", res.ToolCalls[0].Name)
	assert.Equal(t, "echo: ping", res.ToolCalls[0].Result)
}
