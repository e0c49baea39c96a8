// Package runtime executes agent invocations: it assembles the prompt,
// drives the model/tool loop and persists the outcome. Both entry
// points (CLI and server) go through the same Dispatcher.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"

	"github.com/inkwell-ai/inkwell/internal/inkwell/config"
	"github.com/inkwell-ai/inkwell/internal/inkwell/definition"
	"github.com/inkwell-ai/inkwell/internal/inkwell/entity"
	"github.com/inkwell-ai/inkwell/internal/inkwell/llm"
	"github.com/inkwell-ai/inkwell/internal/inkwell/llm/spi"
	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
	"github.com/inkwell-ai/inkwell/internal/inkwell/prompt"
	"github.com/inkwell-ai/inkwell/internal/inkwell/runstore"
	"github.com/inkwell-ai/inkwell/internal/inkwell/tools"
	"github.com/inkwell-ai/inkwell/pkg/logger"
	"github.com/inkwell-ai/inkwell/pkg/utils/json"
)

// Request is one agent invocation.
type Request struct {
	// Agent is the agent definition name.
	Agent string
	// Message is the user message for this invocation.
	Message string
	// Files maps file paths to contents injected into the prompt
	// context under "files".
	Files map[string]string
	// RunID resumes an existing run when set. Empty starts a new run.
	RunID string
}

// Result is the outcome of a successful (or partially successful)
// invocation.
type Result struct {
	RunID     string                   `json:"run_id"`
	NewRun    bool                     `json:"new_run"`
	Output    string                   `json:"output"`
	Usage     entity.Usage             `json:"usage"`
	ToolCalls []*entity.ToolCallRecord `json:"tool_calls,omitempty"`
}

// DispatchError pairs a failure with its category so entry points can
// render a stable, user-facing classification instead of a stack trace.
type DispatchError struct {
	Category errno.Category
	Err      error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// CategoryOf extracts the category from any dispatch failure.
func CategoryOf(err error) errno.Category {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Category
	}
	return Classify(err)
}

// ModelSource resolves a "provider/model-id" reference to a ready
// tool-calling chat model. *llm.Manager is the production
// implementation.
type ModelSource interface {
	ChatModel(ctx context.Context, ref string, params *spi.Params) (model.ToolCallingChatModel, error)
}

var _ ModelSource = (*llm.Manager)(nil)

// Dispatcher wires the definition parser, prompt renderer, tool
// registry, model manager and run store into the invocation flow.
type Dispatcher struct {
	cfg       *config.Config
	parser    *definition.Parser
	renderer  *prompt.Renderer
	registry  *tools.Registry
	models    ModelSource
	runs      *runstore.Store
	artifacts *runstore.ArtifactStore
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(cfg *config.Config, parser *definition.Parser, renderer *prompt.Renderer, registry *tools.Registry, models ModelSource, runs *runstore.Store, artifacts *runstore.ArtifactStore) *Dispatcher {
	return &Dispatcher{
		cfg:       cfg,
		parser:    parser,
		renderer:  renderer,
		registry:  registry,
		models:    models,
		runs:      runs,
		artifacts: artifacts,
	}
}

// Dispatch executes one invocation end to end. Whatever turns the loop
// produced before a timeout or round-ceiling halt are persisted before
// the error is returned, so resuming the run shows the partial
// exchange.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Result, error) {
	if req.Agent == "" {
		return nil, fail(errno.CategoryConfiguration, errors.New("agent name is required"))
	}
	if req.Message == "" {
		return nil, fail(errno.CategoryConfiguration, errors.New("message is required"))
	}

	def, err := d.parser.Load(req.Agent)
	if err != nil {
		return nil, fail(Classify(err), err)
	}
	if def.Model == "" {
		return nil, fail(errno.CategoryConfiguration,
			fmt.Errorf("agent %q has no model binding and no default is configured", def.Name))
	}

	runID, newRun, err := d.resolveRunID(req.RunID)
	if err != nil {
		return nil, err
	}

	var history []*entity.Turn
	if !newRun {
		run, err := d.runs.Load(runID)
		if err != nil {
			return nil, fail(Classify(err), err)
		}
		history = run.Turns
	}

	systemPrompt, err := d.renderer.Render(def.PromptBody, map[string]interface{}{
		"agent_name": def.Name,
		"run_id":     runID,
		"files":      req.Files,
	})
	if err != nil {
		return nil, fail(errno.CategoryConfiguration, fmt.Errorf("render prompt for %q: %w", def.Name, err))
	}

	toolDefs, err := d.registry.Resolve(def.Tools)
	if err != nil {
		return nil, fail(errno.CategoryResolution, err)
	}

	chatModel, err := d.models.ChatModel(ctx, def.Model, spi.ParamsFromDefinition(def))
	if err != nil {
		return nil, fail(Classify(err), err)
	}

	userTurn := entity.NewUserTurn(req.Message)
	messages := ToSchemaMessages(append(
		[]*entity.Turn{{Role: entity.RoleSystem, Content: systemPrompt, CreatedAt: time.Now()}},
		append(append([]*entity.Turn{}, history...), userTurn)...,
	))

	runCtx, cancel := context.WithTimeout(ctx, d.cfg.RunTimeout)
	defer cancel()
	runCtx = tools.WithRun(runCtx, &tools.RunContext{RunID: runID, Artifacts: d.artifacts})

	retry := Retrier{
		MaxAttempts: d.cfg.Retry.MaxAttempts,
		BaseWait:    d.cfg.Retry.BaseWait,
	}
	maxRounds := def.EffectiveMaxToolRounds(d.cfg.MaxToolRounds)

	logger.InfoX("runtime", "dispatching agent=%s run=%s new=%t tools=%d max_rounds=%d",
		def.Name, runID, newRun, len(toolDefs), maxRounds)

	loopRes, loopErr := runLoop(runCtx, chatModel, messages, tools.Adapt(toolDefs), maxRounds, retry)

	// The system prompt is rendered fresh every invocation and never
	// stored; only the user turn and what the loop produced are.
	newTurns := append([]*entity.Turn{userTurn}, loopRes.Turns...)
	if err := d.runs.Append(runID, def.Name, newTurns, loopRes.Usage); err != nil {
		if loopErr != nil {
			err = errors.Join(err, loopErr)
		}
		return nil, fail(errno.CategoryPersistence, err)
	}

	result := &Result{
		RunID:     runID,
		NewRun:    newRun,
		Output:    loopRes.Output,
		Usage:     loopRes.Usage,
		ToolCalls: loopRes.ToolCalls,
	}
	if loopErr != nil {
		return result, fail(Classify(loopErr), loopErr)
	}

	logger.DebugX("runtime", "run=%s result %s", runID, json.MarshalString(result))
	logger.InfoX("runtime", "run=%s completed requests=%d tokens=%d",
		runID, loopRes.Usage.Requests, loopRes.Usage.TotalTokens)
	return result, nil
}

// resolveRunID applies the resume contract: absent id means a fresh run
// with a generated id; a supplied id must already exist, and an unknown
// one is rejected without creating anything.
func (d *Dispatcher) resolveRunID(requested string) (string, bool, error) {
	if requested == "" {
		return d.runs.GenerateID(), true, nil
	}
	exists, err := d.runs.Exists(requested)
	if err != nil {
		return "", false, fail(errno.CategoryPersistence, err)
	}
	if !exists {
		return "", false, fail(errno.CategoryNotFound,
			fmt.Errorf("run %q: %w", requested, errno.ErrRunNotFound))
	}
	return requested, false, nil
}

func fail(cat errno.Category, err error) error {
	return &DispatchError{Category: cat, Err: err}
}
