package tools

import (
	"context"
	"errors"

	"github.com/inkwell-ai/inkwell/internal/inkwell/entity"
)

// ArtifactSink is the slice of the run store builtin tools use to read
// and write run-scoped artifacts.
type ArtifactSink interface {
	WriteArtifact(runID, name, description, content string) (*entity.Artifact, error)
	ReadArtifact(runID, name string) (*entity.Artifact, error)
	ListArtifacts(runID string) ([]*entity.Artifact, error)
}

type runCtxKey struct{}

// RunContext binds a tool invocation to the run it executes within.
type RunContext struct {
	RunID     string
	Artifacts ArtifactSink
}

// WithRun attaches run scope to a context before tool execution.
func WithRun(ctx context.Context, rc *RunContext) context.Context {
	return context.WithValue(ctx, runCtxKey{}, rc)
}

// RunFromContext extracts the run scope set by the dispatcher.
func RunFromContext(ctx context.Context) (*RunContext, error) {
	rc, ok := ctx.Value(runCtxKey{}).(*RunContext)
	if !ok || rc == nil {
		return nil, errors.New("no run scope on context")
	}
	return rc, nil
}
