package errno

import (
	"errors"
)

var (
	ErrAgentNotFound    = errors.New("agent not found")
	ErrRunNotFound      = errors.New("run not found")
	ErrRunCorrupted     = errors.New("run record corrupted")
	ErrToolNotFound     = errors.New("tool not found")
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrIncludeNotFound  = errors.New("include not found")
	ErrMaxRoundsReached = errors.New("max tool-call rounds reached")
	ErrModelNotFound    = errors.New("model not found")
	ErrModelNoToolCalls = errors.New("model does not support tool calling")
	ErrUnauthorized     = errors.New("model provider rejected credentials")
)

// Category buckets every failure the dispatcher can surface. Entry points
// render the category plus message; they never see raw stack traces.
type Category string

const (
	CategoryConfiguration  Category = "configuration"
	CategoryResolution     Category = "resolution"
	CategoryAuthentication Category = "authentication"
	CategoryNotFound       Category = "not_found"
	CategoryTransient      Category = "transient"
	CategoryToolExecution  Category = "tool_execution"
	CategoryPersistence    Category = "persistence"
	CategoryTimeout        Category = "timeout"
	CategoryModel          Category = "model"
)

// Retryable reports whether errors in this category may be retried.
// Only transient upstream failures qualify.
func (c Category) Retryable() bool {
	return c == CategoryTransient
}
