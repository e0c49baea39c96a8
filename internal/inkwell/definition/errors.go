package definition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
)

// FieldError reports a configuration problem pinned to a specific field
// or constraint of an agent definition.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ResolutionError reports a declared tool or integration that cannot be
// resolved at validation time.
type ResolutionError struct {
	Tool    string
	Message string
}

func (e *ResolutionError) Error() string { return e.Message }

func (e *ResolutionError) Unwrap() error { return errno.ErrToolNotFound }

// NotFoundError reports a missing agent definition, carrying the
// suggestion text entry points render.
type NotFoundError struct {
	Name    string
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Unwrap() error { return errno.ErrAgentNotFound }

// ValidationErrors aggregates every constraint violation found in one
// definition, so a caller sees all failures at once.
type ValidationErrors struct {
	Agent  string
	Errors []error
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("agent %q is invalid: %s", e.Agent, strings.Join(msgs, "; "))
}

func (e *ValidationErrors) Unwrap() []error { return e.Errors }

// HasResolutionError reports whether any wrapped error is a tool
// resolution failure, which the dispatcher categorizes separately from
// plain configuration errors.
func (e *ValidationErrors) HasResolutionError() bool {
	for _, err := range e.Errors {
		var re *ResolutionError
		if errors.As(err, &re) {
			return true
		}
	}
	return false
}
