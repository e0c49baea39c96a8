// Package safego launches goroutines that log panics instead of crashing
// the process.
package safego

import (
	"context"
	"runtime/debug"

	"github.com/inkwell-ai/inkwell/pkg/logger"
)

// Go runs fn in a new goroutine with panic recovery. If ctx is already
// cancelled the function is not started.
func Go(ctx context.Context, fn func()) {
	if ctx != nil && ctx.Err() != nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("goroutine panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}
