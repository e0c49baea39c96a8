package runtime

import (
	"context"
	"time"

	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
	"github.com/inkwell-ai/inkwell/pkg/logger"
)

// Retrier re-issues model requests that failed transiently, with
// exponential backoff. Non-transient failures are never retried; the
// caller sees them on the first attempt.
type Retrier struct {
	// MaxAttempts is the total attempt budget, first try included.
	MaxAttempts int
	// BaseWait is the backoff before the first retry; it doubles per
	// attempt after that.
	BaseWait time.Duration
}

// Do runs fn until it succeeds, fails non-transiently or the attempt
// budget runs out. The context cancels waits in progress.
func (r Retrier) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts || Classify(lastErr) != errno.CategoryTransient {
			break
		}

		wait := r.BaseWait << (attempt - 1)
		logger.WarnX("runtime", "transient failure, retrying in %s (attempt %d/%d): %v",
			wait, attempt, attempts, lastErr)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
