package middleware

import (
	"context"
	"time"
)

// Timeout returns middleware that enforces a per-step execution deadline.
// With a zero or negative duration it is a pass-through. When the deadline
// is exceeded the context is cancelled and the handler should return
// context.DeadlineExceeded; the orchestrator maps that to a non-success
// outcome rather than a crash.
func Timeout(d time.Duration) Middleware {
	return func(ctx context.Context, _ *Execution, next Handler) error {
		if d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		return next(ctx)
	}
}
