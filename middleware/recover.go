package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Recover returns middleware that recovers from panics in the handler chain.
// Panics are converted to errors and logged with a stack trace, so a
// misbehaving processor cannot take down the orchestrator.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, ex *Execution, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("step processor panicked",
					slog.Int("step", ex.Step.Number),
					slog.String("step_label", ex.Step.Label),
					slog.String("session_id", ex.SessionID.String()),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic in step %d: %v", ex.Step.Number, r)
			}
		}()
		return next(ctx)
	}
}
