package middleware

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that logs step start and completion.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, ex *Execution, next Handler) error {
		logger.Info("step started",
			slog.Int("step", ex.Step.Number),
			slog.String("step_label", ex.Step.Label),
			slog.String("session_id", ex.SessionID.String()),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("step failed",
				slog.Int("step", ex.Step.Number),
				slog.String("step_label", ex.Step.Label),
				slog.String("session_id", ex.SessionID.String()),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("step completed",
				slog.Int("step", ex.Step.Number),
				slog.String("step_label", ex.Step.Label),
				slog.String("session_id", ex.SessionID.String()),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
