package workflow

import (
	"log/slog"
	"time"

	"github.com/anthony-okoye/vestro/middleware"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStepTimeout bounds each processor execution. Zero (the default)
// disables the per-step deadline; the caller's context still applies.
func WithStepTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.stepTimeout = d
	}
}

// WithMiddleware appends middleware to the execution chain, between the
// always-installed Recover (outermost) and Timeout (innermost).
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(o *Orchestrator) {
		o.mws = append(o.mws, mws...)
	}
}
