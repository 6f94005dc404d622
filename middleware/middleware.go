// Package middleware provides composable middleware for step execution.
// Middleware wraps processor calls synchronously and can modify execution
// (recover from panics, enforce deadlines, log, add tracing and metrics).
package middleware

import (
	"context"

	"github.com/anthony-okoye/vestro/id"
	"github.com/anthony-okoye/vestro/step"
)

// Execution identifies one step execution flowing through the chain.
type Execution struct {
	SessionID id.SessionID
	UserID    string
	Step      step.Definition
}

// Handler is the terminal function that executes the step processor.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic.
// It receives the current context, the execution being performed, and the
// next handler to call. Middleware MUST call next to continue the chain
// (unless short-circuiting on error).
type Middleware func(ctx context.Context, ex *Execution, next Handler) error

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(recover, logging, timeout) executes as:
//
//	recover → logging → timeout → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, ex *Execution, next Handler) error {
		// Build the chain from the end backwards.
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, ex, prev)
			}
		}
		return h(ctx)
	}
}
