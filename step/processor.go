package step

import (
	"context"

	"github.com/anthony-okoye/vestro/validate"
)

// Processor encapsulates the business logic of exactly one step number.
//
// ValidateInputs must be pure and side-effect free: it reports malformed
// input as a failing validate.Result, never as an error or panic. Execute
// is invoked only after validation passed (the orchestrator enforces the
// ordering) and may perform external I/O. A transient collaborator
// failure is returned as a
// non-success Outcome with Errors populated; a non-nil error is reserved
// for programmer-grade failure.
type Processor interface {
	// Definition returns the processor's static step identity.
	Definition() Definition

	// ValidateInputs checks the candidate inputs against the step's
	// field rules.
	ValidateInputs(in Inputs) validate.Result

	// Execute runs the step against validated inputs and the read-only
	// session context.
	Execute(ctx context.Context, in Inputs, sc *Context) (*Outcome, error)
}
