// Package step defines the processor contract for one unit of work in the
// research pipeline: static step identity, loosely-typed inputs, the
// execution outcome, the read-only context a processor sees, and the
// registry holding one processor per step number.
//
// Processors are deliberately unaware of sessions and ordering. The
// workflow orchestrator validates inputs, assembles the context from
// persisted state, and decides what an outcome means for the session.
package step

import (
	"github.com/spf13/cast"

	"github.com/anthony-okoye/vestro/profile"
)

// Definition is the static identity of a pipeline step.
type Definition struct {
	Number   int    `json:"number"`
	Label    string `json:"label"`
	Optional bool   `json:"optional"`
}

// Inputs is the loosely-typed input map a caller supplies for one step
// execution. Values typically arrive from decoded JSON, so numbers may be
// float64 where a Go caller would pass int; the accessors coerce.
type Inputs map[string]any

// Has reports whether the key is present with a non-nil value.
func (in Inputs) Has(key string) bool {
	v, ok := in[key]
	return ok && v != nil
}

// String returns the value coerced to string, or "" when absent.
func (in Inputs) String(key string) string {
	return cast.ToString(in[key])
}

// Float returns the value coerced to float64, or 0 when absent.
func (in Inputs) Float(key string) float64 {
	return cast.ToFloat64(in[key])
}

// Int returns the value coerced to int, or 0 when absent.
func (in Inputs) Int(key string) int {
	return cast.ToInt(in[key])
}

// Bool returns the value coerced to bool, or false when absent.
func (in Inputs) Bool(key string) bool {
	return cast.ToBool(in[key])
}

// Strings returns the value coerced to a string slice, or nil when absent.
func (in Inputs) Strings(key string) []string {
	if !in.Has(key) {
		return nil
	}
	return cast.ToStringSlice(in[key])
}

// Outcome is the result of executing one step.
//
// A non-success outcome is a normal, reportable condition (failed
// validation, an unavailable data source); it never aborts the caller and
// never mutates the session.
type Outcome struct {
	Success  bool           `json:"success"`
	Data     map[string]any `json:"data,omitempty"`
	Errors   []string       `json:"errors,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`

	// Profile, when non-nil, asks the orchestrator to upsert the user's
	// investment profile. Only the profile-definition step sets it;
	// processors never write to storage themselves.
	Profile *profile.Profile `json:"-"`
}

// Success returns a successful outcome carrying the given data payload.
func Success(data map[string]any) *Outcome {
	return &Outcome{Success: true, Data: data}
}

// Failure returns a non-success outcome carrying the given error messages.
func Failure(errs ...string) *Outcome {
	return &Outcome{Success: false, Errors: errs}
}

// Warn appends warning messages and returns the outcome for chaining.
func (o *Outcome) Warn(msgs ...string) *Outcome {
	o.Warnings = append(o.Warnings, msgs...)
	return o
}
