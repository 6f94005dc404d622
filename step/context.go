package step

import (
	"github.com/spf13/cast"

	"github.com/anthony-okoye/vestro/id"
	"github.com/anthony-okoye/vestro/profile"
)

// Context is the read-only view a processor receives during Execute. The
// orchestrator assembles it from the state store before delegating: prior
// steps' persisted output payloads for the same session, plus the user's
// investment profile when one exists. Processors never reach the store.
type Context struct {
	sessionID id.SessionID
	userID    string
	prof      *profile.Profile
	outputs   map[int]map[string]any
}

// NewContext builds a Context. outputs maps completed step numbers to
// their persisted data payloads.
func NewContext(sessionID id.SessionID, userID string, prof *profile.Profile, outputs map[int]map[string]any) *Context {
	if outputs == nil {
		outputs = make(map[int]map[string]any)
	}
	return &Context{
		sessionID: sessionID,
		userID:    userID,
		prof:      prof,
		outputs:   outputs,
	}
}

// SessionID returns the owning session's id.
func (c *Context) SessionID() id.SessionID { return c.sessionID }

// UserID returns the owning user's id.
func (c *Context) UserID() string { return c.userID }

// Profile returns the user's investment profile, if one has been defined.
func (c *Context) Profile() (*profile.Profile, bool) {
	if c.prof == nil {
		return nil, false
	}
	return c.prof, true
}

// Output returns the persisted data payload of a prior step.
func (c *Context) Output(stepNumber int) (map[string]any, bool) {
	out, ok := c.outputs[stepNumber]
	return out, ok
}

// Value returns one field from a prior step's data payload.
func (c *Context) Value(stepNumber int, key string) (any, bool) {
	out, ok := c.outputs[stepNumber]
	if !ok {
		return nil, false
	}
	v, ok := out[key]
	return v, ok
}

// String returns one field from a prior step's payload coerced to string,
// or "" when the step or field is absent.
func (c *Context) String(stepNumber int, key string) string {
	v, _ := c.Value(stepNumber, key)
	return cast.ToString(v)
}

// Float returns one field from a prior step's payload coerced to float64,
// or 0 when the step or field is absent.
func (c *Context) Float(stepNumber int, key string) float64 {
	v, _ := c.Value(stepNumber, key)
	return cast.ToFloat64(v)
}

// Strings returns one field from a prior step's payload coerced to a
// string slice, or nil when the step or field is absent.
func (c *Context) Strings(stepNumber int, key string) []string {
	v, ok := c.Value(stepNumber, key)
	if !ok || v == nil {
		return nil
	}
	return cast.ToStringSlice(v)
}
