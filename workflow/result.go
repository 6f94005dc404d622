package workflow

import (
	"time"

	"github.com/anthony-okoye/vestro/id"
)

// StepResult is the persisted outcome of one executed step within a
// session, identified by the (SessionID, StepNumber) pair. It is owned
// exclusively by the session that produced it and is immutable except via
// a session reset, which deletes every result for the session.
type StepResult struct {
	ID         id.ResultID    `json:"id"`
	SessionID  id.SessionID   `json:"session_id"`
	StepNumber int            `json:"step_number"`
	Success    bool           `json:"success"`
	Data       map[string]any `json:"data,omitempty"`
	Warnings   []string       `json:"warnings,omitempty"`
	ExecutedAt time.Time      `json:"executed_at"`
}

// NewStepResult creates a result record for a session/step pair.
func NewStepResult(sessionID id.SessionID, stepNumber int, data map[string]any, warnings []string) *StepResult {
	return &StepResult{
		ID:         id.NewResultID(),
		SessionID:  sessionID,
		StepNumber: stepNumber,
		Success:    true,
		Data:       data,
		Warnings:   warnings,
		ExecutedAt: time.Now().UTC(),
	}
}

// Clone returns a deep copy with its own data map and warnings slice.
func (r *StepResult) Clone() *StepResult {
	c := *r
	if r.Data != nil {
		c.Data = make(map[string]any, len(r.Data))
		for k, v := range r.Data {
			c.Data[k] = v
		}
	}
	c.Warnings = append([]string(nil), r.Warnings...)
	return &c
}
