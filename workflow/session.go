package workflow

import (
	"sort"

	"github.com/anthony-okoye/vestro"
	"github.com/anthony-okoye/vestro/id"
)

// Session represents one user's in-progress or completed traversal of the
// step pipeline.
//
// CurrentStep is 1-based and monotonically non-decreasing except on reset.
// CompletedSteps has set semantics: sorted ascending, no duplicates. A
// skipped step advances CurrentStep past it without joining the set.
// Version is the optimistic-concurrency counter: UpdateSession succeeds
// only when the caller holds the stored version, closing the race between
// two orchestrator instances advancing the same step.
type Session struct {
	vestro.Entity

	ID             id.SessionID `json:"id"`
	UserID         string       `json:"user_id"`
	CurrentStep    int          `json:"current_step"`
	CompletedSteps []int        `json:"completed_steps"`
	Version        int64        `json:"version"`
}

// NewSession creates a fresh session for a user, awaiting step 1.
func NewSession(userID string) *Session {
	return &Session{
		Entity:         vestro.NewEntity(),
		ID:             id.NewSessionID(),
		UserID:         userID,
		CurrentStep:    1,
		CompletedSteps: []int{},
		Version:        1,
	}
}

// HasCompleted reports whether the step number is in the completed set.
func (s *Session) HasCompleted(stepNumber int) bool {
	for _, n := range s.CompletedSteps {
		if n == stepNumber {
			return true
		}
	}
	return false
}

// MarkCompleted adds the step number to the completed set, preserving
// sorted order and set semantics.
func (s *Session) MarkCompleted(stepNumber int) {
	if s.HasCompleted(stepNumber) {
		return
	}
	s.CompletedSteps = append(s.CompletedSteps, stepNumber)
	sort.Ints(s.CompletedSteps)
}

// Completed reports whether the session has moved past the final step of
// a catalog with the given total.
func (s *Session) Completed(totalSteps int) bool {
	return s.CurrentStep > totalSteps
}

// Clone returns a deep copy. Stores hand out clones so callers never
// share the backing slice.
func (s *Session) Clone() *Session {
	c := *s
	c.CompletedSteps = append([]int(nil), s.CompletedSteps...)
	return &c
}
