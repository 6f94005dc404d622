package workflow

import (
	"context"

	"github.com/anthony-okoye/vestro/id"
)

// Store defines the persistence contract for workflow sessions and step
// results. It is the single source of truth when multiple orchestrator
// instances share one session; implementations must guarantee atomicity
// per entity write.
//
// Absent entities fail with vestro.ErrSessionNotFound or
// vestro.ErrResultNotFound; underlying I/O failures are wrapped with a
// backend-qualified prefix and surfaced unchanged.
type Store interface {
	// CreateSession persists a fresh session for the user, awaiting
	// step 1 with an empty completed set.
	CreateSession(ctx context.Context, userID string) (*Session, error)

	// GetSession retrieves a session by id.
	GetSession(ctx context.Context, sessionID id.SessionID) (*Session, error)

	// UpdateSession replaces the session record with the full desired
	// state; merge logic lives in the orchestrator, not here. The write
	// succeeds only when the caller's Version matches the stored one,
	// failing with vestro.ErrSessionConflict otherwise; on success the
	// stored Version is incremented and UpdatedAt stamped.
	UpdateSession(ctx context.Context, s *Session) error

	// SaveStepResult upserts the result keyed by (SessionID, StepNumber).
	// Overwriting a prior result for the same pair is permitted:
	// re-execution of the current step before advancing is legal.
	SaveStepResult(ctx context.Context, r *StepResult) error

	// GetStepResult retrieves one step's result for a session.
	GetStepResult(ctx context.Context, sessionID id.SessionID, stepNumber int) (*StepResult, error)

	// GetAllStepResults returns every result for a session keyed by step
	// number. A session with no results yields an empty map, not an error.
	GetAllStepResults(ctx context.Context, sessionID id.SessionID) (map[int]*StepResult, error)

	// ClearSession deletes all step results for a session, leaving the
	// session record itself untouched. Used by reset.
	ClearSession(ctx context.Context, sessionID id.SessionID) error
}
