package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/anthony-okoye/vestro"
	"github.com/anthony-okoye/vestro/id"
	"github.com/anthony-okoye/vestro/workflow"
)

// CreateSession persists a fresh session awaiting step 1.
func (s *Store) CreateSession(ctx context.Context, userID string) (*workflow.Session, error) {
	sess := workflow.NewSession(userID)

	_, err := s.pool.Exec(ctx, `
		INSERT INTO vestro_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sess.ID.String(), sess.UserID, sess.CurrentStep, completedSteps(sess),
		sess.Version, sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("vestro/postgres: create session: %w", err)
	}
	return sess, nil
}

// GetSession retrieves a session by id.
func (s *Store) GetSession(ctx context.Context, sessionID id.SessionID) (*workflow.Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM vestro_sessions
		WHERE id = $1`,
		sessionID.String(),
	)
	sess, err := scanSession(row)
	if err != nil {
		if isNoRows(err) {
			return nil, vestro.ErrSessionNotFound
		}
		return nil, fmt.Errorf("vestro/postgres: get session: %w", err)
	}
	return sess, nil
}

// UpdateSession writes the full session state, guarded by the version
// check: the UPDATE matches only when the stored version equals the
// caller's, so a concurrent writer makes this a zero-row update. On
// success the caller's Version and UpdatedAt advance to the stored
// values.
func (s *Store) UpdateSession(ctx context.Context, sess *workflow.Session) error {
	now := time.Now().UTC()

	tag, err := s.pool.Exec(ctx, `
		UPDATE vestro_sessions
		SET current_step = $2, completed_steps = $3, version = version + 1, updated_at = $4
		WHERE id = $1 AND version = $5`,
		sess.ID.String(), sess.CurrentStep, completedSteps(sess), now, sess.Version,
	)
	if err != nil {
		return fmt.Errorf("vestro/postgres: update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Zero rows means the id is gone or the version moved; read back
		// to tell the two apart.
		var stored int64
		err = s.pool.QueryRow(ctx,
			`SELECT version FROM vestro_sessions WHERE id = $1`,
			sess.ID.String(),
		).Scan(&stored)
		if err != nil {
			if isNoRows(err) {
				return vestro.ErrSessionNotFound
			}
			return fmt.Errorf("vestro/postgres: update session: %w", err)
		}
		return fmt.Errorf("%w: session %s is at version %d, update carries %d",
			vestro.ErrSessionConflict, sess.ID, stored, sess.Version)
	}

	sess.Version++
	sess.UpdatedAt = now
	return nil
}

// SaveStepResult upserts the result keyed by (session_id, step_number).
func (s *Store) SaveStepResult(ctx context.Context, r *workflow.StepResult) error {
	data, err := resultData(r)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO vestro_step_results (`+resultColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id, step_number) DO UPDATE SET
			success     = EXCLUDED.success,
			data        = EXCLUDED.data,
			warnings    = EXCLUDED.warnings,
			executed_at = EXCLUDED.executed_at`,
		r.ID.String(), r.SessionID.String(), r.StepNumber, r.Success,
		data, resultWarnings(r), r.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("vestro/postgres: save step result: %w", err)
	}
	return nil
}

// GetStepResult retrieves one step's result for a session.
func (s *Store) GetStepResult(ctx context.Context, sessionID id.SessionID, stepNumber int) (*workflow.StepResult, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+resultColumns+`
		FROM vestro_step_results
		WHERE session_id = $1 AND step_number = $2`,
		sessionID.String(), stepNumber,
	)
	r, err := scanStepResult(row)
	if err != nil {
		if isNoRows(err) {
			return nil, vestro.ErrResultNotFound
		}
		return nil, fmt.Errorf("vestro/postgres: get step result: %w", err)
	}
	return r, nil
}

// GetAllStepResults returns every result for a session keyed by step
// number. A session with no results yields an empty map.
func (s *Store) GetAllStepResults(ctx context.Context, sessionID id.SessionID) (map[int]*workflow.StepResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+resultColumns+`
		FROM vestro_step_results
		WHERE session_id = $1
		ORDER BY step_number ASC`,
		sessionID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("vestro/postgres: list step results: %w", err)
	}
	defer rows.Close()

	results := make(map[int]*workflow.StepResult)
	for rows.Next() {
		r, scanErr := scanStepResult(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("vestro/postgres: list step results: %w", scanErr)
		}
		results[r.StepNumber] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vestro/postgres: list step results: %w", err)
	}
	return results, nil
}

// ClearSession deletes all step results for a session, leaving the
// session record itself in place.
func (s *Store) ClearSession(ctx context.Context, sessionID id.SessionID) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM vestro_step_results
		WHERE session_id = $1`,
		sessionID.String(),
	)
	if err != nil {
		return fmt.Errorf("vestro/postgres: clear session: %w", err)
	}
	return nil
}
