package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/anthony-okoye/vestro"
	"github.com/anthony-okoye/vestro/id"
	"github.com/anthony-okoye/vestro/workflow"
)

// updateSessionScript performs the compare-and-swap on a session hash.
// It returns {-1, 0} when the session is gone, {0, stored} when the
// version moved under the caller, and {1, new} on success. Running it
// as a script keeps check and write atomic without WATCH round trips.
var updateSessionScript = goredis.NewScript(`
local stored = redis.call('HGET', KEYS[1], 'version')
if not stored then
  return {-1, 0}
end
if stored ~= ARGV[1] then
  return {0, tonumber(stored)}
end
redis.call('HSET', KEYS[1],
  'current_step', ARGV[2],
  'completed_steps', ARGV[3],
  'version', ARGV[4],
  'updated_at', ARGV[5])
return {1, tonumber(ARGV[4])}
`)

// CreateSession persists a fresh session awaiting step 1.
func (s *Store) CreateSession(ctx context.Context, userID string) (*workflow.Session, error) {
	sess := workflow.NewSession(userID)

	if err := s.client.HSet(ctx, sessionKey(sess.ID.String()), sessionToMap(sess)).Err(); err != nil {
		return nil, fmt.Errorf("vestro/redis: create session: %w", err)
	}
	return sess, nil
}

// GetSession retrieves a session by id.
func (s *Store) GetSession(ctx context.Context, sessionID id.SessionID) (*workflow.Session, error) {
	vals, err := s.client.HGetAll(ctx, sessionKey(sessionID.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("vestro/redis: get session: %w", err)
	}
	if len(vals) == 0 {
		return nil, vestro.ErrSessionNotFound
	}
	return mapToSession(vals)
}

// UpdateSession writes the full session state, guarded by the scripted
// version check. On success the caller's Version and UpdatedAt advance
// to the stored values.
func (s *Store) UpdateSession(ctx context.Context, sess *workflow.Session) error {
	steps, err := json.Marshal(sess.CompletedSteps)
	if err != nil {
		return fmt.Errorf("vestro/redis: encode completed steps: %w", err)
	}

	now := time.Now().UTC()
	res, err := updateSessionScript.Run(ctx, s.client,
		[]string{sessionKey(sess.ID.String())},
		sess.Version,
		sess.CurrentStep,
		string(steps),
		sess.Version+1,
		now.Format(time.RFC3339Nano),
	).Result()
	if err != nil {
		return fmt.Errorf("vestro/redis: update session: %w", err)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return fmt.Errorf("vestro/redis: update session: unexpected script reply %v", res)
	}
	code, _ := vals[0].(int64)
	switch code {
	case 1:
		sess.Version++
		sess.UpdatedAt = now
		return nil
	case 0:
		stored, _ := vals[1].(int64)
		return fmt.Errorf("%w: session %s is at version %d, update carries %d",
			vestro.ErrSessionConflict, sess.ID, stored, sess.Version)
	default:
		return vestro.ErrSessionNotFound
	}
}

// SaveStepResult upserts the result keyed by (session, step number) and
// tracks the step in the session's result index.
func (s *Store) SaveStepResult(ctx context.Context, r *workflow.StepResult) error {
	m, err := resultToMap(r)
	if err != nil {
		return err
	}
	sid := r.SessionID.String()

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, resultKey(sid, r.StepNumber), m)
	pipe.SAdd(ctx, resultIndexKey(sid), strconv.Itoa(r.StepNumber))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("vestro/redis: save step result: %w", err)
	}
	return nil
}

// GetStepResult retrieves one step's result for a session.
func (s *Store) GetStepResult(ctx context.Context, sessionID id.SessionID, stepNumber int) (*workflow.StepResult, error) {
	vals, err := s.client.HGetAll(ctx, resultKey(sessionID.String(), stepNumber)).Result()
	if err != nil {
		return nil, fmt.Errorf("vestro/redis: get step result: %w", err)
	}
	if len(vals) == 0 {
		return nil, vestro.ErrResultNotFound
	}
	return mapToResult(vals)
}

// GetAllStepResults returns every result for a session keyed by step
// number. A session with no results yields an empty map.
func (s *Store) GetAllStepResults(ctx context.Context, sessionID id.SessionID) (map[int]*workflow.StepResult, error) {
	sid := sessionID.String()
	steps, err := s.client.SMembers(ctx, resultIndexKey(sid)).Result()
	if err != nil {
		return nil, fmt.Errorf("vestro/redis: list step results: %w", err)
	}

	results := make(map[int]*workflow.StepResult, len(steps))
	for _, raw := range steps {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return nil, fmt.Errorf("vestro/redis: bad step index entry %q: %w", raw, convErr)
		}

		vals, getErr := s.client.HGetAll(ctx, resultKey(sid, n)).Result()
		if getErr != nil {
			return nil, fmt.Errorf("vestro/redis: list step results: %w", getErr)
		}
		if len(vals) == 0 {
			// Deleted between the index read and here; skip it.
			continue
		}

		r, convErr2 := mapToResult(vals)
		if convErr2 != nil {
			return nil, convErr2
		}
		results[n] = r
	}
	return results, nil
}

// ClearSession deletes all step results for a session, leaving the
// session record itself in place.
func (s *Store) ClearSession(ctx context.Context, sessionID id.SessionID) error {
	sid := sessionID.String()
	steps, err := s.client.SMembers(ctx, resultIndexKey(sid)).Result()
	if err != nil {
		return fmt.Errorf("vestro/redis: clear session: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, raw := range steps {
		if n, convErr := strconv.Atoi(raw); convErr == nil {
			pipe.Del(ctx, resultKey(sid, n))
		}
	}
	pipe.Del(ctx, resultIndexKey(sid))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("vestro/redis: clear session: %w", err)
	}
	return nil
}

// ── helpers ──

func sessionToMap(sess *workflow.Session) map[string]interface{} {
	steps, _ := json.Marshal(sess.CompletedSteps) //nolint:errcheck // []int cannot fail
	return map[string]interface{}{
		"id":              sess.ID.String(),
		"user_id":         sess.UserID,
		"current_step":    strconv.Itoa(sess.CurrentStep),
		"completed_steps": string(steps),
		"version":         strconv.FormatInt(sess.Version, 10),
		"created_at":      sess.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":      sess.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func mapToSession(m map[string]string) (*workflow.Session, error) {
	sessionID, err := id.ParseSessionID(m["id"])
	if err != nil {
		return nil, fmt.Errorf("vestro/redis: parse session id: %w", err)
	}

	currentStep, err := strconv.Atoi(m["current_step"])
	if err != nil {
		return nil, fmt.Errorf("vestro/redis: parse current step: %w", err)
	}
	version, err := strconv.ParseInt(m["version"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("vestro/redis: parse version: %w", err)
	}

	steps := []int{}
	if raw := m["completed_steps"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &steps); err != nil {
			return nil, fmt.Errorf("vestro/redis: decode completed steps: %w", err)
		}
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, m["created_at"])
	updatedAt, _ := time.Parse(time.RFC3339Nano, m["updated_at"])

	return &workflow.Session{
		Entity: vestro.Entity{
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		},
		ID:             sessionID,
		UserID:         m["user_id"],
		CurrentStep:    currentStep,
		CompletedSteps: steps,
		Version:        version,
	}, nil
}

func resultToMap(r *workflow.StepResult) (map[string]interface{}, error) {
	data := []byte(`{}`)
	if r.Data != nil {
		var err error
		if data, err = json.Marshal(r.Data); err != nil {
			return nil, fmt.Errorf("vestro/redis: encode result data: %w", err)
		}
	}
	warnings, err := json.Marshal(r.Warnings)
	if err != nil {
		return nil, fmt.Errorf("vestro/redis: encode result warnings: %w", err)
	}

	return map[string]interface{}{
		"id":          r.ID.String(),
		"session_id":  r.SessionID.String(),
		"step_number": strconv.Itoa(r.StepNumber),
		"success":     strconv.FormatBool(r.Success),
		"data":        string(data),
		"warnings":    string(warnings),
		"executed_at": r.ExecutedAt.Format(time.RFC3339Nano),
	}, nil
}

func mapToResult(m map[string]string) (*workflow.StepResult, error) {
	resultID, err := id.ParseResultID(m["id"])
	if err != nil {
		return nil, fmt.Errorf("vestro/redis: parse result id: %w", err)
	}
	sessionID, err := id.ParseSessionID(m["session_id"])
	if err != nil {
		return nil, fmt.Errorf("vestro/redis: parse session id: %w", err)
	}
	stepNumber, err := strconv.Atoi(m["step_number"])
	if err != nil {
		return nil, fmt.Errorf("vestro/redis: parse step number: %w", err)
	}
	success, _ := strconv.ParseBool(m["success"])

	var data map[string]any
	if raw := m["data"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, fmt.Errorf("vestro/redis: decode result data: %w", err)
		}
	}
	var warnings []string
	if raw := m["warnings"]; raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &warnings); err != nil {
			return nil, fmt.Errorf("vestro/redis: decode result warnings: %w", err)
		}
	}

	executedAt, _ := time.Parse(time.RFC3339Nano, m["executed_at"])

	return &workflow.StepResult{
		ID:         resultID,
		SessionID:  sessionID,
		StepNumber: stepNumber,
		Success:    success,
		Data:       data,
		Warnings:   warnings,
		ExecutedAt: executedAt,
	}, nil
}
