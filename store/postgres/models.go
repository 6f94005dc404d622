package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthony-okoye/vestro"
	"github.com/anthony-okoye/vestro/id"
	"github.com/anthony-okoye/vestro/workflow"
)

// ── Session model ─────────────────────────────────────────────────

const sessionColumns = `id, user_id, current_step, completed_steps, version, created_at, updated_at`

type sessionModel struct {
	ID             string
	UserID         string
	CurrentStep    int
	CompletedSteps []int64
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// scanner abstracts pgx.Row and pgx.Rows for the model converters.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*workflow.Session, error) {
	var m sessionModel
	err := row.Scan(&m.ID, &m.UserID, &m.CurrentStep, &m.CompletedSteps,
		&m.Version, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return fromSessionModel(&m)
}

func fromSessionModel(m *sessionModel) (*workflow.Session, error) {
	parsedID, err := id.ParseSessionID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("vestro/postgres: parse session id %q: %w", m.ID, err)
	}

	steps := make([]int, 0, len(m.CompletedSteps))
	for _, n := range m.CompletedSteps {
		steps = append(steps, int(n))
	}

	return &workflow.Session{
		Entity: vestro.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:             parsedID,
		UserID:         m.UserID,
		CurrentStep:    m.CurrentStep,
		CompletedSteps: steps,
		Version:        m.Version,
	}, nil
}

// completedSteps converts the session's completed set to the array type
// stored in the BIGINT[] column.
func completedSteps(s *workflow.Session) []int64 {
	out := make([]int64, 0, len(s.CompletedSteps))
	for _, n := range s.CompletedSteps {
		out = append(out, int64(n))
	}
	return out
}

// ── Step result model ─────────────────────────────────────────────

const resultColumns = `id, session_id, step_number, success, data, warnings, executed_at`

type resultModel struct {
	ID         string
	SessionID  string
	StepNumber int
	Success    bool
	Data       []byte
	Warnings   []string
	ExecutedAt time.Time
}

func scanStepResult(row scanner) (*workflow.StepResult, error) {
	var m resultModel
	err := row.Scan(&m.ID, &m.SessionID, &m.StepNumber, &m.Success,
		&m.Data, &m.Warnings, &m.ExecutedAt)
	if err != nil {
		return nil, err
	}
	return fromResultModel(&m)
}

func fromResultModel(m *resultModel) (*workflow.StepResult, error) {
	parsedID, err := id.ParseResultID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("vestro/postgres: parse result id %q: %w", m.ID, err)
	}
	sessionID, err := id.ParseSessionID(m.SessionID)
	if err != nil {
		return nil, fmt.Errorf("vestro/postgres: parse session id %q: %w", m.SessionID, err)
	}

	var data map[string]any
	if len(m.Data) > 0 {
		if err := json.Unmarshal(m.Data, &data); err != nil {
			return nil, fmt.Errorf("vestro/postgres: decode result data: %w", err)
		}
	}

	return &workflow.StepResult{
		ID:         parsedID,
		SessionID:  sessionID,
		StepNumber: m.StepNumber,
		Success:    m.Success,
		Data:       data,
		Warnings:   m.Warnings,
		ExecutedAt: m.ExecutedAt,
	}, nil
}

// resultData serializes the open payload mapping for the JSONB column.
func resultData(r *workflow.StepResult) ([]byte, error) {
	if r.Data == nil {
		return []byte(`{}`), nil
	}
	data, err := json.Marshal(r.Data)
	if err != nil {
		return nil, fmt.Errorf("vestro/postgres: encode result data: %w", err)
	}
	return data, nil
}

// resultWarnings never hands a nil slice to the NOT NULL text[] column.
func resultWarnings(r *workflow.StepResult) []string {
	if r.Warnings == nil {
		return []string{}
	}
	return r.Warnings
}
