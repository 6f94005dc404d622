package mongo

import (
	"fmt"
	"time"

	"github.com/anthony-okoye/vestro"
	"github.com/anthony-okoye/vestro/id"
	"github.com/anthony-okoye/vestro/profile"
	"github.com/anthony-okoye/vestro/workflow"
)

// ── Session model ─────────────────────────────────────────────────

type sessionModel struct {
	ID             string    `bson:"_id"`
	UserID         string    `bson:"user_id"`
	CurrentStep    int       `bson:"current_step"`
	CompletedSteps []int     `bson:"completed_steps"`
	Version        int64     `bson:"version"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func toSessionModel(sess *workflow.Session) *sessionModel {
	steps := sess.CompletedSteps
	if steps == nil {
		steps = []int{}
	}
	return &sessionModel{
		ID:             sess.ID.String(),
		UserID:         sess.UserID,
		CurrentStep:    sess.CurrentStep,
		CompletedSteps: steps,
		Version:        sess.Version,
		CreatedAt:      sess.CreatedAt,
		UpdatedAt:      sess.UpdatedAt,
	}
}

func fromSessionModel(m *sessionModel) (*workflow.Session, error) {
	parsedID, err := id.ParseSessionID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("vestro/mongo: parse session id %q: %w", m.ID, err)
	}

	steps := m.CompletedSteps
	if steps == nil {
		steps = []int{}
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

// ── Step result model ─────────────────────────────────────────────

type resultModel struct {
	ID         string         `bson:"_id"`
	SessionID  string         `bson:"session_id"`
	StepNumber int            `bson:"step_number"`
	Success    bool           `bson:"success"`
	Data       map[string]any `bson:"data,omitempty"`
	Warnings   []string       `bson:"warnings,omitempty"`
	ExecutedAt time.Time      `bson:"executed_at"`
}

func fromResultModel(m *resultModel) (*workflow.StepResult, error) {
	parsedID, err := id.ParseResultID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("vestro/mongo: parse result id %q: %w", m.ID, err)
	}
	sessionID, err := id.ParseSessionID(m.SessionID)
	if err != nil {
		return nil, fmt.Errorf("vestro/mongo: parse session id %q: %w", m.SessionID, err)
	}

	return &workflow.StepResult{
		ID:         parsedID,
		SessionID:  sessionID,
		StepNumber: m.StepNumber,
		Success:    m.Success,
		Data:       m.Data,
		Warnings:   m.Warnings,
		ExecutedAt: m.ExecutedAt,
	}, nil
}

// ── Profile model ─────────────────────────────────────────────────

type profileModel struct {
	UserID        string    `bson:"_id"`
	RiskTolerance string    `bson:"risk_tolerance"`
	HorizonYears  int       `bson:"horizon_years"`
	Capital       float64   `bson:"capital"`
	Goal          string    `bson:"goal"`
	CreatedAt     time.Time `bson:"created_at"`
}

func toProfileModel(p *profile.Profile) *profileModel {
	return &profileModel{
		UserID:        p.UserID,
		RiskTolerance: string(p.RiskTolerance),
		HorizonYears:  p.HorizonYears,
		Capital:       p.Capital,
		Goal:          string(p.Goal),
		CreatedAt:     p.CreatedAt,
	}
}

func fromProfileModel(m *profileModel) *profile.Profile {
	return &profile.Profile{
		UserID:        m.UserID,
		RiskTolerance: profile.RiskTolerance(m.RiskTolerance),
		HorizonYears:  m.HorizonYears,
		Capital:       m.Capital,
		Goal:          profile.Goal(m.Goal),
		CreatedAt:     m.CreatedAt,
	}
}
