// Package profile defines the user-scoped investment profile entity and
// its store contract. A profile is keyed by user id, not by session: it is
// written by the profile-definition step and read by any later step that
// needs risk context, across every session the user starts.
package profile

import (
	"context"
	"time"
)

// RiskTolerance classifies how much volatility a user accepts.
type RiskTolerance string

const (
	// RiskLow favors capital preservation over returns.
	RiskLow RiskTolerance = "low"
	// RiskMedium balances growth and drawdown exposure.
	RiskMedium RiskTolerance = "medium"
	// RiskHigh accepts large drawdowns chasing growth.
	RiskHigh RiskTolerance = "high"
)

// Valid reports whether the value is a known risk tolerance.
func (r RiskTolerance) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

// RiskTolerances lists the accepted risk tolerance values, for validation.
func RiskTolerances() []string {
	return []string{string(RiskLow), string(RiskMedium), string(RiskHigh)}
}

// Goal is the user's stated long-term objective.
type Goal string

const (
	// GoalSteadyGrowth compounds value over a long horizon.
	GoalSteadyGrowth Goal = "steady growth"
	// GoalDividendIncome prioritizes recurring payout yield.
	GoalDividendIncome Goal = "dividend income"
	// GoalCapitalPreservation protects principal above all.
	GoalCapitalPreservation Goal = "capital preservation"
)

// Valid reports whether the value is a known goal.
func (g Goal) Valid() bool {
	switch g {
	case GoalSteadyGrowth, GoalDividendIncome, GoalCapitalPreservation:
		return true
	default:
		return false
	}
}

// Goals lists the accepted goal values, for validation.
func Goals() []string {
	return []string{string(GoalSteadyGrowth), string(GoalDividendIncome), string(GoalCapitalPreservation)}
}

// Profile is one user's investment profile. One record per user id,
// overwritten whenever the profile-definition step runs again.
type Profile struct {
	UserID        string        `json:"user_id"`
	RiskTolerance RiskTolerance `json:"risk_tolerance"`
	HorizonYears  int           `json:"horizon_years"`
	Capital       float64       `json:"capital"`
	Goal          Goal          `json:"goal"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Store is the persistence contract for investment profiles.
// Implementations return vestro.ErrProfileNotFound when no profile
// exists for the given user id.
type Store interface {
	// SaveProfile upserts the profile keyed by its UserID.
	SaveProfile(ctx context.Context, p *Profile) error

	// GetProfile retrieves the profile for a user id.
	GetProfile(ctx context.Context, userID string) (*Profile, error)
}
