package postgres

import (
	"context"
	"fmt"

	"github.com/anthony-okoye/vestro"
	"github.com/anthony-okoye/vestro/profile"
)

// SaveProfile upserts the user's investment profile; one row per user.
func (s *Store) SaveProfile(ctx context.Context, p *profile.Profile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO vestro_profiles (user_id, risk_tolerance, horizon_years, capital, goal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			risk_tolerance = EXCLUDED.risk_tolerance,
			horizon_years  = EXCLUDED.horizon_years,
			capital        = EXCLUDED.capital,
			goal           = EXCLUDED.goal,
			created_at     = EXCLUDED.created_at`,
		p.UserID, string(p.RiskTolerance), p.HorizonYears, p.Capital,
		string(p.Goal), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("vestro/postgres: save profile: %w", err)
	}
	return nil
}

// GetProfile retrieves the profile for a user id.
func (s *Store) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	var p profile.Profile
	var tolerance, goal string

	err := s.pool.QueryRow(ctx, `
		SELECT user_id, risk_tolerance, horizon_years, capital, goal, created_at
		FROM vestro_profiles
		WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &tolerance, &p.HorizonYears, &p.Capital, &goal, &p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, vestro.ErrProfileNotFound
		}
		return nil, fmt.Errorf("vestro/postgres: get profile: %w", err)
	}

	p.RiskTolerance = profile.RiskTolerance(tolerance)
	p.Goal = profile.Goal(goal)
	return &p, nil
}
