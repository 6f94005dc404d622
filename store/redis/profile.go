package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/anthony-okoye/vestro"
	"github.com/anthony-okoye/vestro/profile"
)

// SaveProfile upserts the user's investment profile; one hash per user.
func (s *Store) SaveProfile(ctx context.Context, p *profile.Profile) error {
	m := map[string]interface{}{
		"user_id":        p.UserID,
		"risk_tolerance": string(p.RiskTolerance),
		"horizon_years":  strconv.Itoa(p.HorizonYears),
		"capital":        strconv.FormatFloat(p.Capital, 'f', -1, 64),
		"goal":           string(p.Goal),
		"created_at":     p.CreatedAt.Format(time.RFC3339Nano),
	}
	if err := s.client.HSet(ctx, profileKey(p.UserID), m).Err(); err != nil {
		return fmt.Errorf("vestro/redis: save profile: %w", err)
	}
	return nil
}

// GetProfile retrieves the profile for a user id.
func (s *Store) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	vals, err := s.client.HGetAll(ctx, profileKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("vestro/redis: get profile: %w", err)
	}
	if len(vals) == 0 {
		return nil, vestro.ErrProfileNotFound
	}

	horizon, err := strconv.Atoi(vals["horizon_years"])
	if err != nil {
		return nil, fmt.Errorf("vestro/redis: parse horizon years: %w", err)
	}
	capital, err := strconv.ParseFloat(vals["capital"], 64)
	if err != nil {
		return nil, fmt.Errorf("vestro/redis: parse capital: %w", err)
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, vals["created_at"])

	return &profile.Profile{
		UserID:        vals["user_id"],
		RiskTolerance: profile.RiskTolerance(vals["risk_tolerance"]),
		HorizonYears:  horizon,
		Capital:       capital,
		Goal:          profile.Goal(vals["goal"]),
		CreatedAt:     createdAt,
	}, nil
}
