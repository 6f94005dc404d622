package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/anthony-okoye/vestro"
	"github.com/anthony-okoye/vestro/profile"
)

// SaveProfile upserts the user's investment profile; one document per
// user, keyed by user id.
func (s *Store) SaveProfile(ctx context.Context, p *profile.Profile) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.db.Collection(colProfiles).
		ReplaceOne(ctx, bson.M{"_id": p.UserID}, toProfileModel(p), opts)
	if err != nil {
		return fmt.Errorf("vestro/mongo: save profile: %w", err)
	}
	return nil
}

// GetProfile retrieves the profile for a user id.
func (s *Store) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	var m profileModel
	err := s.db.Collection(colProfiles).
		FindOne(ctx, bson.M{"_id": userID}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, vestro.ErrProfileNotFound
		}
		return nil, fmt.Errorf("vestro/mongo: get profile: %w", err)
	}
	return fromProfileModel(&m), nil
}
