package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/anthony-okoye/vestro"
	"github.com/anthony-okoye/vestro/id"
	"github.com/anthony-okoye/vestro/workflow"
)

// CreateSession persists a fresh session awaiting step 1.
func (s *Store) CreateSession(ctx context.Context, userID string) (*workflow.Session, error) {
	sess := workflow.NewSession(userID)

	_, err := s.db.Collection(colSessions).InsertOne(ctx, toSessionModel(sess))
	if err != nil {
		return nil, fmt.Errorf("vestro/mongo: create session: %w", err)
	}
	return sess, nil
}

// GetSession retrieves a session by id.
func (s *Store) GetSession(ctx context.Context, sessionID id.SessionID) (*workflow.Session, error) {
	var m sessionModel
	err := s.db.Collection(colSessions).
		FindOne(ctx, bson.M{"_id": sessionID.String()}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, vestro.ErrSessionNotFound
		}
		return nil, fmt.Errorf("vestro/mongo: get session: %w", err)
	}
	return fromSessionModel(&m)
}

// UpdateSession replaces the session document, guarded by the version
// check in the filter: a concurrent writer leaves this replace with
// nothing to match. On success the caller's Version and UpdatedAt
// advance to the stored values.
func (s *Store) UpdateSession(ctx context.Context, sess *workflow.Session) error {
	now := time.Now().UTC()

	m := toSessionModel(sess)
	m.Version = sess.Version + 1
	m.UpdatedAt = now

	col := s.db.Collection(colSessions)
	res, err := col.ReplaceOne(ctx,
		bson.M{"_id": sess.ID.String(), "version": sess.Version},
		m,
	)
	if err != nil {
		return fmt.Errorf("vestro/mongo: update session: %w", err)
	}
	if res.MatchedCount == 0 {
		// No match means the id is gone or the version moved; read back
		// to tell the two apart.
		var cur sessionModel
		err := col.FindOne(ctx, bson.M{"_id": sess.ID.String()}).Decode(&cur)
		if err != nil {
			if isNoDocuments(err) {
				return vestro.ErrSessionNotFound
			}
			return fmt.Errorf("vestro/mongo: update session: %w", err)
		}
		return fmt.Errorf("%w: session %s is at version %d, update carries %d",
			vestro.ErrSessionConflict, sess.ID, cur.Version, sess.Version)
	}

	sess.Version++
	sess.UpdatedAt = now
	return nil
}

// SaveStepResult upserts the result against the unique
// (session_id, step_number) index.
func (s *Store) SaveStepResult(ctx context.Context, r *workflow.StepResult) error {
	filter := bson.M{
		"session_id":  r.SessionID.String(),
		"step_number": r.StepNumber,
	}
	update := bson.M{
		"$set": bson.M{
			"success":     r.Success,
			"data":        r.Data,
			"warnings":    r.Warnings,
			"executed_at": r.ExecutedAt,
		},
		"$setOnInsert": bson.M{
			"_id":         r.ID.String(),
			"session_id":  r.SessionID.String(),
			"step_number": r.StepNumber,
		},
	}

	col := s.db.Collection(colStepResults)
	opts := options.UpdateOne().SetUpsert(true)
	_, err := col.UpdateOne(ctx, filter, update, opts)
	if mongod.IsDuplicateKeyError(err) {
		// Two upserts raced on the unique index; the loser retries as a
		// plain update against the now-existing document.
		_, err = col.UpdateOne(ctx, filter, update)
	}
	if err != nil {
		return fmt.Errorf("vestro/mongo: save step result: %w", err)
	}
	return nil
}

// GetStepResult retrieves one step's result for a session.
func (s *Store) GetStepResult(ctx context.Context, sessionID id.SessionID, stepNumber int) (*workflow.StepResult, error) {
	var m resultModel
	err := s.db.Collection(colStepResults).
		FindOne(ctx, bson.M{"session_id": sessionID.String(), "step_number": stepNumber}).
		Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, vestro.ErrResultNotFound
		}
		return nil, fmt.Errorf("vestro/mongo: get step result: %w", err)
	}
	return fromResultModel(&m)
}

// GetAllStepResults returns every result for a session keyed by step
// number. A session with no results yields an empty map.
func (s *Store) GetAllStepResults(ctx context.Context, sessionID id.SessionID) (map[int]*workflow.StepResult, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "step_number", Value: 1}})
	cursor, err := s.db.Collection(colStepResults).
		Find(ctx, bson.M{"session_id": sessionID.String()}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("vestro/mongo: list step results: %w", err)
	}
	defer cursor.Close(ctx)

	var models []resultModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("vestro/mongo: list step results decode: %w", err)
	}

	results := make(map[int]*workflow.StepResult, len(models))
	for i := range models {
		r, convErr := fromResultModel(&models[i])
		if convErr != nil {
			return nil, fmt.Errorf("vestro/mongo: list step results convert: %w", convErr)
		}
		results[r.StepNumber] = r
	}
	return results, nil
}

// ClearSession deletes all step results for a session, leaving the
// session document itself in place.
func (s *Store) ClearSession(ctx context.Context, sessionID id.SessionID) error {
	_, err := s.db.Collection(colStepResults).
		DeleteMany(ctx, bson.M{"session_id": sessionID.String()})
	if err != nil {
		return fmt.Errorf("vestro/mongo: clear session: %w", err)
	}
	return nil
}
