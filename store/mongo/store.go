package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/anthony-okoye/vestro/profile"
	"github.com/anthony-okoye/vestro/store"
	"github.com/anthony-okoye/vestro/workflow"
)

// Collection name constants.
const (
	colSessions    = "vestro_sessions"
	colStepResults = "vestro_step_results"
	colProfiles    = "vestro_profiles"
)

// Ensure Store implements all subsystem interfaces at compile time.
var (
	_ workflow.Store = (*Store)(nil)
	_ profile.Store  = (*Store)(nil)
	_ store.Store    = (*Store)(nil)
)

// Store is a MongoDB implementation of store.Store.
type Store struct {
	db     *mongod.Database
	logger *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a new MongoDB store on the given database handle. The
// caller owns the client lifecycle; the Store will not disconnect it on
// Close().
func New(db *mongod.Database, opts ...Option) *Store {
	s := &Store{
		db:     db,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Database returns the underlying database handle for advanced usage.
func (s *Store) Database() *mongod.Database {
	return s.db
}

// Migrate creates indexes for all vestro collections.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if len(models) == 0 {
			continue
		}
		_, err := s.db.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("vestro/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// Close is a no-op because the caller owns the client lifecycle.
func (s *Store) Close() error {
	return nil
}

// ── helpers ──────────────────────────────────────────────────────

// isNoDocuments returns true when err indicates no MongoDB documents found.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all vestro collections.
func migrationIndexes() map[string][]mongod.IndexModel {
	return map[string][]mongod.IndexModel{
		colSessions: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		colStepResults: {
			// Unique compound index on (session_id, step_number) backs
			// the per-step upsert.
			{
				Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "step_number", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colProfiles: {},
	}
}
