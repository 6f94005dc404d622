package store

import (
	"context"

	"github.com/anthony-okoye/vestro/profile"
	"github.com/anthony-okoye/vestro/workflow"
)

// Store is the aggregate persistence interface.
// Each subsystem store is a composable interface; a single backend
// (postgres, redis, mongo, memory) implements all of them.
type Store interface {
	workflow.Store
	profile.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
