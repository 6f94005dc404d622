// Package memory provides a fully in-memory store implementation.
//
// Safe for concurrent access. Intended for unit testing and development;
// nothing survives a process restart.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/anthony-okoye/vestro"
	"github.com/anthony-okoye/vestro/id"
	"github.com/anthony-okoye/vestro/profile"
	"github.com/anthony-okoye/vestro/workflow"
)

// Ensure Store implements store.Store at compile time, one subsystem
// interface at a time.
var (
	_ workflow.Store = (*Store)(nil)
	_ profile.Store  = (*Store)(nil)
)

// Store is a fully in-memory implementation of store.Store.
// Safe for concurrent access. Intended for unit testing and development.
type Store struct {
	mu sync.RWMutex

	sessions map[string]*workflow.Session
	results  map[string]*workflow.StepResult // key: "sessionID:stepNumber"
	profiles map[string]*profile.Profile     // key: userID
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		sessions: make(map[string]*workflow.Session),
		results:  make(map[string]*workflow.StepResult),
		profiles: make(map[string]*profile.Profile),
	}
}

// ──────────────────────────────────────────────────
// Lifecycle — Migrate / Ping / Close
// ──────────────────────────────────────────────────

// Migrate is a no-op for the memory store.
func (m *Store) Migrate(_ context.Context) error { return nil }

// Ping always succeeds for the memory store.
func (m *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (m *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Workflow Session Store
// ──────────────────────────────────────────────────

// CreateSession persists a fresh session for the user at step 1.
func (m *Store) CreateSession(_ context.Context, userID string) (*workflow.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := workflow.NewSession(userID)
	m.sessions[s.ID.String()] = s.Clone()
	return s, nil
}

// GetSession retrieves a session by ID.
func (m *Store) GetSession(_ context.Context, sessionID id.SessionID) (*workflow.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID.String()]
	if !ok {
		return nil, vestro.ErrSessionNotFound
	}
	return s.Clone(), nil
}

// UpdateSession replaces the stored session when the caller's version
// matches the stored one. The caller's copy is bumped to the new version
// on success.
func (m *Store) UpdateSession(_ context.Context, s *workflow.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := s.ID.String()
	cur, ok := m.sessions[key]
	if !ok {
		return vestro.ErrSessionNotFound
	}
	if cur.Version != s.Version {
		return fmt.Errorf("%w: session %s is at version %d, update carries %d",
			vestro.ErrSessionConflict, s.ID, cur.Version, s.Version)
	}

	s.Version++
	s.UpdatedAt = time.Now().UTC()
	m.sessions[key] = s.Clone()
	return nil
}

// ──────────────────────────────────────────────────
// Step Result Store
// ──────────────────────────────────────────────────

// resultKey builds a composite map key for a step result.
func resultKey(sessionID id.SessionID, stepNumber int) string {
	return sessionID.String() + ":" + strconv.Itoa(stepNumber)
}

// SaveStepResult upserts the result keyed by (SessionID, StepNumber).
func (m *Store) SaveStepResult(_ context.Context, r *workflow.StepResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results[resultKey(r.SessionID, r.StepNumber)] = r.Clone()
	return nil
}

// GetStepResult retrieves one step's result for a session.
func (m *Store) GetStepResult(_ context.Context, sessionID id.SessionID, stepNumber int) (*workflow.StepResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.results[resultKey(sessionID, stepNumber)]
	if !ok {
		return nil, vestro.ErrResultNotFound
	}
	return r.Clone(), nil
}

// GetAllStepResults returns every result for a session keyed by step number.
func (m *Store) GetAllStepResults(_ context.Context, sessionID id.SessionID) (map[int]*workflow.StepResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := sessionID.String() + ":"
	result := make(map[int]*workflow.StepResult)
	for k, r := range m.results {
		if strings.HasPrefix(k, prefix) {
			result[r.StepNumber] = r.Clone()
		}
	}
	return result, nil
}

// ClearSession deletes all step results for a session. The session record
// itself is untouched.
func (m *Store) ClearSession(_ context.Context, sessionID id.SessionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := sessionID.String() + ":"
	for k := range m.results {
		if strings.HasPrefix(k, prefix) {
			delete(m.results, k)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Profile Store
// ──────────────────────────────────────────────────

// SaveProfile upserts the profile keyed by user ID.
func (m *Store) SaveProfile(_ context.Context, p *profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *p
	m.profiles[p.UserID] = &cp
	return nil
}

// GetProfile retrieves the profile for a user.
func (m *Store) GetProfile(_ context.Context, userID string) (*profile.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, vestro.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}
