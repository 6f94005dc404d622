package postgres

// migration is one named, ordered schema change. Statements run
// sequentially; each migration is recorded after its last statement
// succeeds.
type migration struct {
	name       string
	statements []string
}

var migrations = []migration{
	{
		name: "001_create_sessions",
		statements: []string{`
			CREATE TABLE IF NOT EXISTS vestro_sessions (
				id              TEXT PRIMARY KEY,
				user_id         TEXT NOT NULL,
				current_step    INTEGER NOT NULL DEFAULT 1,
				completed_steps BIGINT[] NOT NULL DEFAULT '{}',
				version         BIGINT NOT NULL DEFAULT 1,
				created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, `
			CREATE INDEX IF NOT EXISTS idx_vestro_sessions_user
				ON vestro_sessions (user_id)`,
		},
	},
	{
		name: "002_create_step_results",
		statements: []string{`
			CREATE TABLE IF NOT EXISTS vestro_step_results (
				id          TEXT PRIMARY KEY,
				session_id  TEXT NOT NULL REFERENCES vestro_sessions(id) ON DELETE CASCADE,
				step_number INTEGER NOT NULL,
				success     BOOLEAN NOT NULL DEFAULT TRUE,
				data        JSONB NOT NULL DEFAULT '{}',
				warnings    TEXT[] NOT NULL DEFAULT '{}',
				executed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (session_id, step_number)
			)`, `
			CREATE INDEX IF NOT EXISTS idx_vestro_step_results_session
				ON vestro_step_results (session_id, step_number)`,
		},
	},
	{
		name: "003_create_profiles",
		statements: []string{`
			CREATE TABLE IF NOT EXISTS vestro_profiles (
				user_id        TEXT PRIMARY KEY,
				risk_tolerance TEXT NOT NULL,
				horizon_years  INTEGER NOT NULL,
				capital        DOUBLE PRECISION NOT NULL,
				goal           TEXT NOT NULL,
				created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		},
	},
}
