package vestro

import "github.com/anthony-okoye/vestro/id"

// SessionID identifies a workflow session.
type SessionID = id.SessionID

// ResultID identifies a persisted step result.
type ResultID = id.ResultID
