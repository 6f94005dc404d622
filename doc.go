// Package vestro provides a durable, step-ordered research workflow engine
// for Go. It guides a user through a fixed pipeline of investment research
// steps, persisting progress and per-step results so a session can be
// paused, resumed, inspected, and reset.
//
// Vestro is designed as a library, not a service. Import it, configure a
// store, register one processor per step, and drive sessions through the
// workflow orchestrator.
//
// # Quick Start
//
//	st := memory.New()
//	reg := step.NewRegistry()
//	research.MustRegister(reg, marketdata.NewStatic())
//
//	orc, err := workflow.NewOrchestrator(st, st, reg,
//	    workflow.WithLogger(logger),
//	)
//
// # Architecture
//
// Vestro follows a composable store pattern where each subsystem (workflow,
// profile) defines its own store interface. A single backend implements all
// of them; memory, postgres, redis, and mongo backends ship in store/.
//
// Session and step-result IDs use TypeID: type-prefixed, K-sortable,
// UUIDv7-based identifiers.
package vestro
