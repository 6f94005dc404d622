// Package workflow implements the session state machine that drives the
// research pipeline: one durable session per run, advanced strictly one
// step at a time.
//
// A session is always waiting on exactly one step, its CurrentStep. Steps
// execute in pipeline order; a step other than the current one is rejected,
// whether it already completed or has not been reached yet. Each successful
// execution persists a StepResult and moves CurrentStep forward by one.
// Optional steps may instead be skipped, which advances the session without
// recording a result.
//
// # Running a Pipeline
//
//	st := memory.New()
//	reg := step.NewRegistry()
//	research.MustRegister(reg, marketdata.NewStatic())
//
//	orc, err := workflow.NewOrchestrator(st, st, reg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sess, _ := orc.StartWorkflow(ctx, "user-1")
//	outcome, err := orc.ExecuteStep(ctx, sess.ID, 1, step.Inputs{
//	    "riskTolerance":           "medium",
//	    "investmentHorizonYears":  10,
//	    "capitalAvailable":        50000,
//	    "longTermGoals":           "steady growth",
//	})
//
// A nil error with outcome.Success == false means the step rejected its
// inputs or failed transiently; the session has not moved and the call can
// be retried with corrected inputs. A non-nil error means the request
// itself was bad (wrong step, unknown session) or infrastructure failed.
//
// # Concurrency
//
// Two goroutines executing the same step of the same session race on the
// final session write. The store's version check lets exactly one advance
// win; the loser gets ErrSessionConflict and should re-read the session.
package workflow
