package workflow_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/anthony-okoye/vestro"
	"github.com/anthony-okoye/vestro/id"
	"github.com/anthony-okoye/vestro/profile"
	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/store/memory"
	"github.com/anthony-okoye/vestro/validate"
	"github.com/anthony-okoye/vestro/workflow"
)

// ──────────────────────────────────────────────────
// Construction
// ──────────────────────────────────────────────────

func TestNewOrchestratorRejectsNilStores(t *testing.T) {
	t.Parallel()
	st := memory.New()
	reg, _ := newTestRegistry(t, 3)

	if _, err := workflow.NewOrchestrator(nil, st, reg); !errors.Is(err, vestro.ErrNoStore) {
		t.Errorf("nil session store err = %v, want ErrNoStore", err)
	}
	if _, err := workflow.NewOrchestrator(st, nil, reg); !errors.Is(err, vestro.ErrNoStore) {
		t.Errorf("nil profile store err = %v, want ErrNoStore", err)
	}
}

func TestNewOrchestratorRejectsGappyRegistry(t *testing.T) {
	t.Parallel()
	st := memory.New()

	reg := step.NewRegistry()
	for _, n := range []int{1, 3} {
		p := &fakeProcessor{def: step.Definition{Number: n, Label: "x"}}
		if err := reg.Register(p); err != nil {
			t.Fatalf("Register returned error: %v", err)
		}
	}

	_, err := workflow.NewOrchestrator(st, st, reg)
	if !errors.Is(err, vestro.ErrUnregisteredStep) {
		t.Fatalf("err = %v, want ErrUnregisteredStep", err)
	}
}

// ──────────────────────────────────────────────────
// StartWorkflow
// ──────────────────────────────────────────────────

func TestStartWorkflow(t *testing.T) {
	t.Parallel()
	orc, _, _ := newTestOrchestrator(t, 3)

	sess, err := orc.StartWorkflow(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("StartWorkflow returned error: %v", err)
	}
	if sess.CurrentStep != 1 {
		t.Errorf("CurrentStep = %d, want 1", sess.CurrentStep)
	}
	if len(sess.CompletedSteps) != 0 {
		t.Errorf("CompletedSteps = %v, want empty", sess.CompletedSteps)
	}
}

func TestStartWorkflowRejectsEmptyUser(t *testing.T) {
	t.Parallel()
	orc, _, _ := newTestOrchestrator(t, 3)

	_, err := orc.StartWorkflow(context.Background(), "")
	if !errors.Is(err, vestro.ErrInvalidUser) {
		t.Fatalf("err = %v, want ErrInvalidUser", err)
	}
}

// ──────────────────────────────────────────────────
// ExecuteStep — gate checks
// ──────────────────────────────────────────────────

func TestExecuteStepUnknownSession(t *testing.T) {
	t.Parallel()
	orc, _, _ := newTestOrchestrator(t, 3)

	_, err := orc.ExecuteStep(context.Background(), id.NewSessionID(), 1, nil)
	if !errors.Is(err, vestro.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error %q does not mention not found", err)
	}
}

func TestExecuteStepOutOfOrder(t *testing.T) {
	t.Parallel()
	orc, _, procs := newTestOrchestrator(t, 3)
	ctx := context.Background()

	sess, err := orc.StartWorkflow(ctx, "user-1")
	if err != nil {
		t.Fatalf("StartWorkflow returned error: %v", err)
	}

	_, err = orc.ExecuteStep(ctx, sess.ID, 2, nil)
	if !errors.Is(err, vestro.ErrInvalidStep) {
		t.Fatalf("future step err = %v, want ErrInvalidStep", err)
	}
	if procs[2].callCount() != 0 {
		t.Error("future step processor was executed")
	}

	status, err := orc.GetWorkflowStatus(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetWorkflowStatus returned error: %v", err)
	}
	if status.CurrentStep != 1 {
		t.Errorf("CurrentStep = %d after rejected call, want 1", status.CurrentStep)
	}
}

func TestExecuteStepRejectsCompletedStep(t *testing.T) {
	t.Parallel()
	orc, _, _ := newTestOrchestrator(t, 3)
	ctx := context.Background()

	sess, _ := orc.StartWorkflow(ctx, "user-1")
	if _, err := orc.ExecuteStep(ctx, sess.ID, 1, nil); err != nil {
		t.Fatalf("ExecuteStep(1) returned error: %v", err)
	}

	// Step 1 is done; running it again must be refused outright.
	_, err := orc.ExecuteStep(ctx, sess.ID, 1, nil)
	if !errors.Is(err, vestro.ErrInvalidStep) {
		t.Fatalf("err = %v, want ErrInvalidStep", err)
	}

	status, _ := orc.GetWorkflowStatus(ctx, sess.ID)
	if status.CurrentStep != 2 {
		t.Errorf("CurrentStep = %d, want 2", status.CurrentStep)
	}
}

// ──────────────────────────────────────────────────
// ExecuteStep — outcomes and persistence
// ──────────────────────────────────────────────────

func TestExecuteStepAdvancesOnSuccess(t *testing.T) {
	t.Parallel()
	orc, st, _ := newTestOrchestrator(t, 3)
	ctx := context.Background()

	sess, _ := orc.StartWorkflow(ctx, "user-1")

	out, err := orc.ExecuteStep(ctx, sess.ID, 1, step.Inputs{"k": "v"})
	if err != nil {
		t.Fatalf("ExecuteStep returned error: %v", err)
	}
	if !out.Success {
		t.Fatalf("outcome not successful: %v", out.Errors)
	}

	status, _ := orc.GetWorkflowStatus(ctx, sess.ID)
	if status.CurrentStep != 2 {
		t.Errorf("CurrentStep = %d, want 2", status.CurrentStep)
	}
	if status.CompletedCount != 1 {
		t.Errorf("CompletedCount = %d, want 1", status.CompletedCount)
	}

	r, err := st.GetStepResult(ctx, sess.ID, 1)
	if err != nil {
		t.Fatalf("GetStepResult returned error: %v", err)
	}
	if !r.Success {
		t.Error("persisted result not marked successful")
	}
	if r.Data["step"] != 1 {
		t.Errorf("persisted Data = %v, want step 1 marker", r.Data)
	}
}

func TestExecuteStepValidationFailure(t *testing.T) {
	t.Parallel()
	orc, st, procs := newTestOrchestrator(t, 3)
	ctx := context.Background()

	procs[1].validate = func(in step.Inputs) validate.Result {
		return validate.Fail("riskTolerance is required", "capitalAvailable is required")
	}

	sess, _ := orc.StartWorkflow(ctx, "user-1")

	out, err := orc.ExecuteStep(ctx, sess.ID, 1, nil)
	if err != nil {
		t.Fatalf("validation failure must not be an error, got: %v", err)
	}
	if out.Success {
		t.Fatal("outcome successful despite invalid inputs")
	}
	if len(out.Errors) != 2 {
		t.Errorf("Errors = %v, want 2 entries", out.Errors)
	}
	if procs[1].callCount() != 0 {
		t.Error("processor executed despite failed validation")
	}

	// Nothing moved, nothing persisted.
	status, _ := orc.GetWorkflowStatus(ctx, sess.ID)
	if status.CurrentStep != 1 {
		t.Errorf("CurrentStep = %d, want 1", status.CurrentStep)
	}
	all, _ := st.GetAllStepResults(ctx, sess.ID)
	if len(all) != 0 {
		t.Errorf("results persisted after validation failure: %v", all)
	}
}

func TestExecuteStepProcessorFailureOutcome(t *testing.T) {
	t.Parallel()
	orc, st, procs := newTestOrchestrator(t, 3)
	ctx := context.Background()

	procs[1].execute = func(context.Context, step.Inputs, *step.Context) (*step.Outcome, error) {
		return step.Failure("ticker not in screened candidates"), nil
	}

	sess, _ := orc.StartWorkflow(ctx, "user-1")

	out, err := orc.ExecuteStep(ctx, sess.ID, 1, nil)
	if err != nil {
		t.Fatalf("processor failure must not be an error, got: %v", err)
	}
	if out.Success {
		t.Fatal("outcome successful despite processor failure")
	}

	status, _ := orc.GetWorkflowStatus(ctx, sess.ID)
	if status.CurrentStep != 1 {
		t.Errorf("CurrentStep = %d, want 1", status.CurrentStep)
	}
	all, _ := st.GetAllStepResults(ctx, sess.ID)
	if len(all) != 0 {
		t.Errorf("results persisted after failed outcome: %v", all)
	}

	// Corrected retry of the same step succeeds and advances.
	procs[1].execute = nil
	out, err = orc.ExecuteStep(ctx, sess.ID, 1, nil)
	if err != nil || !out.Success {
		t.Fatalf("retry: outcome = %+v, err = %v", out, err)
	}
	status, _ = orc.GetWorkflowStatus(ctx, sess.ID)
	if status.CurrentStep != 2 {
		t.Errorf("CurrentStep = %d after retry, want 2", status.CurrentStep)
	}
}

func TestExecuteStepProcessorErrorPropagates(t *testing.T) {
	t.Parallel()
	orc, _, procs := newTestOrchestrator(t, 3)
	ctx := context.Background()

	boom := errors.New("nil market data provider")
	procs[1].execute = func(context.Context, step.Inputs, *step.Context) (*step.Outcome, error) {
		return nil, boom
	}

	sess, _ := orc.StartWorkflow(ctx, "user-1")

	_, err := orc.ExecuteStep(ctx, sess.ID, 1, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped processor error", err)
	}

	status, _ := orc.GetWorkflowStatus(ctx, sess.ID)
	if status.CurrentStep != 1 {
		t.Errorf("CurrentStep = %d after processor error, want 1", status.CurrentStep)
	}
}

func TestExecuteStepRecoversPanic(t *testing.T) {
	t.Parallel()
	orc, _, procs := newTestOrchestrator(t, 3)
	ctx := context.Background()

	procs[1].execute = func(context.Context, step.Inputs, *step.Context) (*step.Outcome, error) {
		panic("index out of range")
	}

	sess, _ := orc.StartWorkflow(ctx, "user-1")

	_, err := orc.ExecuteStep(ctx, sess.ID, 1, nil)
	if err == nil {
		t.Fatal("expected error from panicking processor")
	}
	if !strings.Contains(err.Error(), "panic in step 1") {
		t.Errorf("error %q does not mention the panic", err)
	}

	status, _ := orc.GetWorkflowStatus(ctx, sess.ID)
	if status.CurrentStep != 1 {
		t.Errorf("CurrentStep = %d after panic, want 1", status.CurrentStep)
	}
}

func TestExecuteStepTimeout(t *testing.T) {
	t.Parallel()

	st := memory.New()
	reg, procs := newTestRegistry(t, 3)
	orc, err := workflow.NewOrchestrator(st, st, reg,
		workflow.WithLogger(testLogger()),
		workflow.WithStepTimeout(20*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewOrchestrator returned error: %v", err)
	}
	ctx := context.Background()

	procs[1].execute = func(ctx context.Context, _ step.Inputs, _ *step.Context) (*step.Outcome, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return step.Success(nil), nil
		}
	}

	sess, _ := orc.StartWorkflow(ctx, "user-1")

	out, err := orc.ExecuteStep(ctx, sess.ID, 1, nil)
	if err != nil {
		t.Fatalf("timeout must surface as a failed outcome, got error: %v", err)
	}
	if out.Success {
		t.Fatal("outcome successful despite timeout")
	}
	if len(out.Errors) == 0 || !strings.Contains(out.Errors[0], "timed out") {
		t.Errorf("Errors = %v, want timeout message", out.Errors)
	}

	status, _ := orc.GetWorkflowStatus(ctx, sess.ID)
	if status.CurrentStep != 1 {
		t.Errorf("CurrentStep = %d after timeout, want 1", status.CurrentStep)
	}
}

func TestExecuteStepPersistsProfileFromOutcome(t *testing.T) {
	t.Parallel()
	orc, st, procs := newTestOrchestrator(t, 3)
	ctx := context.Background()

	procs[1].execute = func(_ context.Context, _ step.Inputs, _ *step.Context) (*step.Outcome, error) {
		out := step.Success(map[string]any{"riskTolerance": "medium"})
		out.Profile = &profile.Profile{
			RiskTolerance: profile.RiskMedium,
			HorizonYears:  10,
			Capital:       50000,
			Goal:          profile.GoalSteadyGrowth,
		}
		return out, nil
	}

	sess, _ := orc.StartWorkflow(ctx, "user-1")
	if _, err := orc.ExecuteStep(ctx, sess.ID, 1, nil); err != nil {
		t.Fatalf("ExecuteStep returned error: %v", err)
	}

	p, err := st.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if p.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", p.UserID)
	}
	if p.RiskTolerance != profile.RiskMedium {
		t.Errorf("RiskTolerance = %q, want medium", p.RiskTolerance)
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}

	// The next step's context carries the stored profile.
	var seen *profile.Profile
	procs[2].execute = func(_ context.Context, _ step.Inputs, sc *step.Context) (*step.Outcome, error) {
		if p, ok := sc.Profile(); ok {
			seen = p
		}
		return step.Success(nil), nil
	}
	if _, err := orc.ExecuteStep(ctx, sess.ID, 2, nil); err != nil {
		t.Fatalf("ExecuteStep(2) returned error: %v", err)
	}
	if seen == nil || seen.Capital != 50000 {
		t.Errorf("step 2 context profile = %+v, want stored profile", seen)
	}
}

func TestExecuteStepContextCarriesPriorOutputs(t *testing.T) {
	t.Parallel()
	orc, _, procs := newTestOrchestrator(t, 3)
	ctx := context.Background()

	procs[1].execute = func(context.Context, step.Inputs, *step.Context) (*step.Outcome, error) {
		return step.Success(map[string]any{"sector": "technology"}), nil
	}
	procs[2].execute = func(context.Context, step.Inputs, *step.Context) (*step.Outcome, error) {
		return step.Success(map[string]any{"ticker": "ACME"}), nil
	}

	var gotSector, gotTicker string
	procs[3].execute = func(_ context.Context, _ step.Inputs, sc *step.Context) (*step.Outcome, error) {
		gotSector = sc.String(1, "sector")
		gotTicker = sc.String(2, "ticker")
		return step.Success(nil), nil
	}

	sess, _ := orc.StartWorkflow(ctx, "user-1")
	runToCompletion(t, orc, sess, 3)

	if gotSector != "technology" {
		t.Errorf("step 3 saw sector %q, want technology", gotSector)
	}
	if gotTicker != "ACME" {
		t.Errorf("step 3 saw ticker %q, want ACME", gotTicker)
	}
}

func TestExecuteStepConflictOnConcurrentAdvance(t *testing.T) {
	t.Parallel()
	orc, st, procs := newTestOrchestrator(t, 3)
	ctx := context.Background()

	sess, _ := orc.StartWorkflow(ctx, "user-1")

	// While step 1 executes, a rival writer advances the session. The
	// orchestrator's stale copy must lose the final write.
	procs[1].execute = func(context.Context, step.Inputs, *step.Context) (*step.Outcome, error) {
		rival, err := st.GetSession(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		rival.MarkCompleted(1)
		rival.CurrentStep = 2
		if err := st.UpdateSession(ctx, rival); err != nil {
			return nil, err
		}
		return step.Success(nil), nil
	}

	_, err := orc.ExecuteStep(ctx, sess.ID, 1, nil)
	if !errors.Is(err, vestro.ErrSessionConflict) {
		t.Fatalf("err = %v, want ErrSessionConflict", err)
	}

	// The rival's advance stands.
	status, _ := orc.GetWorkflowStatus(ctx, sess.ID)
	if status.CurrentStep != 2 {
		t.Errorf("CurrentStep = %d, want 2 from the winning writer", status.CurrentStep)
	}
}

// ──────────────────────────────────────────────────
// Skipping
// ──────────────────────────────────────────────────

func TestSkipOptionalStep(t *testing.T) {
	t.Parallel()
	orc, st, _ := newTestOrchestrator(t, 3, 2)
	ctx := context.Background()

	sess, _ := orc.StartWorkflow(ctx, "user-1")
	if _, err := orc.ExecuteStep(ctx, sess.ID, 1, nil); err != nil {
		t.Fatalf("ExecuteStep(1) returned error: %v", err)
	}

	got, err := orc.SkipOptionalStep(ctx, sess.ID, 2)
	if err != nil {
		t.Fatalf("SkipOptionalStep returned error: %v", err)
	}
	if got.CurrentStep != 3 {
		t.Errorf("CurrentStep = %d, want 3", got.CurrentStep)
	}

	// Skipped steps never count as completed and leave no result.
	status, _ := orc.GetWorkflowStatus(ctx, sess.ID)
	if status.CompletedCount != 1 {
		t.Errorf("CompletedCount = %d, want 1", status.CompletedCount)
	}
	if _, err := st.GetStepResult(ctx, sess.ID, 2); !errors.Is(err, vestro.ErrResultNotFound) {
		t.Errorf("GetStepResult(2) err = %v, want ErrResultNotFound", err)
	}
}

func TestSkipMandatoryStepRejected(t *testing.T) {
	t.Parallel()
	orc, _, _ := newTestOrchestrator(t, 3, 2)
	ctx := context.Background()

	sess, _ := orc.StartWorkflow(ctx, "user-1")

	_, err := orc.SkipOptionalStep(ctx, sess.ID, 1)
	if !errors.Is(err, vestro.ErrStepNotOptional) {
		t.Fatalf("err = %v, want ErrStepNotOptional", err)
	}
	if !strings.Contains(err.Error(), "not optional") {
		t.Errorf("error %q does not mention not optional", err)
	}

	status, _ := orc.GetWorkflowStatus(ctx, sess.ID)
	if status.CurrentStep != 1 {
		t.Errorf("CurrentStep = %d after rejected skip, want 1", status.CurrentStep)
	}
}

func TestSkipOptionalStepNotCurrent(t *testing.T) {
	t.Parallel()
	orc, _, _ := newTestOrchestrator(t, 3, 2)
	ctx := context.Background()

	// Session is at step 1; step 2 is optional but not current yet.
	sess, _ := orc.StartWorkflow(ctx, "user-1")

	_, err := orc.SkipOptionalStep(ctx, sess.ID, 2)
	if !errors.Is(err, vestro.ErrStepNotOptional) {
		t.Fatalf("err = %v, want ErrStepNotOptional", err)
	}
}

func TestSkipUnknownSession(t *testing.T) {
	t.Parallel()
	orc, _, _ := newTestOrchestrator(t, 3, 2)

	_, err := orc.SkipOptionalStep(context.Background(), id.NewSessionID(), 2)
	if !errors.Is(err, vestro.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

// ──────────────────────────────────────────────────
// Full pipeline
// ──────────────────────────────────────────────────

func TestFullPipelineCompletion(t *testing.T) {
	t.Parallel()
	orc, _, _ := newTestOrchestrator(t, 12, 8)
	ctx := context.Background()

	sess, _ := orc.StartWorkflow(ctx, "user-1")
	runToCompletion(t, orc, sess, 12)

	status, err := orc.GetWorkflowStatus(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetWorkflowStatus returned error: %v", err)
	}
	if status.CurrentStep != 13 {
		t.Errorf("CurrentStep = %d, want 13", status.CurrentStep)
	}
	if status.Progress != 100 {
		t.Errorf("Progress = %d, want 100", status.Progress)
	}
	if !status.Completed {
		t.Error("Completed = false, want true")
	}
	if status.CompletedCount != 12 {
		t.Errorf("CompletedCount = %d, want 12", status.CompletedCount)
	}
}

func TestFullPipelineWithSkippedStep(t *testing.T) {
	t.Parallel()
	orc, _, _ := newTestOrchestrator(t, 12, 8)
	ctx := context.Background()

	sess, _ := orc.StartWorkflow(ctx, "user-1")
	for n := 1; n <= 7; n++ {
		if _, err := orc.ExecuteStep(ctx, sess.ID, n, nil); err != nil {
			t.Fatalf("ExecuteStep(%d) returned error: %v", n, err)
		}
	}
	if _, err := orc.SkipOptionalStep(ctx, sess.ID, 8); err != nil {
		t.Fatalf("SkipOptionalStep returned error: %v", err)
	}
	for n := 9; n <= 12; n++ {
		if _, err := orc.ExecuteStep(ctx, sess.ID, n, nil); err != nil {
			t.Fatalf("ExecuteStep(%d) returned error: %v", n, err)
		}
	}

	status, _ := orc.GetWorkflowStatus(ctx, sess.ID)
	if status.CurrentStep != 13 {
		t.Errorf("CurrentStep = %d, want 13", status.CurrentStep)
	}
	if status.CompletedCount != 11 {
		t.Errorf("CompletedCount = %d, want 11", status.CompletedCount)
	}
	// 11 of 12 completed: round(1100/12) = 92, not 100.
	if status.Progress != 92 {
		t.Errorf("Progress = %d, want 92", status.Progress)
	}
	// The pointer passed the last step, so the run is over even though
	// the skipped step never counted toward progress.
	if !status.Completed {
		t.Error("Completed = false, want true once the pointer passes the last step")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	t.Parallel()
	orc, _, _ := newTestOrchestrator(t, 3)
	ctx := context.Background()

	a, _ := orc.StartWorkflow(ctx, "user-a")
	b, _ := orc.StartWorkflow(ctx, "user-b")

	if _, err := orc.ExecuteStep(ctx, a.ID, 1, nil); err != nil {
		t.Fatalf("ExecuteStep returned error: %v", err)
	}
	if _, err := orc.ExecuteStep(ctx, a.ID, 2, nil); err != nil {
		t.Fatalf("ExecuteStep returned error: %v", err)
	}

	sa, _ := orc.GetWorkflowStatus(ctx, a.ID)
	sb, _ := orc.GetWorkflowStatus(ctx, b.ID)
	if sa.CurrentStep != 3 {
		t.Errorf("session a CurrentStep = %d, want 3", sa.CurrentStep)
	}
	if sb.CurrentStep != 1 {
		t.Errorf("session b CurrentStep = %d, want 1", sb.CurrentStep)
	}
}

// ──────────────────────────────────────────────────
// Reset
// ──────────────────────────────────────────────────

func TestResetWorkflow(t *testing.T) {
	t.Parallel()
	orc, st, _ := newTestOrchestrator(t, 3)
	ctx := context.Background()

	sess, _ := orc.StartWorkflow(ctx, "user-1")
	if _, err := orc.ExecuteStep(ctx, sess.ID, 1, nil); err != nil {
		t.Fatalf("ExecuteStep returned error: %v", err)
	}
	if _, err := orc.ExecuteStep(ctx, sess.ID, 2, nil); err != nil {
		t.Fatalf("ExecuteStep returned error: %v", err)
	}

	got, err := orc.ResetWorkflow(ctx, sess.ID)
	if err != nil {
		t.Fatalf("ResetWorkflow returned error: %v", err)
	}
	if got.CurrentStep != 1 {
		t.Errorf("CurrentStep = %d, want 1", got.CurrentStep)
	}
	if len(got.CompletedSteps) != 0 {
		t.Errorf("CompletedSteps = %v, want empty", got.CompletedSteps)
	}

	all, _ := st.GetAllStepResults(ctx, sess.ID)
	if len(all) != 0 {
		t.Errorf("results after reset = %d, want 0", len(all))
	}

	// Step 1 is executable again.
	out, err := orc.ExecuteStep(ctx, sess.ID, 1, nil)
	if err != nil || !out.Success {
		t.Fatalf("ExecuteStep after reset: outcome = %+v, err = %v", out, err)
	}
}

func TestResetWorkflowFreshSession(t *testing.T) {
	t.Parallel()
	orc, _, _ := newTestOrchestrator(t, 3)
	ctx := context.Background()

	sess, _ := orc.StartWorkflow(ctx, "user-1")

	got, err := orc.ResetWorkflow(ctx, sess.ID)
	if err != nil {
		t.Fatalf("ResetWorkflow returned error: %v", err)
	}
	if got.CurrentStep != 1 || len(got.CompletedSteps) != 0 {
		t.Errorf("fresh reset session = %+v, want pristine", got)
	}
}

func TestResetUnknownSession(t *testing.T) {
	t.Parallel()
	orc, _, _ := newTestOrchestrator(t, 3)

	_, err := orc.ResetWorkflow(context.Background(), id.NewSessionID())
	if !errors.Is(err, vestro.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

// ──────────────────────────────────────────────────
// Status
// ──────────────────────────────────────────────────

func TestGetWorkflowStatusUnknownSession(t *testing.T) {
	t.Parallel()
	orc, _, _ := newTestOrchestrator(t, 3)

	_, err := orc.GetWorkflowStatus(context.Background(), id.NewSessionID())
	if !errors.Is(err, vestro.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error %q does not mention not found", err)
	}
}

func TestStepsCatalog(t *testing.T) {
	t.Parallel()
	orc, _, _ := newTestOrchestrator(t, 3, 2)

	defs := orc.Steps()
	if len(defs) != 3 {
		t.Fatalf("Steps returned %d definitions, want 3", len(defs))
	}
	for i, d := range defs {
		if d.Number != i+1 {
			t.Errorf("Steps[%d].Number = %d, want %d", i, d.Number, i+1)
		}
	}
	if !defs[1].Optional {
		t.Error("step 2 not marked optional")
	}
	if orc.TotalSteps() != 3 {
		t.Errorf("TotalSteps = %d, want 3", orc.TotalSteps())
	}
}
