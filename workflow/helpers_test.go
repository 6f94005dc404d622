package workflow_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/store/memory"
	"github.com/anthony-okoye/vestro/validate"
	"github.com/anthony-okoye/vestro/workflow"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProcessor is a scriptable step processor. The zero value validates
// everything and succeeds with empty data.
type fakeProcessor struct {
	def      step.Definition
	validate func(step.Inputs) validate.Result
	execute  func(context.Context, step.Inputs, *step.Context) (*step.Outcome, error)

	mu    sync.Mutex
	calls int
}

func (f *fakeProcessor) Definition() step.Definition { return f.def }

func (f *fakeProcessor) ValidateInputs(in step.Inputs) validate.Result {
	if f.validate != nil {
		return f.validate(in)
	}
	return validate.OK()
}

func (f *fakeProcessor) Execute(ctx context.Context, in step.Inputs, sc *step.Context) (*step.Outcome, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.execute != nil {
		return f.execute(ctx, in, sc)
	}
	return step.Success(map[string]any{"step": f.def.Number}), nil
}

func (f *fakeProcessor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// newTestRegistry builds a registry of total fake steps. optional marks
// step numbers registered as skippable.
func newTestRegistry(t *testing.T, total int, optional ...int) (*step.Registry, map[int]*fakeProcessor) {
	t.Helper()

	opt := make(map[int]bool, len(optional))
	for _, n := range optional {
		opt[n] = true
	}

	reg := step.NewRegistry()
	procs := make(map[int]*fakeProcessor, total)
	for n := 1; n <= total; n++ {
		p := &fakeProcessor{def: step.Definition{
			Number:   n,
			Label:    fmt.Sprintf("Step %d", n),
			Optional: opt[n],
		}}
		procs[n] = p
		if err := reg.Register(p); err != nil {
			t.Fatalf("Register(%d) returned error: %v", n, err)
		}
	}
	return reg, procs
}

// newTestOrchestrator wires an orchestrator over a fresh memory store.
func newTestOrchestrator(t *testing.T, total int, optional ...int) (*workflow.Orchestrator, *memory.Store, map[int]*fakeProcessor) {
	t.Helper()

	st := memory.New()
	reg, procs := newTestRegistry(t, total, optional...)
	orc, err := workflow.NewOrchestrator(st, st, reg, workflow.WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("NewOrchestrator returned error: %v", err)
	}
	return orc, st, procs
}

// runToCompletion executes steps from the session's current step through
// total, failing the test on any error or non-success outcome.
func runToCompletion(t *testing.T, orc *workflow.Orchestrator, sess *workflow.Session, total int) {
	t.Helper()
	ctx := context.Background()

	status, err := orc.GetWorkflowStatus(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetWorkflowStatus returned error: %v", err)
	}
	for n := status.CurrentStep; n <= total; n++ {
		out, err := orc.ExecuteStep(ctx, sess.ID, n, nil)
		if err != nil {
			t.Fatalf("ExecuteStep(%d) returned error: %v", n, err)
		}
		if !out.Success {
			t.Fatalf("ExecuteStep(%d) outcome not successful: %v", n, out.Errors)
		}
	}
}
