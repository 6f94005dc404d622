package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anthony-okoye/vestro"
	"github.com/anthony-okoye/vestro/id"
	"github.com/anthony-okoye/vestro/middleware"
	"github.com/anthony-okoye/vestro/profile"
	"github.com/anthony-okoye/vestro/step"
)

// Orchestrator drives sessions through the research pipeline one step at
// a time. It owns the gate checks (current-step match, optionality), the
// context handed to processors, and the persistence ordering on success.
//
// An Orchestrator is safe for concurrent use; per-session races are
// resolved by the store's version check on UpdateSession.
type Orchestrator struct {
	store    Store
	profiles profile.Store
	registry *step.Registry

	mws         []middleware.Middleware
	chain       middleware.Middleware
	stepTimeout time.Duration
	logger      *slog.Logger
}

// NewOrchestrator wires an orchestrator over a session store, a profile
// store and a fully populated step registry. It fails fast when the
// registry has gaps, so a half-registered pipeline never serves traffic.
func NewOrchestrator(st Store, profiles profile.Store, registry *step.Registry, opts ...Option) (*Orchestrator, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: session store", vestro.ErrNoStore)
	}
	if profiles == nil {
		return nil, fmt.Errorf("%w: profile store", vestro.ErrNoStore)
	}
	if registry == nil {
		return nil, fmt.Errorf("workflow: registry must not be nil")
	}
	if err := registry.Complete(); err != nil {
		return nil, fmt.Errorf("workflow: incomplete step catalog: %w", err)
	}

	o := &Orchestrator{
		store:    st,
		profiles: profiles,
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	// Recover stays outermost so a panic anywhere in the chain is
	// converted to an error instead of unwinding into the caller.
	// Timeout sits innermost so the deadline covers only the processor.
	chain := make([]middleware.Middleware, 0, len(o.mws)+2)
	chain = append(chain, middleware.Recover(o.logger))
	chain = append(chain, o.mws...)
	chain = append(chain, middleware.Timeout(o.stepTimeout))
	o.chain = middleware.Chain(chain...)

	return o, nil
}

// TotalSteps reports the number of steps in the pipeline.
func (o *Orchestrator) TotalSteps() int {
	return o.registry.Total()
}

// Steps returns the step catalog in pipeline order.
func (o *Orchestrator) Steps() []step.Definition {
	return o.registry.Definitions()
}

// StartWorkflow creates a fresh session for userID positioned at step 1.
func (o *Orchestrator) StartWorkflow(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, vestro.ErrInvalidUser
	}

	sess, err := o.store.CreateSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("create session for user %q: %w", userID, err)
	}

	o.logger.Info("workflow session started",
		slog.String("session_id", sess.ID.String()),
		slog.String("user_id", userID),
	)
	return sess, nil
}

// ExecuteStep runs stepNumber for the given session.
//
// The step must be the session's current step; completed and future steps
// are rejected with ErrInvalidStep. Validation failures and processor
// failures come back as a non-success Outcome with a nil error, and leave
// the session untouched. Only a successful outcome persists: the step
// result is written first, then any profile the outcome carries, then the
// advanced session. A concurrent advance of the same session surfaces as
// ErrSessionConflict from the final write.
func (o *Orchestrator) ExecuteStep(ctx context.Context, sessionID id.SessionID, stepNumber int, inputs step.Inputs) (*step.Outcome, error) {
	sess, err := o.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	if stepNumber != sess.CurrentStep {
		return nil, fmt.Errorf("%w: step %d requested, session %s awaits step %d",
			vestro.ErrInvalidStep, stepNumber, sessionID, sess.CurrentStep)
	}

	proc, ok := o.registry.Get(stepNumber)
	if !ok {
		return nil, fmt.Errorf("%w: step %d", vestro.ErrUnregisteredStep, stepNumber)
	}
	def := proc.Definition()

	if res := proc.ValidateInputs(inputs); !res.Valid {
		o.logger.Debug("step inputs rejected",
			slog.String("session_id", sessionID.String()),
			slog.Int("step", stepNumber),
			slog.Int("error_count", len(res.Errors)),
		)
		return &step.Outcome{Success: false, Errors: res.Errors}, nil
	}

	sc, err := o.assembleContext(ctx, sess)
	if err != nil {
		return nil, err
	}

	outcome, err := o.runProcessor(ctx, sess, def, proc, inputs, sc)
	if err != nil {
		return nil, err
	}
	if !outcome.Success {
		o.logger.Info("step did not succeed",
			slog.String("session_id", sessionID.String()),
			slog.Int("step", stepNumber),
			slog.Int("error_count", len(outcome.Errors)),
		)
		return outcome, nil
	}

	// Persistence order matters: the result lands before the session
	// advances, so a crash in between leaves an orphaned result rather
	// than a session pointing past data that was never written.
	result := NewStepResult(sess.ID, stepNumber, outcome.Data, outcome.Warnings)
	if err := o.store.SaveStepResult(ctx, result); err != nil {
		return nil, fmt.Errorf("save result for step %d: %w", stepNumber, err)
	}

	if outcome.Profile != nil {
		prof := *outcome.Profile
		prof.UserID = sess.UserID
		if prof.CreatedAt.IsZero() {
			prof.CreatedAt = time.Now().UTC()
		}
		if err := o.profiles.SaveProfile(ctx, &prof); err != nil {
			return nil, fmt.Errorf("save profile for user %q: %w", sess.UserID, err)
		}
	}

	sess.MarkCompleted(stepNumber)
	sess.CurrentStep = stepNumber + 1
	if err := o.store.UpdateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("advance session %s past step %d: %w", sessionID, stepNumber, err)
	}

	o.logger.Info("step completed",
		slog.String("session_id", sessionID.String()),
		slog.Int("step", stepNumber),
		slog.String("step_label", def.Label),
		slog.Int("next_step", sess.CurrentStep),
	)
	return outcome, nil
}

// SkipOptionalStep advances the session past stepNumber without executing
// it. The step must be marked optional and must be the session's current
// step; anything else is rejected with ErrStepNotOptional. Skipped steps
// are not added to the completed set and leave no result behind.
func (o *Orchestrator) SkipOptionalStep(ctx context.Context, sessionID id.SessionID, stepNumber int) (*Session, error) {
	sess, err := o.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	def, registered := o.registry.Definition(stepNumber)
	if !registered || !def.Optional || stepNumber != sess.CurrentStep {
		return nil, fmt.Errorf("%w: step %d cannot be skipped for session %s",
			vestro.ErrStepNotOptional, stepNumber, sessionID)
	}

	sess.CurrentStep = stepNumber + 1
	if err := o.store.UpdateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("skip step %d for session %s: %w", stepNumber, sessionID, err)
	}

	o.logger.Info("optional step skipped",
		slog.String("session_id", sessionID.String()),
		slog.Int("step", stepNumber),
		slog.String("step_label", def.Label),
		slog.Int("next_step", sess.CurrentStep),
	)
	return sess, nil
}

// GetWorkflowStatus reports the session's position and progress through
// the pipeline.
func (o *Orchestrator) GetWorkflowStatus(ctx context.Context, sessionID id.SessionID) (*Status, error) {
	sess, err := o.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return NewStatus(sess, o.registry.Total()), nil
}

// ResetWorkflow discards all step results and returns the session to
// step 1. Resetting a fresh session is a no-op.
func (o *Orchestrator) ResetWorkflow(ctx context.Context, sessionID id.SessionID) (*Session, error) {
	sess, err := o.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	if err := o.store.ClearSession(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("clear session %s: %w", sessionID, err)
	}

	sess.CurrentStep = 1
	sess.CompletedSteps = []int{}
	if err := o.store.UpdateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("reset session %s: %w", sessionID, err)
	}

	o.logger.Info("workflow session reset",
		slog.String("session_id", sessionID.String()),
	)
	return sess, nil
}

// assembleContext loads the session's prior results and the user's
// profile concurrently and folds them into a step context. A missing
// profile is fine; steps that need one check for it themselves.
func (o *Orchestrator) assembleContext(ctx context.Context, sess *Session) (*step.Context, error) {
	var (
		results map[int]*StepResult
		prof    *profile.Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		results, err = o.store.GetAllStepResults(gctx, sess.ID)
		if err != nil {
			return fmt.Errorf("load results for session %s: %w", sess.ID, err)
		}
		return nil
	})
	g.Go(func() error {
		p, err := o.profiles.GetProfile(gctx, sess.UserID)
		switch {
		case err == nil:
			prof = p
		case errors.Is(err, vestro.ErrProfileNotFound):
			// No profile before step 1 completes.
		default:
			return fmt.Errorf("load profile for user %q: %w", sess.UserID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	outputs := make(map[int]map[string]any, len(results))
	for n, r := range results {
		outputs[n] = r.Data
	}
	return step.NewContext(sess.ID, sess.UserID, prof, outputs), nil
}

// runProcessor pushes the processor call through the middleware chain.
// A deadline hit is a transient failure, reported as a non-success
// outcome; panics and other errors propagate.
func (o *Orchestrator) runProcessor(ctx context.Context, sess *Session, def step.Definition, proc step.Processor, inputs step.Inputs, sc *step.Context) (*step.Outcome, error) {
	ex := &middleware.Execution{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		Step:      def,
	}

	var outcome *step.Outcome
	err := o.chain(ctx, ex, func(hctx context.Context) error {
		out, err := proc.Execute(hctx, inputs, sc)
		if err != nil {
			return err
		}
		if out == nil {
			return fmt.Errorf("step %d returned no outcome", def.Number)
		}
		outcome = out
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			o.logger.Warn("step timed out",
				slog.String("session_id", sess.ID.String()),
				slog.Int("step", def.Number),
				slog.Duration("timeout", o.stepTimeout),
			)
			return step.Failure(fmt.Sprintf("step %d timed out", def.Number)), nil
		}
		return nil, fmt.Errorf("execute step %d: %w", def.Number, err)
	}
	return outcome, nil
}
