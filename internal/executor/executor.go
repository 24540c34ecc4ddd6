package executor

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/rootgridgo/internal/artifact"
	"github.com/specialistvlad/rootgridgo/internal/ctxlog"
	"github.com/specialistvlad/rootgridgo/internal/dag"
	"github.com/specialistvlad/rootgridgo/internal/registry"
	"github.com/specialistvlad/rootgridgo/internal/sandbox"
)

// Executor drives one build run over an ordered plan.
type Executor struct {
	plan      *dag.Plan
	sandbox   *sandbox.Sandbox
	artifacts *artifact.Resolver
	registry  *registry.Registry

	// defaultTimeout bounds steps that declare no timeout of their own.
	// Zero disables the bound.
	defaultTimeout time.Duration

	staged []sandbox.StagedArtifact
}

// New creates an executor for a single run. The sandbox must be exclusively
// owned by this executor until the run finishes.
func New(plan *dag.Plan, sb *sandbox.Sandbox, res *artifact.Resolver, reg *registry.Registry, defaultTimeout time.Duration) *Executor {
	return &Executor{
		plan:           plan,
		sandbox:        sb,
		artifacts:      res,
		registry:       reg,
		defaultTimeout: defaultTimeout,
	}
}

// Run executes the plan strictly in order and returns the BuildResult.
// The returned error is reserved for pre-execution problems (an argument
// block that does not decode, an unregistered action); once the first step
// starts, failures are reported through the Result, not the error.
func (e *Executor) Run(ctx context.Context) (*Result, error) {
	buildID := uuid.NewString()
	logger := ctxlog.FromContext(ctx).With("build_id", buildID)
	ctx = ctxlog.WithLogger(ctx, logger)

	prepared, err := e.prepare(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		BuildID:   buildID,
		Status:    StatusSuccess,
		StartedAt: time.Now(),
	}

	var diag bytes.Buffer
	deps := &registry.StepContext{
		Sandbox:   e.sandbox,
		Artifacts: e.artifacts,
		Output:    &diag,
		RecordArtifact: func(a sandbox.StagedArtifact) {
			e.staged = append(e.staged, a)
		},
	}

	logger.Info("🚀 Starting build execution.", "steps", len(prepared), "root", e.sandbox.Root())

	for _, ps := range prepared {
		// Cancellation is cooperative: checked between steps only, since
		// a running step is an atomic black box.
		if ctx.Err() != nil {
			logger.Warn("🛑 Build cancelled.", "after_steps", len(result.Completed))
			result.Status = StatusCancelled
			break
		}

		stepLogger := logger.With("step", ps.step.ID())
		diag.Reset()

		satisfied, err := ps.action.Check(ctx, deps, ps.input)
		if err != nil {
			// A predicate that cannot be evaluated is as fatal as a
			// failing step: the sandbox state is not trustworthy.
			stepLogger.Error("❌ Idempotence check failed.", "error", err)
			e.recordFailure(result, ps, &StepError{StepID: ps.step.ID(), Err: err}, diag.String())
			break
		}
		if satisfied {
			stepLogger.Info("⏭️ Step already satisfied, skipping.")
			result.Skipped = append(result.Skipped, ps.step.ID())
			result.Records = append(result.Records, StepRecord{ID: ps.step.ID(), Outcome: OutcomeSkipped})
			continue
		}

		stepLogger.Info("▶️ Starting step.")
		started := time.Now()
		err = e.runStep(ctx, ps, deps)
		elapsed := time.Since(started)

		if err != nil {
			// An abort that lands mid-step kills the subprocess. That is
			// a cancellation, not a failure of the interrupted step.
			if ctx.Err() != nil {
				stepLogger.Warn("🛑 Step interrupted, build cancelled.", "duration", elapsed)
				result.Status = StatusCancelled
				result.Records = append(result.Records, StepRecord{ID: ps.step.ID(), Outcome: OutcomeCancelled, Duration: elapsed})
				break
			}
			stepLogger.Error("❌ Step failed.", "error", err, "duration", elapsed)
			e.recordFailure(result, ps, err, diag.String())
			break
		}

		stepLogger.Info("✅ Step finished.", "duration", elapsed)
		result.Completed = append(result.Completed, ps.step.ID())
		result.Records = append(result.Records, StepRecord{ID: ps.step.ID(), Outcome: OutcomeCompleted, Duration: elapsed})
	}

	result.FinishedAt = time.Now()
	logger.Info("🏁 Build finished.", "status", result.Status, "completed", len(result.Completed), "skipped", len(result.Skipped))
	return result, nil
}

// Manifest assembles the finalize manifest for a run. Callers seal the
// sandbox themselves; the engine never does, so a failed sandbox stays open
// for inspection.
func (e *Executor) Manifest(result *Result) *sandbox.Manifest {
	return &sandbox.Manifest{
		BuildID:    result.BuildID,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Completed:  result.Completed,
		Skipped:    result.Skipped,
		Artifacts:  e.staged,
	}
}

// recordFailure marks the result failed with the step's captured diagnostics.
func (e *Executor) recordFailure(result *Result, ps *preparedStep, err error, diagnostics string) {
	result.Status = StatusFailed
	result.FailedStep = ps.step.ID()
	result.Diagnostics = diagnostics
	if diagnostics == "" {
		result.Diagnostics = err.Error()
	} else {
		result.Diagnostics = fmt.Sprintf("%s\n%s", err.Error(), diagnostics)
	}
	result.Records = append(result.Records, StepRecord{ID: ps.step.ID(), Outcome: OutcomeFailed})
}
