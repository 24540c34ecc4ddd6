package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/rootgridgo/internal/config"
	"github.com/specialistvlad/rootgridgo/internal/ctxlog"
	"github.com/specialistvlad/rootgridgo/internal/registry"
)

// preparedStep pairs a plan step with its resolved action and decoded input.
type preparedStep struct {
	step   *config.Step
	action *registry.RegisteredAction
	input  any
}

// prepare resolves and decodes every step up front, so that a malformed
// arguments block or an unknown action type is reported before any execution
// starts and can never leave a half-built sandbox behind.
func (e *Executor) prepare(ctx context.Context) ([]*preparedStep, error) {
	logger := ctxlog.FromContext(ctx)

	// Argument expressions may reference the sandbox location, so commands
	// that need the absolute host path do not have to hardcode it.
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"rootfs": cty.StringVal(e.sandbox.Root()),
		},
	}

	prepared := make([]*preparedStep, 0, len(e.plan.Steps))
	for _, s := range e.plan.Steps {
		action, ok := e.registry.Action(s.Action)
		if !ok {
			return nil, fmt.Errorf("step %q uses unknown action type %q", s.ID(), s.Action)
		}

		input := action.NewInput()
		if s.Arguments != nil {
			if diags := gohcl.DecodeBody(s.Arguments, evalCtx, input); diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode arguments for step %q: %w", s.ID(), diags)
			}
		}

		prepared = append(prepared, &preparedStep{step: s, action: action, input: input})
	}

	logger.Debug("All steps prepared.", "count", len(prepared))
	return prepared, nil
}

// runStep invokes one step's Run handler under its timeout, if any.
func (e *Executor) runStep(ctx context.Context, ps *preparedStep, deps *registry.StepContext) error {
	timeout := ps.step.Timeout
	if timeout == 0 {
		timeout = e.defaultTimeout
	}

	stepCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		stepCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err := ps.action.Run(stepCtx, deps, ps.input)
	if err == nil {
		return nil
	}

	// Distinguish the step's own deadline from a caller abort: only the
	// former is a timeout, and both halt the build.
	if errors.Is(stepCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return &TimeoutError{StepID: ps.step.ID(), Limit: timeout}
	}
	return &StepError{StepID: ps.step.ID(), Err: err}
}

// DefaultStepTimeout is the fallback bound applied when neither the CLI nor
// the step declares one. No step may block a build forever.
const DefaultStepTimeout = 30 * time.Minute
