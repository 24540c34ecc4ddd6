package config

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
)

// Loader is the interface for a format-specific plan loader.
type Loader interface {
	// Load reads plan configuration from the given paths and translates it
	// into the format-agnostic model. Declaration order is preserved.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Model is the unified representation of everything loaded from plan files.
type Model struct {
	// Steps holds every declared step in declaration order: lexical file
	// order first, in-file order second. This order is the deterministic
	// tie-break used when building the execution plan.
	Steps []*Step
}

// Step is the format-agnostic representation of a `step` block.
type Step struct {
	// Action names the registered action type (e.g. "run_command").
	Action string

	// Name is the user-chosen instance name, unique per action.
	Name string

	// Arguments is the raw body of the `arguments` block. It is decoded
	// into the action's typed input struct just before execution.
	Arguments hcl.Body

	// DependsOn lists the step IDs that must complete before this step runs.
	DependsOn []string

	// Timeout bounds this step's execution. Zero means the engine default.
	Timeout time.Duration
}

// ID returns the step's unique identifier within a plan.
func (s *Step) ID() string {
	return fmt.Sprintf("step.%s.%s", s.Action, s.Name)
}
