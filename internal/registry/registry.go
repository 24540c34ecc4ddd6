package registry

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/specialistvlad/rootgridgo/internal/artifact"
	"github.com/specialistvlad/rootgridgo/internal/config"
	"github.com/specialistvlad/rootgridgo/internal/sandbox"
)

// StepContext carries the per-build collaborators injected into every action
// handler. Handlers must confine all filesystem effects to the Sandbox.
type StepContext struct {
	// Sandbox is the mutable target root of the current build.
	Sandbox *sandbox.Sandbox

	// Artifacts resolves optional overlay files from the search directory.
	Artifacts *artifact.Resolver

	// Output receives the step's combined stdout/stderr style diagnostics.
	// The executor captures it into the BuildResult on failure.
	Output io.Writer

	// RecordArtifact reports a file staged into the sandbox so it ends up
	// in the finalize manifest. Never nil.
	RecordArtifact func(sandbox.StagedArtifact)
}

// RegisteredAction bundles the Go implementation of one action type.
type RegisteredAction struct {
	// NewInput returns a pointer to a fresh, hcl-tagged input struct for
	// decoding the step's arguments block.
	NewInput func() any

	// Check evaluates the step's idempotence predicate against the current
	// sandbox state without side effects. True means the step's effect is
	// already present and execution can be skipped.
	Check func(ctx context.Context, deps *StepContext, input any) (bool, error)

	// Run performs the step's effect.
	Run func(ctx context.Context, deps *StepContext, input any) error
}

// Module is implemented by action packages that register handlers.
type Module interface {
	Register(r *Registry)
}

// Registry holds all registered action types.
type Registry struct {
	actions map[string]*RegisteredAction
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{actions: make(map[string]*RegisteredAction)}
}

// RegisterAction registers the implementation for an action type name.
// Registering the same name twice is a programmer error and panics.
func (r *Registry) RegisterAction(name string, a *RegisteredAction) {
	if _, exists := r.actions[name]; exists {
		panic(fmt.Sprintf("registry: action %q registered twice", name))
	}
	r.actions[name] = a
}

// Action looks up the implementation for an action type name.
func (r *Registry) Action(name string) (*RegisteredAction, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// ActionNames returns all registered action type names, sorted.
func (r *Registry) ActionNames() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every step in the model references a registered
// action. A mismatch between plan and code is fatal before execution starts.
func (r *Registry) Validate(model *config.Model) error {
	for _, s := range model.Steps {
		if _, ok := r.actions[s.Action]; !ok {
			return fmt.Errorf("step %q uses unknown action type %q (registered: %v)", s.ID(), s.Action, r.ActionNames())
		}
	}
	return nil
}
