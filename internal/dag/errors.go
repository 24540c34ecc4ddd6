package dag

import (
	"fmt"
	"strings"
)

// CycleError indicates that the declared dependencies contain a cycle,
// preventing topological ordering.
type CycleError struct {
	// Members contains the step IDs that lie on a dependency cycle, in
	// declaration order. Steps that are only downstream of a cycle, and
	// therefore can never run, are not listed.
	Members []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected among: %s", strings.Join(e.Members, ", "))
}

// UnknownDependencyError indicates that a step references a dependency ID
// that does not exist in the plan.
type UnknownDependencyError struct {
	StepID string
	Ref    string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("step %q depends on unknown step %q", e.StepID, e.Ref)
}
