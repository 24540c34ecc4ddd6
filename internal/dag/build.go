package dag

import (
	"context"

	"github.com/specialistvlad/rootgridgo/internal/config"
	"github.com/specialistvlad/rootgridgo/internal/ctxlog"
)

// Plan is a deterministically ordered sequence of steps ready for execution.
// Every step appears after all of its dependencies.
type Plan struct {
	Steps []*config.Step
}

// IDs returns the step IDs in plan order.
func (p *Plan) IDs() []string {
	ids := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		ids[i] = s.ID()
	}
	return ids
}

// Build constructs a validated, ordered Plan from the declared steps.
// It fails with UnknownDependencyError when a step references an ID that is
// not in the model, and with CycleError when the dependencies cannot be
// topologically ordered.
func Build(ctx context.Context, model *config.Model) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting plan construction.", "step_count", len(model.Steps))

	index := make(map[string]int, len(model.Steps))
	for i, s := range model.Steps {
		index[s.ID()] = i
	}

	// In-degree per step, validating references along the way.
	inDegree := make([]int, len(model.Steps))
	dependents := make([][]int, len(model.Steps))
	for i, s := range model.Steps {
		for _, ref := range s.DependsOn {
			depIdx, ok := index[ref]
			if !ok {
				return nil, &UnknownDependencyError{StepID: s.ID(), Ref: ref}
			}
			dependents[depIdx] = append(dependents[depIdx], i)
			inDegree[i]++
		}
	}

	// Stable Kahn: always emit the first-declared ready step. The linear
	// rescan keeps the tie-break trivially correct; plan sizes are far too
	// small for the quadratic bound to matter.
	emitted := make([]bool, len(model.Steps))
	ordered := make([]*config.Step, 0, len(model.Steps))
	for len(ordered) < len(model.Steps) {
		next := -1
		for i := range model.Steps {
			if !emitted[i] && inDegree[i] == 0 {
				next = i
				break
			}
		}
		if next == -1 {
			return nil, &CycleError{Members: cycleMembers(model, emitted, dependents)}
		}

		emitted[next] = true
		ordered = append(ordered, model.Steps[next])
		for _, dep := range dependents[next] {
			inDegree[dep]--
		}
	}

	logger.Debug("Build: Plan construction successful.", "ordered_count", len(ordered))
	return &Plan{Steps: ordered}, nil
}

// cycleMembers narrows the stuck steps down to the ones actually on a cycle:
// a step is on a cycle exactly when it can reach itself through the remaining
// dependency edges. Steps that are merely downstream of a cycle are excluded.
func cycleMembers(model *config.Model, emitted []bool, dependents [][]int) []string {
	var members []string
	for i, s := range model.Steps {
		if emitted[i] {
			continue
		}
		if reaches(i, i, emitted, dependents, make([]bool, len(model.Steps))) {
			members = append(members, s.ID())
		}
	}
	return members
}

// reaches reports whether target is reachable from `from` over at least one
// edge, traversing only steps that were never emitted.
func reaches(from, target int, emitted []bool, dependents [][]int, seen []bool) bool {
	for _, next := range dependents[from] {
		if next == target {
			return true
		}
		if emitted[next] || seen[next] {
			continue
		}
		seen[next] = true
		if reaches(next, target, emitted, dependents, seen) {
			return true
		}
	}
	return false
}
