package app

import (
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/rootgridgo/internal/dag"
	"github.com/specialistvlad/rootgridgo/internal/executor"
)

// printPlan renders the ordered plan for dry runs.
func (a *App) printPlan(plan *dag.Plan) {
	fmt.Fprintf(a.outW, "Plan: %d step(s)\n", len(plan.Steps))
	for i, s := range plan.Steps {
		fmt.Fprintf(a.outW, "%3d. %s", i+1, s.ID())
		if len(s.DependsOn) > 0 {
			fmt.Fprintf(a.outW, "  (after: %v)", s.DependsOn)
		}
		fmt.Fprintln(a.outW)
	}
}

// printResult renders the build result in the configured format.
func (a *App) printResult(result *executor.Result) error {
	if a.config.ResultFormat == "json" {
		enc := json.NewEncoder(a.outW)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return nil
	}

	fmt.Fprintf(a.outW, "Build %s: %s\n", result.BuildID, result.Status)
	fmt.Fprintf(a.outW, "  completed: %d, skipped: %d\n", len(result.Completed), len(result.Skipped))
	for _, rec := range result.Records {
		fmt.Fprintf(a.outW, "  %-9s %s\n", rec.Outcome, rec.ID)
	}
	if result.FailedStep != "" {
		fmt.Fprintf(a.outW, "  failed step: %s\n", result.FailedStep)
		fmt.Fprintf(a.outW, "  diagnostics:\n%s\n", result.Diagnostics)
	}
	return nil
}
