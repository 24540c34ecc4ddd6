// Package schema holds the gohcl-tagged structs that mirror the on-disk plan
// file format. These types exist purely for decoding; the internal/hcl loader
// translates them into the format-agnostic config model.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// StepArgs represents the content of the 'arguments' block within a step.
// The body is kept raw so each action can decode it against its own input
// struct with full expression evaluation.
type StepArgs struct {
	Body hcl.Body `hcl:",remain"`
}

// Step represents a `step` block from a user's plan file. The two labels
// select the action type and the instance name; together they form the step
// ID `step.<action>.<step_name>`.
type Step struct {
	Action    string    `hcl:"action,label"`
	Name      string    `hcl:"step_name,label"`
	Arguments *StepArgs `hcl:"arguments,block"`
	DependsOn []string  `hcl:"depends_on,optional"`
	Timeout   string    `hcl:"timeout,optional"`
}

// PlanConfig represents the top-level structure of a plan file.
type PlanConfig struct {
	Steps []*Step  `hcl:"step,block"`
	Body  hcl.Body `hcl:",remain"`
}
