package hcl

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/rootgridgo/internal/config"
	"github.com/specialistvlad/rootgridgo/internal/schema"
)

// translateStep converts the HCL-specific step schema into the agnostic model.
func (l *Loader) translateStep(s *schema.Step) (*config.Step, error) {
	if s.Action == "" || s.Name == "" {
		return nil, fmt.Errorf("step labels must not be empty")
	}

	var timeout time.Duration
	if s.Timeout != "" {
		parsed, err := time.ParseDuration(s.Timeout)
		if err != nil {
			return nil, fmt.Errorf("step %q has invalid timeout %q: %w", s.Name, s.Timeout, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("step %q timeout must be positive, got %q", s.Name, s.Timeout)
		}
		timeout = parsed
	}

	return &config.Step{
		Action:    s.Action,
		Name:      s.Name,
		Arguments: extractArgumentsBody(s.Arguments),
		DependsOn: s.DependsOn,
		Timeout:   timeout,
	}, nil
}

// extractArgumentsBody unwraps the raw body of an 'arguments' block, if present.
func extractArgumentsBody(args *schema.StepArgs) hcl.Body {
	if args == nil {
		return nil
	}
	return args.Body
}
