package executor

import (
	"fmt"
	"time"
)

// TimeoutError marks a step that exceeded its execution window. It is
// treated exactly like any other step failure: the build halts.
type TimeoutError struct {
	StepID string
	Limit  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("step %q exceeded its timeout of %s", e.StepID, e.Limit)
}

// StepError wraps the failure of a single step with its identity.
type StepError struct {
	StepID string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.StepID, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
