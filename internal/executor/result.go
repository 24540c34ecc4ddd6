package executor

import (
	"time"
)

// Status is the terminal state of one build run.
type Status string

const (
	// StatusSuccess means every step either completed or was skipped.
	StatusSuccess Status = "success"
	// StatusFailed means a step failed and the remainder never ran.
	StatusFailed Status = "failed"
	// StatusCancelled means the caller aborted the build. The abort is
	// honored between steps, or by interrupting the step in flight; an
	// interrupted step is not counted as failed.
	StatusCancelled Status = "cancelled"
)

// Outcome is the terminal state of one step within a run.
type Outcome string

const (
	// OutcomeCompleted means the step's Run handler succeeded.
	OutcomeCompleted Outcome = "completed"
	// OutcomeSkipped means the idempotence predicate was already satisfied.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the step's Run handler returned an error.
	OutcomeFailed Outcome = "failed"
	// OutcomeCancelled means a build abort interrupted the step mid-run.
	OutcomeCancelled Outcome = "cancelled"
)

// StepRecord describes what happened to one step.
type StepRecord struct {
	ID       string        `json:"id"`
	Outcome  Outcome       `json:"outcome"`
	Duration time.Duration `json:"duration"`
}

// Result is the outcome of one build run. Completed is always a prefix of
// the plan's executable order: steps run strictly in sequence and nothing
// runs after the first failure.
type Result struct {
	BuildID    string   `json:"build_id"`
	Status     Status   `json:"status"`
	Completed  []string `json:"completed_steps"`
	Skipped    []string `json:"skipped_steps"`
	FailedStep string   `json:"failed_step,omitempty"`
	// Diagnostics holds the failing step's captured output, empty on success.
	Diagnostics string       `json:"diagnostics,omitempty"`
	Records     []StepRecord `json:"records"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
}
