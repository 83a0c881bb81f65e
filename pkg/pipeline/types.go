package pipeline

import (
	"time"

	"github.com/qkauia-guy/self-drawn/pkg/runners"
)

// Step is a single unit of work in a deployment pipeline.
type Step struct {
	// Name identifies the step in logs, metrics and the journal.
	Name string `json:"name"`

	// Command is the external program invocation for this step.
	Command runners.Command `json:"command"`

	// BestEffort marks the step's failure as non-fatal: it is logged,
	// recorded and suppressed, and the run continues.
	BestEffort bool `json:"best_effort,omitempty"`

	// Timeout bounds the step's execution. Zero means no timeout.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// StepStatus represents the status of a step within a run.
type StepStatus string

const (
	StepStatusPending    StepStatus = "pending"
	StepStatusRunning    StepStatus = "running"
	StepStatusSucceeded  StepStatus = "succeeded"
	StepStatusFailed     StepStatus = "failed"
	StepStatusSuppressed StepStatus = "suppressed"
	StepStatusSkipped    StepStatus = "skipped"
)

// IsTerminal returns true if the status is a final state.
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StepStatusSucceeded, StepStatusFailed, StepStatusSuppressed, StepStatusSkipped:
		return true
	}
	return false
}

// StepResult holds the outcome of a single step execution.
type StepResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Command is the invocation this result belongs to, recorded even for
	// steps that were never attempted.
	Command runners.Command `json:"command"`

	Status      StepStatus    `json:"status"`
	ExitCode    int           `json:"exit_code"`
	Stdout      string        `json:"stdout,omitempty"`
	Stderr      string        `json:"stderr,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	Duration    time.Duration `json:"duration"`
	Err         *StepError    `json:"error,omitempty"`
}

// RunStatus represents the overall status of a pipeline run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Run holds the outcome of a pipeline execution.
type Run struct {
	// ID is the unique identifier for this run.
	ID string `json:"id"`

	// Status is the overall run outcome. A run whose only failures were
	// suppressed still counts as succeeded.
	Status RunStatus `json:"status"`

	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	Duration    time.Duration `json:"duration"`

	// Steps holds one result per pipeline step, in execution order.
	Steps []StepResult `json:"steps"`

	// Suppressed counts best-effort steps whose failure was swallowed.
	Suppressed int `json:"suppressed"`
}

// Observer receives lifecycle notifications during a run. Implementations
// must not block; they are called inline on the execution path.
type Observer interface {
	// RunStarted is called once before the first step executes.
	RunStarted(run *Run)

	// StepStarted is called before each step executes.
	StepStarted(run *Run, step Step)

	// StepCompleted is called after each step reaches a terminal status.
	StepCompleted(run *Run, result StepResult)

	// RunCompleted is called once after the run reaches a terminal status.
	RunCompleted(run *Run)
}

// NopObserver is an Observer that does nothing.
type NopObserver struct{}

func (NopObserver) RunStarted(*Run)                {}
func (NopObserver) StepStarted(*Run, Step)         {}
func (NopObserver) StepCompleted(*Run, StepResult) {}
func (NopObserver) RunCompleted(*Run)              {}

// MultiObserver fans out notifications to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) RunStarted(run *Run) {
	for _, o := range m {
		o.RunStarted(run)
	}
}

func (m MultiObserver) StepStarted(run *Run, step Step) {
	for _, o := range m {
		o.StepStarted(run, step)
	}
}

func (m MultiObserver) StepCompleted(run *Run, result StepResult) {
	for _, o := range m {
		o.StepCompleted(run, result)
	}
}

func (m MultiObserver) RunCompleted(run *Run) {
	for _, o := range m {
		o.RunCompleted(run)
	}
}
