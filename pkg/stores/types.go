package stores

import (
	"context"
	"time"
)

// RunStatus represents the status of a journaled deployment run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Run represents a journaled deployment run.
type Run struct {
	ID          string     `json:"id"`
	Project     string     `json:"project"`
	Target      string     `json:"target"`
	Status      RunStatus  `json:"status"`
	Suppressed  int        `json:"suppressed"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// StepResult represents a journaled step outcome within a run.
type StepResult struct {
	ID          string     `json:"id"`
	RunID       string     `json:"run_id"`
	Name        string     `json:"name"`
	Command     string     `json:"command"`
	Status      string     `json:"status"`
	ExitCode    int        `json:"exit_code"`
	Stderr      *string    `json:"stderr,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Store defines the interface for the journal persistence layer.
type Store interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error

	// Run operations
	CreateRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	UpdateRunStatus(ctx context.Context, id string, status RunStatus, suppressed int, errMsg *string) error
	ListRuns(ctx context.Context, limit, offset int) ([]*Run, error)

	// StepResult operations
	CreateStepResult(ctx context.Context, result *StepResult) error
	ListStepResultsByRun(ctx context.Context, runID string) ([]*StepResult, error)

	// Utility
	HealthCheck(ctx context.Context) error
}
