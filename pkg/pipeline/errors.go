package pipeline

import (
	"errors"
	"fmt"
)

// FailureMode classifies how a step failure affects the run.
type FailureMode string

const (
	// FailureFatal aborts the run; later steps are not attempted.
	FailureFatal FailureMode = "fatal"

	// FailureSuppressed is recorded and swallowed; the run continues and
	// can still finish successfully.
	FailureSuppressed FailureMode = "suppressed"
)

// StepError represents a classified step failure.
type StepError struct {
	// Step is the name of the step that failed.
	Step string `json:"step"`

	// Mode is the failure classification.
	Mode FailureMode `json:"mode"`

	// ExitCode is the exit status of the failed command, or -1 when the
	// command could not be run at all.
	ExitCode int `json:"exit_code"`

	// Stderr holds the command's captured standard error, if any.
	Stderr string `json:"stderr,omitempty"`

	// Err is the underlying error, if the failure was not a plain
	// non-zero exit.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("step %s failed with exit code %d", e.Step, e.ExitCode)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *StepError) Unwrap() error {
	return e.Err
}

// NewFatalError creates a fatal step error for a non-zero exit.
func NewFatalError(step string, exitCode int, stderr string) *StepError {
	return &StepError{Step: step, Mode: FailureFatal, ExitCode: exitCode, Stderr: stderr}
}

// NewSuppressedError creates a suppressed step error for a non-zero exit.
func NewSuppressedError(step string, exitCode int, stderr string) *StepError {
	return &StepError{Step: step, Mode: FailureSuppressed, ExitCode: exitCode, Stderr: stderr}
}

// NewExecError creates a fatal step error for a command that could not be
// run at all (program not found, transport failure, cancellation).
func NewExecError(step string, err error) *StepError {
	return &StepError{Step: step, Mode: FailureFatal, ExitCode: -1, Err: err}
}

// IsSuppressed returns true if the error is a suppressed step failure.
func IsSuppressed(err error) bool {
	var e *StepError
	if errors.As(err, &e) {
		return e.Mode == FailureSuppressed
	}
	return false
}

// ExitCode extracts the process exit code to report for an error. The
// process exits with the exit code of whichever step aborted the run, so a
// plain non-zero exit is propagated as-is; anything else maps to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *StepError
	if errors.As(err, &e) && e.ExitCode > 0 {
		return e.ExitCode
	}
	return 1
}
