package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qkauia-guy/self-drawn/pkg/runners"
)

// Runner executes pipelines sequentially against a command runner.
type Runner struct {
	exec     runners.CommandRunner
	logger   zerolog.Logger
	observer Observer
}

// Options control a single pipeline execution.
type Options struct {
	// DryRun logs the resolved steps without executing anything.
	DryRun bool
}

// NewRunner creates a pipeline runner. observer may be nil.
func NewRunner(exec runners.CommandRunner, logger zerolog.Logger, observer Observer) *Runner {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Runner{
		exec:     exec,
		logger:   logger.With().Str("component", "pipeline").Logger(),
		observer: observer,
	}
}

// Run executes the steps in order. It returns the run record and, for a
// fatal step failure, the *StepError that aborted the run. Suppressed
// failures never produce an error return.
func (r *Runner) Run(ctx context.Context, steps []Step, opts Options) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Status:    RunStatusRunning,
		StartedAt: time.Now(),
		Steps:     make([]StepResult, 0, len(steps)),
	}

	logger := r.logger.With().Str("run_id", run.ID).Logger()
	logger.Info().Int("steps", len(steps)).Bool("dry_run", opts.DryRun).Msg("run started")

	r.observer.RunStarted(run)

	var runErr error

	for _, step := range steps {
		if runErr != nil {
			// A fatal failure happened earlier: record the remaining
			// steps as skipped without executing them.
			result := r.skippedResult(step)
			run.Steps = append(run.Steps, result)
			r.observer.StepCompleted(run, result)
			continue
		}

		select {
		case <-ctx.Done():
			result := StepResult{
				ID:        uuid.New().String(),
				Name:      step.Name,
				Command:   step.Command,
				Status:    StepStatusFailed,
				ExitCode:  -1,
				StartedAt: time.Now(),
				Err:       NewExecError(step.Name, ctx.Err()),
			}
			result.CompletedAt = result.StartedAt
			run.Steps = append(run.Steps, result)
			r.observer.StepCompleted(run, result)
			runErr = result.Err
			continue
		default:
		}

		var result StepResult
		if opts.DryRun {
			result = r.dryRunResult(run, step)
		} else {
			result = r.executeStep(ctx, logger, run, step)
		}
		run.Steps = append(run.Steps, result)
		r.observer.StepCompleted(run, result)

		switch result.Status {
		case StepStatusFailed:
			runErr = result.Err
		case StepStatusSuppressed:
			run.Suppressed++
		}
	}

	run.CompletedAt = time.Now()
	run.Duration = run.CompletedAt.Sub(run.StartedAt)
	if runErr != nil {
		run.Status = RunStatusFailed
	} else {
		run.Status = RunStatusSucceeded
	}

	r.observer.RunCompleted(run)

	if runErr != nil {
		logger.Error().Err(runErr).Dur("duration", run.Duration).Msg("run failed")
	} else {
		logger.Info().
			Dur("duration", run.Duration).
			Int("suppressed", run.Suppressed).
			Msg("run completed")
	}

	return run, runErr
}

// executeStep runs a single step and classifies the outcome.
func (r *Runner) executeStep(ctx context.Context, logger zerolog.Logger, run *Run, step Step) StepResult {
	result := StepResult{
		ID:        uuid.New().String(),
		Name:      step.Name,
		Command:   step.Command,
		Status:    StepStatusRunning,
		StartedAt: time.Now(),
	}

	stepLogger := logger.With().Str("step", step.Name).Logger()
	stepLogger.Info().
		Str("command", step.Command.Name).
		Strs("args", step.Command.Args).
		Msg("step started")

	r.observer.StepStarted(run, step)

	execCtx := ctx
	if step.Timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, step.Timeout)
		defer cancel()
	}

	execResult, err := r.exec.Run(execCtx, step.Command)

	result.CompletedAt = time.Now()
	result.Duration = result.CompletedAt.Sub(result.StartedAt)

	if err != nil {
		// The command could not be run at all. Best-effort steps swallow
		// this too: only the outcome matters, not the failure shape.
		if step.BestEffort {
			result.Status = StepStatusSuppressed
			result.ExitCode = -1
			result.Err = &StepError{Step: step.Name, Mode: FailureSuppressed, ExitCode: -1, Err: err}
			stepLogger.Warn().Err(err).Msg("step failed, continuing (best effort)")
			return result
		}
		result.Status = StepStatusFailed
		result.ExitCode = -1
		result.Err = NewExecError(step.Name, err)
		stepLogger.Error().Err(err).Msg("step failed")
		return result
	}

	result.ExitCode = execResult.ExitCode
	result.Stdout = execResult.Stdout
	result.Stderr = execResult.Stderr

	if execResult.ExitCode != 0 {
		if step.BestEffort {
			result.Status = StepStatusSuppressed
			result.Err = NewSuppressedError(step.Name, execResult.ExitCode, execResult.Stderr)
			stepLogger.Warn().
				Int("exit_code", execResult.ExitCode).
				Msg("step failed, continuing (best effort)")
			return result
		}
		result.Status = StepStatusFailed
		result.Err = NewFatalError(step.Name, execResult.ExitCode, execResult.Stderr)
		stepLogger.Error().
			Int("exit_code", execResult.ExitCode).
			Str("stderr", execResult.Stderr).
			Msg("step failed")
		return result
	}

	result.Status = StepStatusSucceeded
	stepLogger.Info().Dur("duration", result.Duration).Msg("step completed")
	return result
}

// dryRunResult simulates a successful step execution.
func (r *Runner) dryRunResult(run *Run, step Step) StepResult {
	r.observer.StepStarted(run, step)
	now := time.Now()
	return StepResult{
		ID:          uuid.New().String(),
		Name:        step.Name,
		Command:     step.Command,
		Status:      StepStatusSucceeded,
		StartedAt:   now,
		CompletedAt: now,
	}
}

// skippedResult records a step that was never attempted.
func (r *Runner) skippedResult(step Step) StepResult {
	now := time.Now()
	return StepResult{
		ID:          uuid.New().String(),
		Name:        step.Name,
		Command:     step.Command,
		Status:      StepStatusSkipped,
		ExitCode:    -1,
		StartedAt:   now,
		CompletedAt: now,
	}
}
