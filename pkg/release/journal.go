package release

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/qkauia-guy/self-drawn/pkg/pipeline"
	"github.com/qkauia-guy/self-drawn/pkg/stores"
	"github.com/qkauia-guy/self-drawn/pkg/telemetry"
)

// Recorder observes a pipeline run and records it in the journal store and
// the metrics collector. Either sink may be nil. Journal write failures are
// logged and never fail the deploy.
type Recorder struct {
	ctx     context.Context
	store   stores.Store
	metrics *telemetry.Metrics
	logger  zerolog.Logger
	project string
	target  string
}

// NewRecorder creates a recorder for a single deploy. ctx bounds the
// journal writes, which happen inline on the execution path.
func NewRecorder(ctx context.Context, store stores.Store, metrics *telemetry.Metrics, logger zerolog.Logger, project, target string) *Recorder {
	return &Recorder{
		ctx:     ctx,
		store:   store,
		metrics: metrics,
		logger:  logger.With().Str("component", "journal").Logger(),
		project: project,
		target:  target,
	}
}

// RunStarted journals the run in its initial running state.
func (r *Recorder) RunStarted(run *pipeline.Run) {
	if r.metrics != nil {
		r.metrics.RecordDeployStarted(r.target)
	}

	if r.store == nil {
		return
	}

	now := time.Now()
	err := r.store.CreateRun(r.ctx, &stores.Run{
		ID:        run.ID,
		Project:   r.project,
		Target:    r.target,
		Status:    stores.RunStatusRunning,
		StartedAt: run.StartedAt,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("run_id", run.ID).Msg("failed to journal run")
	}
}

// StepStarted is part of the Observer interface; journaling happens on
// completion.
func (r *Recorder) StepStarted(*pipeline.Run, pipeline.Step) {}

// StepCompleted records step metrics and journals the result.
func (r *Recorder) StepCompleted(run *pipeline.Run, result pipeline.StepResult) {
	if r.metrics != nil {
		r.metrics.RecordStepExecution(result.Name, string(result.Status), result.Duration)
		if result.Status == pipeline.StepStatusSuppressed {
			r.metrics.RecordSuppressedFailure(result.Name)
		}
	}

	if r.store == nil {
		return
	}

	// The result carries the command even for skipped steps, so the
	// journal always shows what would have run.
	parts := append([]string{result.Command.Name}, result.Command.Args...)
	record := &stores.StepResult{
		ID:        result.ID,
		RunID:     run.ID,
		Name:      result.Name,
		Command:   strings.Join(parts, " "),
		Status:    string(result.Status),
		ExitCode:  result.ExitCode,
		StartedAt: result.StartedAt,
		CreatedAt: time.Now(),
	}
	if !result.CompletedAt.IsZero() {
		completedAt := result.CompletedAt
		record.CompletedAt = &completedAt
	}
	if result.Stderr != "" {
		stderr := result.Stderr
		record.Stderr = &stderr
	}

	if err := r.store.CreateStepResult(r.ctx, record); err != nil {
		r.logger.Warn().Err(err).Str("step", result.Name).Msg("failed to journal step result")
	}
}

// RunCompleted records deploy metrics and journals the final status.
func (r *Recorder) RunCompleted(run *pipeline.Run) {
	if r.metrics != nil {
		r.metrics.RecordDeployCompleted(string(run.Status), run.Duration)
	}

	if r.store == nil {
		return
	}

	var errMsg *string
	for _, step := range run.Steps {
		if step.Status == pipeline.StepStatusFailed && step.Err != nil {
			msg := step.Err.Error()
			errMsg = &msg
			break
		}
	}

	status := stores.RunStatusSucceeded
	if run.Status == pipeline.RunStatusFailed {
		status = stores.RunStatusFailed
	}

	if err := r.store.UpdateRunStatus(r.ctx, run.ID, status, run.Suppressed, errMsg); err != nil {
		r.logger.Warn().Err(err).Str("run_id", run.ID).Msg("failed to journal run status")
	}
}
