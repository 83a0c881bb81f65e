package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/qkauia-guy/self-drawn/pkg/config"
	"github.com/qkauia-guy/self-drawn/pkg/pipeline"
	"github.com/qkauia-guy/self-drawn/pkg/release"
	"github.com/qkauia-guy/self-drawn/pkg/runners"
	"github.com/qkauia-guy/self-drawn/pkg/stores"
	"github.com/qkauia-guy/self-drawn/pkg/telemetry"
	"github.com/qkauia-guy/self-drawn/pkg/transports/ssh"
)

func newDeployCommand() *cobra.Command {
	var (
		dryRun    bool
		noJournal bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Run the deployment pipeline",
		Long: `Run the deployment pipeline against the configured target.

This command:
  - Installs dependencies from the manifest
  - Collects static assets
  - Applies database migrations
  - Creates the superuser (best effort)

Any failure before the superuser step aborts the run immediately and the
process exits with the failed step's exit code. A superuser step failure
is logged and suppressed.`,
		Example: `  # Deploy with the default config file
  selfdeploy deploy

  # Show what would run without executing
  selfdeploy deploy --dry-run

  # Deploy without recording to the journal
  selfdeploy deploy --no-journal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().Load(configPath)
			if err != nil {
				return err
			}

			rt, err := newDeployRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.shutdown()

			opts := deployOptions{
				dryRun:    dryRun,
				noJournal: noJournal,
			}
			return runDeploy(cmd.Context(), cfg, rt, opts)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log the resolved steps without executing")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "skip journal recording for this run")

	return cmd
}

type deployOptions struct {
	dryRun    bool
	noJournal bool
}

// deployRuntime holds the per-process telemetry shared by every deploy the
// process runs. The watch command reuses one runtime across redeploys so
// the metrics listener is bound exactly once.
type deployRuntime struct {
	logger  zerolog.Logger
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
}

func newDeployRuntime(cfg *config.DeployConfig) (*deployRuntime, error) {
	logger, err := telemetry.NewLogger(cfg.Telemetry.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	metrics, err := telemetry.NewMetrics(cfg.Telemetry.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	if err := metrics.StartMetricsServer(); err != nil {
		return nil, fmt.Errorf("failed to start metrics server: %w", err)
	}

	tracer, err := telemetry.NewTracer(
		cfg.Telemetry.Tracing,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.ServiceVersion,
		cfg.Telemetry.Environment,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	return &deployRuntime{
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}, nil
}

func (rt *deployRuntime) shutdown() {
	if err := rt.tracer.Shutdown(context.Background()); err != nil {
		rt.logger.Warn().Err(err).Msg("tracer shutdown failed")
	}
}

// runDeploy wires the journal and the execution backend, then runs the
// pipeline. Shared by the deploy and watch commands.
func runDeploy(ctx context.Context, cfg *config.DeployConfig, rt *deployRuntime, opts deployOptions) error {
	logger := rt.logger

	target := "local"
	if cfg.Target != nil {
		target = cfg.Target.Host
	}

	// Journal store
	var store stores.Store
	if cfg.Journal.Enabled && !opts.noJournal && !opts.dryRun {
		sqlStore, err := stores.NewSQLiteStore(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("failed to create journal: %w", err)
		}
		if err := sqlStore.Init(ctx); err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer sqlStore.Close()
		if err := sqlStore.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate journal: %w", err)
		}
		store = sqlStore
	}

	// Execution backend
	var (
		exec       runners.CommandRunner
		fileWriter release.FileWriter
	)
	if cfg.Target != nil {
		client, err := sshClientFromConfig(cfg.Target)
		if err != nil {
			return err
		}
		if !opts.dryRun {
			if err := client.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect to %s: %w", cfg.Target.Host, err)
			}
			defer func() {
				if err := client.Disconnect(); err != nil {
					logger.Warn().Err(err).Msg("disconnect failed")
				}
			}()
		}
		exec = runners.NewSSHRunner(client)
		fileWriter = client
	} else {
		exec = runners.NewLocalRunner(cfg.ProjectDir)
		fileWriter = release.LocalFileWriter{}
	}

	steps := release.Steps(cfg)
	recorder := release.NewRecorder(ctx, store, rt.metrics, logger, cfg.ProjectDir, target)

	spanCtx, span := rt.tracer.StartDeploySpan(ctx, target)
	observer := pipeline.MultiObserver{recorder, newSpanObserver(rt.tracer, spanCtx)}
	runner := pipeline.NewRunner(exec, logger, observer)

	run, runErr := runner.Run(spanCtx, steps, pipeline.Options{DryRun: opts.dryRun})
	if run != nil {
		telemetry.SetRunID(span, run.ID)
	}
	if runErr != nil {
		telemetry.RecordError(span, runErr)
	} else {
		telemetry.RecordSuccess(span)
	}
	span.End()

	if runErr == nil && !opts.dryRun && cfg.Release.RecordPath != "" {
		recordPath := cfg.Release.RecordPath
		if cfg.Target == nil && !filepath.IsAbs(recordPath) {
			recordPath = filepath.Join(cfg.ProjectDir, recordPath)
		}
		record := release.NewRecord(run, cfg.ProjectDir, target)
		if err := record.Write(ctx, fileWriter, recordPath); err != nil {
			// The deploy itself succeeded; a missing marker is not fatal.
			logger.Warn().Err(err).Str("path", recordPath).Msg("failed to write release record")
		}
	}

	logRunSummary(logger, run)
	return runErr
}

// spanObserver emits one tracing span per executed step, parented to the
// deploy span.
type spanObserver struct {
	tracer *telemetry.Tracer
	ctx    context.Context
	spans  map[string]trace.Span
}

func newSpanObserver(tracer *telemetry.Tracer, ctx context.Context) *spanObserver {
	return &spanObserver{
		tracer: tracer,
		ctx:    ctx,
		spans:  make(map[string]trace.Span),
	}
}

func (o *spanObserver) RunStarted(*pipeline.Run) {}

func (o *spanObserver) StepStarted(run *pipeline.Run, step pipeline.Step) {
	_, span := o.tracer.StartStepSpan(o.ctx, run.ID, step.Name)
	o.spans[step.Name] = span
}

func (o *spanObserver) StepCompleted(_ *pipeline.Run, result pipeline.StepResult) {
	// Skipped steps were never started and have no span.
	span, ok := o.spans[result.Name]
	if !ok {
		return
	}
	delete(o.spans, result.Name)

	if result.Status == pipeline.StepStatusFailed && result.Err != nil {
		telemetry.RecordError(span, result.Err)
	} else {
		telemetry.RecordSuccess(span)
	}
	span.End()
}

func (o *spanObserver) RunCompleted(*pipeline.Run) {}

// sshClientFromConfig maps the deploy target config to the SSH transport.
func sshClientFromConfig(target *config.TargetConfig) (*ssh.Client, error) {
	sshCfg := &ssh.Config{
		Host:                  target.Host,
		Port:                  target.Port,
		User:                  target.User,
		AuthMethod:            ssh.AuthMethod(target.AuthMethod),
		Password:              target.Password,
		PrivateKeyPath:        target.PrivateKeyPath,
		PrivateKeyPassphrase:  target.PrivateKeyPassphrase,
		KnownHostsPath:        target.KnownHostsPath,
		StrictHostKeyChecking: target.StrictHostKeyChecking,
		ConnectionTimeout:     target.ConnectTimeout.Std(),
	}

	client, err := ssh.NewClient(sshCfg)
	if err != nil {
		return nil, fmt.Errorf("invalid target config: %w", err)
	}
	return client, nil
}

// logRunSummary logs one line per step plus the final outcome.
func logRunSummary(logger zerolog.Logger, run *pipeline.Run) {
	if run == nil {
		return
	}
	for _, step := range run.Steps {
		logger.Info().
			Str("run_id", run.ID).
			Str("step", step.Name).
			Str("status", string(step.Status)).
			Int("exit_code", step.ExitCode).
			Msg("step result")
	}
	logger.Info().
		Str("run_id", run.ID).
		Str("status", string(run.Status)).
		Int("suppressed", run.Suppressed).
		Dur("duration", run.Duration).
		Msg("deploy finished")
}
