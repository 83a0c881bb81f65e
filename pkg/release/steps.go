// Package release builds the concrete deployment pipeline for a
// Django-style project: dependency installation, static asset collection,
// schema migration, and best-effort superuser provisioning.
package release

import (
	"github.com/qkauia-guy/self-drawn/pkg/config"
	"github.com/qkauia-guy/self-drawn/pkg/pipeline"
	"github.com/qkauia-guy/self-drawn/pkg/runners"
)

// Step names, also used as metric and journal labels.
const (
	StepInstallDependencies = "install-dependencies"
	StepCollectStatic       = "collect-static"
	StepApplyMigrations     = "apply-migrations"
	StepCreateSuperuser     = "create-superuser"
)

// Steps builds the ordered deployment pipeline from the configuration.
//
// The order is fixed: dependencies must be installed before the management
// subcommands can run, and migrations must be applied before a superuser
// can be written to the auth tables.
func Steps(cfg *config.DeployConfig) []pipeline.Step {
	steps := []pipeline.Step{
		{
			Name: StepInstallDependencies,
			Command: runners.Command{
				Name: cfg.Pip,
				Args: []string{"install", "-r", cfg.Manifest},
				Dir:  cfg.ProjectDir,
				Env:  cfg.Env,
			},
			Timeout: cfg.StepTimeout.Std(),
		},
		{
			Name: StepCollectStatic,
			Command: runners.Command{
				Name: cfg.Python,
				Args: []string{cfg.Manage, "collectstatic", "--noinput"},
				Dir:  cfg.ProjectDir,
				Env:  cfg.Env,
			},
			Timeout: cfg.StepTimeout.Std(),
		},
		{
			Name: StepApplyMigrations,
			Command: runners.Command{
				Name: cfg.Python,
				Args: []string{cfg.Manage, "migrate"},
				Dir:  cfg.ProjectDir,
				Env:  cfg.Env,
			},
			Timeout: cfg.StepTimeout.Std(),
		},
	}

	if cfg.Superuser.Enabled {
		// Best effort: a pre-existing superuser must not fail the deploy.
		// Credentials come from pre-set DJANGO_SUPERUSER_* variables.
		steps = append(steps, pipeline.Step{
			Name: StepCreateSuperuser,
			Command: runners.Command{
				Name: cfg.Python,
				Args: []string{cfg.Manage, "createsuperuser", "--noinput"},
				Dir:  cfg.ProjectDir,
				Env:  cfg.Env,
			},
			BestEffort: true,
			Timeout:    cfg.StepTimeout.Std(),
		})
	}

	return steps
}
