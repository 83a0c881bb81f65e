package commands

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/qkauia-guy/self-drawn/pkg/config"
	"github.com/qkauia-guy/self-drawn/pkg/release"
)

func newWatchCommand() *cobra.Command {
	var (
		debounce  time.Duration
		deployNow bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Redeploy when the manifest or config changes",
		Long: `Watch the dependency manifest and the deploy configuration, and run
the deployment pipeline after each change. Intended for development
environments; a failed deploy is logged and watching continues.`,
		Example: `  # Watch and redeploy on change
  selfdeploy watch

  # Deploy immediately, then watch
  selfdeploy watch --deploy-now`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().Load(configPath)
			if err != nil {
				return err
			}

			// One runtime for the whole watch session: redeploys must not
			// rebind the metrics listener.
			rt, err := newDeployRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.shutdown()

			opts := deployOptions{noJournal: false}

			if deployNow {
				if err := runDeploy(cmd.Context(), cfg, rt, opts); err != nil {
					log.Error().Err(err).Msg("initial deploy failed")
				}
			}

			paths := []string{
				configPath,
				filepath.Join(cfg.ProjectDir, cfg.Manifest),
			}

			watcher := release.NewWatcher(log.Logger, debounce)
			err = watcher.Watch(cmd.Context(), paths, func(ctx context.Context) {
				// Reload so config edits take effect on the next deploy.
				freshCfg, err := config.NewLoader().Load(configPath)
				if err != nil {
					log.Error().Err(err).Msg("config reload failed, skipping deploy")
					return
				}
				if err := runDeploy(ctx, freshCfg, rt, opts); err != nil {
					log.Error().Err(err).Msg("deploy failed, still watching")
				}
			})

			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 2*time.Second, "quiet period before redeploying")
	cmd.Flags().BoolVar(&deployNow, "deploy-now", false, "run a deploy immediately before watching")

	return cmd
}
