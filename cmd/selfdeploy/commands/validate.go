package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/qkauia-guy/self-drawn/pkg/config"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the deploy configuration",
		Long: `Parse and validate the deploy configuration file without running
anything. Exits non-zero if the configuration is invalid.`,
		Example: `  # Validate the default config file
  selfdeploy validate

  # Validate a specific file
  selfdeploy validate -c deploy/staging.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().Load(configPath)
			if err != nil {
				return err
			}

			log.Info().
				Str("config", configPath).
				Str("project_dir", cfg.ProjectDir).
				Bool("remote", cfg.Target != nil).
				Msg("configuration is valid")

			fmt.Printf("%s: OK\n", configPath)
			return nil
		},
	}

	return cmd
}
