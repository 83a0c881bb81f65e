package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qkauia-guy/self-drawn/pkg/config"
	"github.com/qkauia-guy/self-drawn/pkg/release"
)

func newPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the resolved deployment steps",
		Long: `Resolve the deployment pipeline from the configuration and print
the steps in execution order, without running anything.`,
		Example: `  # Show the plan for the default config
  selfdeploy plan

  # Machine-readable output
  selfdeploy plan --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().Load(configPath)
			if err != nil {
				return err
			}

			steps := release.Steps(cfg)

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(steps)
			}

			target := "local"
			if cfg.Target != nil {
				target = fmt.Sprintf("%s@%s:%d", cfg.Target.User, cfg.Target.Host, cfg.Target.Port)
			}
			fmt.Printf("Deployment plan for %s (target: %s)\n\n", cfg.ProjectDir, target)

			for i, step := range steps {
				line := append([]string{step.Command.Name}, step.Command.Args...)
				marker := ""
				if step.BestEffort {
					marker = " (best effort)"
				}
				fmt.Printf("  %d. %s%s\n     $ %s\n", i+1, step.Name, marker, strings.Join(line, " "))
			}

			return nil
		},
	}

	return cmd
}
