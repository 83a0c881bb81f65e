package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/qkauia-guy/self-drawn/pkg/config"
	"github.com/qkauia-guy/self-drawn/pkg/stores"
)

func newHistoryCommand() *cobra.Command {
	var (
		limit int
		runID string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past deployment runs from the journal",
		Long: `List deployment runs recorded in the local journal, most recent
first. With --run, show the step results of a single run instead.`,
		Example: `  # List the last 20 runs
  selfdeploy history

  # Show the steps of one run
  selfdeploy history --run 2f1c9b3a-...

  # Machine-readable output
  selfdeploy history --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().Load(configPath)
			if err != nil {
				return err
			}
			if !cfg.Journal.Enabled {
				return fmt.Errorf("journal is disabled in %s", configPath)
			}

			store, err := stores.NewSQLiteStore(cfg.Journal.Path)
			if err != nil {
				return err
			}
			if err := store.Init(cmd.Context()); err != nil {
				return err
			}
			defer store.Close()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			if runID != "" {
				return showRun(cmd, store, runID)
			}
			return listRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	cmd.Flags().StringVar(&runID, "run", "", "show step results for a single run")

	return cmd
}

func listRuns(cmd *cobra.Command, store stores.Store, limit int) error {
	runs, err := store.ListRuns(cmd.Context(), limit, 0)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	for _, run := range runs {
		completed := "-"
		if run.CompletedAt != nil {
			completed = run.CompletedAt.Format(time.RFC3339)
		}
		fmt.Printf("%s  %-9s  target=%s  suppressed=%d  started=%s  completed=%s\n",
			run.ID, run.Status, run.Target, run.Suppressed,
			run.StartedAt.Format(time.RFC3339), completed)
	}

	return nil
}

func showRun(cmd *cobra.Command, store stores.Store, runID string) error {
	run, err := store.GetRun(cmd.Context(), runID)
	if err != nil {
		return err
	}

	results, err := store.ListStepResultsByRun(cmd.Context(), runID)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Run   *stores.Run          `json:"run"`
			Steps []*stores.StepResult `json:"steps"`
		}{run, results})
	}

	fmt.Printf("run %s  status=%s  target=%s  suppressed=%d\n\n",
		run.ID, run.Status, run.Target, run.Suppressed)

	for _, r := range results {
		fmt.Printf("  %-22s %-10s exit=%d  $ %s\n", r.Name, r.Status, r.ExitCode, r.Command)
		if r.Stderr != nil && *r.Stderr != "" {
			fmt.Printf("      stderr: %s\n", *r.Stderr)
		}
	}

	return nil
}
