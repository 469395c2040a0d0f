package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/publication-allocator/pkg/core/services"
)

// ListRunsCmd creates the runs command
func ListRunsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List recorded allocation runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := app.Database()
			if err != nil {
				return err
			}

			runs, err := services.ListRuns(app.Ctx, database, app.Logger)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}

			fmt.Printf("\nFound %d runs:\n\n", len(runs))
			for _, r := range runs {
				fmt.Printf("- %s  %s  %-24s objective=%g seed=%d restarts=%d\n",
					r.ID, r.CreatedAt, r.InputName, r.Objective, r.Seed, r.Restarts)
			}
			return nil
		},
	}
}

// ShowRunCmd creates the show command
func ShowRunCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "Show a run's checkpoints and accepted publications (defaults to latest run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var runID string
			if len(args) > 0 {
				runID = args[0]
			}

			database, err := app.Database()
			if err != nil {
				return err
			}

			details, err := services.ShowRun(app.Ctx, database, app.Logger, runID)
			if err != nil {
				return err
			}

			run := details.Run
			fmt.Printf("\nRun %s (%s)\n", run.ID, run.InputName)
			fmt.Printf("Created:     %s\n", run.CreatedAt)
			fmt.Printf("Objective:   %g\n", run.Objective)
			fmt.Printf("Seed:        %d\n", run.Seed)
			fmt.Printf("Evaluations: %d over %d passes\n\n", run.Evaluations, run.Passes)

			fmt.Printf("Checkpoints:\n")
			for _, cp := range details.Checkpoints {
				fmt.Printf("  %8d  %g\n", cp.Threshold, cp.Objective)
			}

			fmt.Printf("\nAccepted publications (%d):\n", len(details.Accepted))
			for _, a := range details.Accepted {
				monograph := ""
				if a.IsMonograph {
					monograph = " [monograph]"
				}
				fmt.Printf("  %-16s %-16s points=%g contribution=%g%s\n",
					a.AuthorID, a.PublicationID, a.Points, a.Contribution, monograph)
			}
			fmt.Println()
			return nil
		},
	}
}
