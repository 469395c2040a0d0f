package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/publication-allocator/pkg/core/services"
)

// AllocateCmd creates the allocate command
func AllocateCmd(app *AppContext) *cobra.Command {
	var (
		seed     int64
		restarts int
		xlsxPath string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "allocate <input_file>",
		Short: "Select the publications that maximise total points within the quotas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := services.AllocateOptions{
				Restarts: restarts,
				XLSXPath: xlsxPath,
				DryRun:   dryRun,
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seed
			}

			var store services.AllocateRunStore
			if !dryRun {
				database, err := app.Database()
				if err != nil {
					return err
				}
				store = database
			}

			result, err := services.AllocateFromFile(app.Ctx, store, app.Cfg, app.Logger, args[0], opts)
			if err != nil {
				return err
			}

			printAllocation(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for random decisions (0 picks one)")
	cmd.Flags().IntVar(&restarts, "restarts", 0, "Number of independent restarts (overrides config)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also export the outcome to this workbook")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run without writing the result file or the database")

	return cmd
}

func printAllocation(result *services.AllocateResult) {
	fmt.Printf("\n✓ Allocation finished\n\n")
	fmt.Printf("Run ID:      %s\n", result.Run.ID)
	fmt.Printf("Seed:        %d\n", result.Run.Seed)
	fmt.Printf("Objective:   %g\n", result.Outcome.Objective)
	fmt.Printf("Accepted:    %d publications\n", len(result.Outcome.Accepted))
	fmt.Printf("Evaluations: %d over %d passes\n\n", result.Outcome.Evaluations, result.Outcome.Passes)

	fmt.Printf("Checkpoints:\n")
	for _, cp := range result.Outcome.Checkpoints {
		fmt.Printf("  %8d  %g\n", cp.Threshold, cp.Objective)
	}
	fmt.Println()

	if result.ResultPath != "" {
		fmt.Printf("Result file: %s\n", result.ResultPath)
	}
	if result.XLSXPath != "" {
		fmt.Printf("Workbook:    %s\n", result.XLSXPath)
	}
}
