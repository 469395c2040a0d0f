package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jakechorley/publication-allocator/pkg/core/services"
)

// SummarizeCmd creates the summarize command
func SummarizeCmd(app *AppContext) *cobra.Command {
	var appendTo string

	cmd := &cobra.Command{
		Use:   "summarize [results_dir]",
		Short: "Find the best final goal across result files and list per-threshold objectives",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := app.Cfg.ResultsDir
			if len(args) > 0 {
				dir = args[0]
			}

			summary, err := services.SummarizeResults(dir, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n%d result files in %s\n", summary.Files, summary.Dir)
			fmt.Printf("Best: %s (final goal %g)\n\n", summary.BestFile, summary.BestObjective)

			fmt.Printf("%-32s %10s %12s\n", "file", "threshold", "objective")
			for _, p := range summary.Scatter {
				fmt.Printf("%-32s %10d %12g\n", p.File, p.Threshold, p.Objective)
			}
			fmt.Println()

			if appendTo == "" {
				return nil
			}

			f, err := os.OpenFile(appendTo, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open summary file: %w", err)
			}
			defer f.Close()

			if err := services.WriteSummary(f, summary); err != nil {
				return fmt.Errorf("failed to write summary: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&appendTo, "append-to", "", "Append the best result to this summary file")

	return cmd
}
