package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/publication-allocator/pkg/core/services"
)

// ExportCmd creates the export command
func ExportCmd(app *AppContext) *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "export <input_file> <xlsx_file>",
		Short: "Export a recorded run as an author × publication workbook (defaults to latest run)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := app.Database()
			if err != nil {
				return err
			}

			if err := services.ExportRun(app.Ctx, database, app.Logger, args[0], runID, args[1]); err != nil {
				return err
			}

			fmt.Printf("\n✓ Workbook written to %s\n\n", args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run ID to export")

	return cmd
}
