package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/publication-allocator/pkg/core/services"
)

// PublishCmd creates the publish command
func PublishCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish [run_id]",
		Short: "Publish a run to the configured Google spreadsheet (defaults to latest run)",
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

			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			title, err := services.PublishRun(app.Ctx, database, client, app.Cfg, app.Logger, runID)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Run published to tab %q\n\n", title)
			return nil
		},
	}
}
