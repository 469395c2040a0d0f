package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := OpenDatabase(app.Ctx, app.Cfg.Storage)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.RunMigrations(app.Ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			fmt.Printf("\n✓ %s database is up to date\n\n", app.Cfg.Storage.Driver)
			return nil
		},
	}
}
