package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/publication-allocator/cmd/cli/commands"
	"github.com/jakechorley/publication-allocator/internal/config"
	"github.com/jakechorley/publication-allocator/pkg/utils/logging"
)

var (
	env     string
	cfgFile string
	verbose bool
	app     *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "allocator",
		Short: "Publication allocator - choose the publications an institution reports",
		Long: `A CLI tool that selects, for each author, the publications submitted for evaluation so that
total points are maximised within the per-author and organisation-wide quotas.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				app.Close()
				if app.Logger != nil {
					_ = app.Logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects allocator_config.<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (overrides the search path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")

	app = &commands.AppContext{Ctx: context.Background()}

	rootCmd.AddCommand(commands.AllocateCmd(app))
	rootCmd.AddCommand(commands.ListRunsCmd(app))
	rootCmd.AddCommand(commands.ShowRunCmd(app))
	rootCmd.AddCommand(commands.SummarizeCmd(app))
	rootCmd.AddCommand(commands.ExportCmd(app))
	rootCmd.AddCommand(commands.PublishCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger and configuration; stores and clients open lazily
func initApp() error {
	var err error
	app.Env = env

	app.Logger, err = logging.New(logging.Options{Env: env, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	if cfgFile != "" {
		app.Cfg, err = config.LoadFromPath(cfgFile)
	} else {
		app.Cfg, err = config.LoadWithEnv(env)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded",
		zap.String("storage", app.Cfg.Storage.Driver),
		zap.String("results_dir", app.Cfg.ResultsDir))

	return nil
}
