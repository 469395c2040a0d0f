package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/publication-allocator/internal/config"
	"github.com/jakechorley/publication-allocator/pkg/clients/sheetsclient"
	"github.com/jakechorley/publication-allocator/pkg/db"
	"github.com/jakechorley/publication-allocator/pkg/postgres"
	"github.com/jakechorley/publication-allocator/pkg/sqlite"
)

// AppContext holds the application dependencies shared across all commands.
// The database and the Sheets client are opened on first use so commands that do not
// need them (dry runs, summaries) work without credentials.
type AppContext struct {
	Env    string
	Cfg    *config.Config
	Logger *zap.Logger
	Ctx    context.Context

	database     db.Database
	sheetsClient *sheetsclient.Client
}

// Database opens the configured store on first use
func (a *AppContext) Database() (db.Database, error) {
	if a.database != nil {
		return a.database, nil
	}

	a.Logger.Info("Connecting to database", zap.String("driver", a.Cfg.Storage.Driver))
	database, err := OpenDatabase(a.Ctx, a.Cfg.Storage)
	if err != nil {
		return nil, err
	}

	if a.Cfg.Storage.AutoMigrate {
		a.Logger.Debug("Applying pending migrations")
		if err := database.RunMigrations(a.Ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	a.database = database
	return database, nil
}

// SheetsClient authenticates against Google on first use
func (a *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if a.sheetsClient != nil {
		return a.sheetsClient, nil
	}

	a.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	a.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(a.Ctx, oauthCfg, a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	a.sheetsClient = client
	return client, nil
}

// Close releases the database if it was opened
func (a *AppContext) Close() {
	if a.database != nil {
		a.database.Close()
		a.database = nil
	}
}

// OpenDatabase connects to the store selected by storage.driver
func OpenDatabase(ctx context.Context, storage config.StorageSettings) (db.Database, error) {
	switch storage.Driver {
	case "postgres":
		database, err := postgres.NewDB(ctx, storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return database, nil
	case "sqlite":
		database, err := sqlite.NewDB(ctx, storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return database, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", storage.Driver)
	}
}
