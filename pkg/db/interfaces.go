package db

import "context"

// RunStore defines the interface for run database operations
type RunStore interface {
	InsertRun(ctx context.Context, run *Run) error
	GetRuns(ctx context.Context) ([]Run, error)
	GetRun(ctx context.Context, runID string) (*Run, error)
}

// ResultStore defines the interface for per-run result database operations
type ResultStore interface {
	InsertCheckpoints(ctx context.Context, checkpoints []Checkpoint) error
	InsertAcceptedPublications(ctx context.Context, accepted []AcceptedPublication) error
	GetCheckpoints(ctx context.Context, runID string) ([]Checkpoint, error)
	GetAcceptedPublications(ctx context.Context, runID string) ([]AcceptedPublication, error)
}

// Database defines the interface for all database operations.
// Both postgres.DB and sqlite.DB implement this interface.
type Database interface {
	RunStore
	ResultStore
	RunMigrations(ctx context.Context) error
	Close()
}
