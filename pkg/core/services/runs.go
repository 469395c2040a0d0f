package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/publication-allocator/pkg/db"
)

// RunReader defines the database operations needed to inspect recorded runs
type RunReader interface {
	GetRuns(ctx context.Context) ([]db.Run, error)
	GetRun(ctx context.Context, runID string) (*db.Run, error)
	GetCheckpoints(ctx context.Context, runID string) ([]db.Checkpoint, error)
	GetAcceptedPublications(ctx context.Context, runID string) ([]db.AcceptedPublication, error)
}

// RunDetails is a recorded run with its checkpoints and accepted publications
type RunDetails struct {
	Run         *db.Run
	Checkpoints []db.Checkpoint
	Accepted    []db.AcceptedPublication
}

// ListRuns returns every recorded run, newest first
func ListRuns(ctx context.Context, store RunReader, logger *zap.Logger) ([]db.Run, error) {
	logger.Debug("Fetching runs")
	runs, err := store.GetRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}
	logger.Debug("Found runs", zap.Int("count", len(runs)))
	return runs, nil
}

// ShowRun loads a run with its results. An empty runID selects the latest run.
func ShowRun(ctx context.Context, store RunReader, logger *zap.Logger, runID string) (*RunDetails, error) {
	run, err := resolveRun(ctx, store, logger, runID)
	if err != nil {
		return nil, err
	}

	checkpoints, err := store.GetCheckpoints(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch checkpoints: %w", err)
	}

	accepted, err := store.GetAcceptedPublications(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accepted publications: %w", err)
	}

	logger.Debug("Run loaded",
		zap.String("run_id", run.ID),
		zap.Int("checkpoints", len(checkpoints)),
		zap.Int("accepted", len(accepted)))

	return &RunDetails{
		Run:         run,
		Checkpoints: checkpoints,
		Accepted:    accepted,
	}, nil
}

func resolveRun(ctx context.Context, store RunReader, logger *zap.Logger, runID string) (*db.Run, error) {
	if runID != "" {
		run, err := store.GetRun(ctx, runID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch run %s: %w", runID, err)
		}
		return run, nil
	}

	runs, err := store.GetRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs found")
	}

	latest := runs[0]
	for _, r := range runs[1:] {
		if r.CreatedAt > latest.CreatedAt {
			latest = r
		}
	}
	logger.Debug("Defaulting to latest run", zap.String("run_id", latest.ID))
	return &latest, nil
}
