package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/publication-allocator/internal/config"
	"github.com/jakechorley/publication-allocator/pkg/core/allocator"
	"github.com/jakechorley/publication-allocator/pkg/core/model"
	"github.com/jakechorley/publication-allocator/pkg/db"
	"github.com/jakechorley/publication-allocator/pkg/loader"
	"github.com/jakechorley/publication-allocator/pkg/output"
)

// AllocateRunStore defines the database operations needed to persist an allocation run
type AllocateRunStore interface {
	InsertRun(ctx context.Context, run *db.Run) error
	InsertCheckpoints(ctx context.Context, checkpoints []db.Checkpoint) error
	InsertAcceptedPublications(ctx context.Context, accepted []db.AcceptedPublication) error
}

// AllocateOptions are the per-invocation overrides of the configured allocation settings
type AllocateOptions struct {
	// InputName identifies the dataset in the run record and the result file name
	InputName string

	// Seed overrides the configured seed when non-nil. A seed of 0 means "pick one".
	Seed *int64

	// Restarts overrides the configured restart count when positive
	Restarts int

	// XLSXPath additionally exports the outcome as a workbook when set
	XLSXPath string

	// DryRun skips the result file and the database
	DryRun bool
}

// AllocateResult is what an allocation run produced
type AllocateResult struct {
	Run        *db.Run
	Outcome    *allocator.AllocationOutcome
	Restarts   []allocator.RestartResult
	Matrix     [][]int
	ResultPath string
	XLSXPath   string
}

// AllocateFromFile loads a dataset in statement format and allocates it
func AllocateFromFile(
	ctx context.Context,
	store AllocateRunStore,
	cfg *config.Config,
	logger *zap.Logger,
	inputPath string,
	opts AllocateOptions,
) (*AllocateResult, error) {
	logger.Debug("Loading dataset", zap.String("path", inputPath))
	dataset, err := loader.LoadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	if opts.InputName == "" {
		opts.InputName = filepath.Base(inputPath)
	}

	return Allocate(ctx, store, cfg, logger, dataset, opts)
}

// Allocate runs the improvement loop over a dataset, writes the result file, optionally exports
// a workbook and records the run. store may be nil for dry runs.
func Allocate(
	ctx context.Context,
	store AllocateRunStore,
	cfg *config.Config,
	logger *zap.Logger,
	dataset model.Dataset,
	opts AllocateOptions,
) (*AllocateResult, error) {
	pool, counts, err := allocator.InitPool(dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise pool: %w", err)
	}
	logger.Debug("Pool initialised",
		zap.Int("authors", len(pool.Authors)),
		zap.Int("candidates", pool.PairCount()),
		zap.Int("employees", counts.Employees))

	allocCfg, restarts, err := buildAllocationConfig(cfg, dataset, pool, counts, opts)
	if err != nil {
		return nil, err
	}

	logger.Info("Starting allocation",
		zap.String("input", opts.InputName),
		zap.Int64("seed", allocCfg.Seed),
		zap.Int("restarts", restarts),
		zap.Float64("alpha", allocCfg.CancellationProbability))

	outcome, restartResults, err := allocator.AllocateRestarts(ctx, allocCfg, restarts)
	if err != nil {
		var invariantErr *allocator.InvariantError
		if errors.As(err, &invariantErr) {
			for _, v := range invariantErr.Violations {
				logger.Error("Allocation invariant breached",
					zap.String("constraint", v.ConstraintName),
					zap.String("author_id", v.AuthorID),
					zap.String("publication_id", v.PublicationID),
					zap.String("description", v.Description))
			}
		}
		return nil, fmt.Errorf("failed to allocate: %w", err)
	}

	for _, r := range restartResults {
		logger.Debug("Restart finished",
			zap.Int("restart", r.Restart),
			zap.Int64("seed", r.Outcome.Seed),
			zap.Float64("objective", r.Outcome.Objective),
			zap.Int("passes", r.Outcome.Passes))
	}
	for _, cp := range outcome.Checkpoints {
		logger.Debug("Checkpoint",
			zap.Int("threshold", cp.Threshold),
			zap.Int("evaluations", cp.Evaluations),
			zap.Float64("objective", cp.Objective))
	}

	matrix, err := output.BuildMatrix(dataset, outcome.Accepted)
	if err != nil {
		return nil, fmt.Errorf("failed to build matrix: %w", err)
	}

	run := &db.Run{
		ID:              uuid.New().String(),
		InputName:       opts.InputName,
		Seed:            allocCfg.Seed,
		Objective:       outcome.Objective,
		Evaluations:     outcome.Evaluations,
		Passes:          outcome.Passes,
		Restarts:        restarts,
		Alpha:           allocCfg.CancellationProbability,
		HeuristicTarget: outcome.HeuristicTarget,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	result := &AllocateResult{
		Run:      run,
		Outcome:  outcome,
		Restarts: restartResults,
		Matrix:   matrix,
	}

	logger.Info("Allocation finished",
		zap.String("run_id", run.ID),
		zap.Float64("objective", outcome.Objective),
		zap.Int("accepted", len(outcome.Accepted)),
		zap.Int("evaluations", outcome.Evaluations))

	if opts.XLSXPath != "" {
		if err := output.ExportXLSX(opts.XLSXPath, dataset, outcome); err != nil {
			return nil, fmt.Errorf("failed to export workbook: %w", err)
		}
		result.XLSXPath = opts.XLSXPath
		logger.Info("Workbook exported", zap.String("path", opts.XLSXPath))
	}

	if opts.DryRun {
		logger.Info("Dry run: result file and database skipped")
		return result, nil
	}

	result.ResultPath = resultFilePath(cfg.ResultsDir, opts.InputName, run.ID)
	if err := output.WriteResultFile(result.ResultPath, output.NewResult(outcome, matrix)); err != nil {
		return nil, fmt.Errorf("failed to write result file: %w", err)
	}
	logger.Debug("Result file written", zap.String("path", result.ResultPath))

	if err := saveRun(ctx, store, run, outcome); err != nil {
		return nil, err
	}
	logger.Debug("Run recorded", zap.String("run_id", run.ID))

	return result, nil
}

// buildAllocationConfig merges the configuration and per-run options into an allocator config.
// Returns the config and the restart count.
func buildAllocationConfig(
	cfg *config.Config,
	dataset model.Dataset,
	pool *allocator.Pool,
	counts allocator.OrgCounts,
	opts AllocateOptions,
) (allocator.AllocationConfig, int, error) {
	settings := cfg.Allocation

	selection, err := allocator.ParseInitialSelection(settings.InitialSelection)
	if err != nil {
		return allocator.AllocationConfig{}, 0, fmt.Errorf("invalid configuration: %w", err)
	}

	seed := settings.Seed
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	if seed == 0 {
		seed = allocator.NewSeed()
	}

	restarts := settings.Restarts
	if opts.Restarts > 0 {
		restarts = opts.Restarts
	}

	allocCfg := allocator.AllocationConfig{
		Pool:                    pool,
		Counts:                  counts,
		Limits:                  cfg.AllocatorLimits(),
		ThresholdMultipliers:    settings.ThresholdMultipliers,
		CancellationProbability: settings.CancellationProbability,
		HeuristicRatio:          settings.HeuristicRatio,
		HeuristicTarget:         settings.HeuristicTarget,
		PublicationCount:        dataset.TotalPublications(),
		InitialSelection:        selection,
		InitialPerAuthor:        settings.InitialPerAuthor,
		Seed:                    seed,
	}
	return allocCfg, restarts, nil
}

func saveRun(ctx context.Context, store AllocateRunStore, run *db.Run, outcome *allocator.AllocationOutcome) error {
	if err := store.InsertRun(ctx, run); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	checkpoints := make([]db.Checkpoint, 0, len(outcome.Checkpoints))
	for _, cp := range outcome.Checkpoints {
		checkpoints = append(checkpoints, db.Checkpoint{
			ID:          uuid.New().String(),
			RunID:       run.ID,
			Threshold:   cp.Threshold,
			Evaluations: cp.Evaluations,
			Objective:   cp.Objective,
		})
	}
	if err := store.InsertCheckpoints(ctx, checkpoints); err != nil {
		return fmt.Errorf("failed to insert checkpoints: %w", err)
	}

	accepted := make([]db.AcceptedPublication, 0, len(outcome.Accepted))
	for _, a := range outcome.Accepted {
		accepted = append(accepted, db.AcceptedPublication{
			ID:            uuid.New().String(),
			RunID:         run.ID,
			PublicationID: a.PublicationID,
			AuthorID:      a.AuthorID,
			IsMonograph:   a.IsMonograph,
			Points:        a.Points,
			Contribution:  a.Contribution,
		})
	}
	if err := store.InsertAcceptedPublications(ctx, accepted); err != nil {
		return fmt.Errorf("failed to insert accepted publications: %w", err)
	}

	return nil
}

// resultFilePath names result files <input stem>_<short run id>.txt
func resultFilePath(dir, inputName, runID string) string {
	stem := strings.TrimSuffix(filepath.Base(inputName), filepath.Ext(inputName))
	if stem == "" || stem == "." {
		stem = "result"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.txt", stem, shortID(runID)))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
