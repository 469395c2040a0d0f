package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/publication-allocator/pkg/core/allocator"
	"github.com/jakechorley/publication-allocator/pkg/loader"
	"github.com/jakechorley/publication-allocator/pkg/output"
)

// ExportRun rebuilds a recorded run against its input dataset and writes it as a workbook.
// An empty runID exports the latest run.
func ExportRun(
	ctx context.Context,
	store RunReader,
	logger *zap.Logger,
	inputPath string,
	runID string,
	xlsxPath string,
) error {
	details, err := ShowRun(ctx, store, logger, runID)
	if err != nil {
		return err
	}

	dataset, err := loader.LoadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	outcome := &allocator.AllocationOutcome{
		Accepted:        make([]allocator.AcceptedPublication, 0, len(details.Accepted)),
		Checkpoints:     make([]allocator.Checkpoint, 0, len(details.Checkpoints)),
		Objective:       details.Run.Objective,
		Evaluations:     details.Run.Evaluations,
		Passes:          details.Run.Passes,
		Seed:            details.Run.Seed,
		HeuristicTarget: details.Run.HeuristicTarget,
	}
	for _, a := range details.Accepted {
		// indexes are resolved from the dataset by id
		outcome.Accepted = append(outcome.Accepted, allocator.AcceptedPublication{
			PublicationID:  a.PublicationID,
			AuthorID:       a.AuthorID,
			AuthorIndex:    -1,
			CatalogueIndex: -1,
			IsMonograph:    a.IsMonograph,
			Points:         a.Points,
			Contribution:   a.Contribution,
		})
	}
	for _, cp := range details.Checkpoints {
		outcome.Checkpoints = append(outcome.Checkpoints, allocator.Checkpoint{
			Threshold:   cp.Threshold,
			Evaluations: cp.Evaluations,
			Objective:   cp.Objective,
		})
	}

	if err := output.ExportXLSX(xlsxPath, dataset, outcome); err != nil {
		return fmt.Errorf("failed to export run %s: %w", details.Run.ID, err)
	}

	logger.Info("Run exported",
		zap.String("run_id", details.Run.ID),
		zap.String("path", xlsxPath))
	return nil
}
