package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/publication-allocator/pkg/output"
)

// ScatterPoint is one (threshold, objective) observation from a result file
type ScatterPoint struct {
	File      string
	Threshold int
	Objective float64
}

// ResultsSummary describes every result file of a directory
type ResultsSummary struct {
	Dir string

	// BestFile is the file with the highest final goal (first one on ties). Empty when
	// no file has a positive final goal.
	BestFile      string
	BestObjective float64

	Files   int
	Scatter []ScatterPoint
}

// SummarizeResults reads every .txt result file in dir, in name order, and finds the best
// final goal plus the per-threshold objectives of all runs
func SummarizeResults(dir string, logger *zap.Logger) (*ResultsSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	summary := &ResultsSummary{
		Dir:     dir,
		Scatter: []ScatterPoint{},
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		result, err := output.ParseResultFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse result file %s: %w", entry.Name(), err)
		}
		summary.Files++

		for _, t := range result.Thresholds {
			summary.Scatter = append(summary.Scatter, ScatterPoint{
				File:      entry.Name(),
				Threshold: t.Threshold,
				Objective: t.Objective,
			})
		}

		if result.FinalObjective > summary.BestObjective {
			summary.BestObjective = result.FinalObjective
			summary.BestFile = entry.Name()
		}

		logger.Debug("Result file read",
			zap.String("file", entry.Name()),
			zap.Float64("final_goal", result.FinalObjective),
			zap.Int("thresholds", len(result.Thresholds)))
	}

	if summary.Files == 0 {
		return nil, fmt.Errorf("no result files found in %s", dir)
	}

	logger.Info("Results summarised",
		zap.String("dir", dir),
		zap.Int("files", summary.Files),
		zap.String("best_file", summary.BestFile),
		zap.Float64("best_goal", summary.BestObjective))

	return summary, nil
}

// WriteSummary appends the best result of a directory as "file = ..." and "max_goal = ..." lines
func WriteSummary(w io.Writer, summary *ResultsSummary) error {
	_, err := fmt.Fprintf(w, "file = %s\nmax_goal = %g\n\n", filepath.Join(summary.Dir, summary.BestFile), summary.BestObjective)
	return err
}
