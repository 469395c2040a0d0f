package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/publication-allocator/internal/config"
	"github.com/jakechorley/publication-allocator/pkg/clients/sheetsclient"
)

// RunPublisher writes a run to a spreadsheet and returns the tab title
type RunPublisher interface {
	PublishRun(spreadsheetID string, run *sheetsclient.PublishedRun) (string, error)
}

// PublishRun publishes a recorded run to the configured spreadsheet.
// An empty runID publishes the latest run.
func PublishRun(
	ctx context.Context,
	store RunReader,
	publisher RunPublisher,
	cfg *config.Config,
	logger *zap.Logger,
	runID string,
) (string, error) {
	if cfg.Sheets.SpreadsheetID == "" {
		return "", fmt.Errorf("sheets.spreadsheetID is not configured")
	}

	details, err := ShowRun(ctx, store, logger, runID)
	if err != nil {
		return "", err
	}

	published, err := toPublishedRun(details)
	if err != nil {
		return "", err
	}

	logger.Info("Publishing run",
		zap.String("run_id", details.Run.ID),
		zap.String("spreadsheet_id", cfg.Sheets.SpreadsheetID))

	title, err := publisher.PublishRun(cfg.Sheets.SpreadsheetID, published)
	if err != nil {
		return "", fmt.Errorf("failed to publish run: %w", err)
	}

	logger.Info("Run published", zap.String("tab", title))
	return title, nil
}

func toPublishedRun(details *RunDetails) (*sheetsclient.PublishedRun, error) {
	createdAt, err := time.Parse(time.RFC3339, details.Run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run created_at %q: %w", details.Run.CreatedAt, err)
	}

	published := &sheetsclient.PublishedRun{
		RunID:       details.Run.ID,
		CreatedAt:   createdAt,
		InputName:   details.Run.InputName,
		Seed:        details.Run.Seed,
		Objective:   details.Run.Objective,
		Accepted:    make([]sheetsclient.PublishedPublication, 0, len(details.Accepted)),
		Checkpoints: make([]sheetsclient.PublishedCheckpoint, 0, len(details.Checkpoints)),
	}

	for _, a := range details.Accepted {
		published.Accepted = append(published.Accepted, sheetsclient.PublishedPublication{
			AuthorID:      a.AuthorID,
			PublicationID: a.PublicationID,
			IsMonograph:   a.IsMonograph,
			Points:        a.Points,
			Contribution:  a.Contribution,
		})
	}
	for _, cp := range details.Checkpoints {
		published.Checkpoints = append(published.Checkpoints, sheetsclient.PublishedCheckpoint{
			Threshold:   cp.Threshold,
			Evaluations: cp.Evaluations,
			Objective:   cp.Objective,
		})
	}

	return published, nil
}
