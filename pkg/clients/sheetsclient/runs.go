package sheetsclient

import (
	"fmt"
	"time"
)

// PublishedPublication is one accepted (author, publication) row
type PublishedPublication struct {
	AuthorID      string
	PublicationID string
	IsMonograph   bool
	Points        float64
	Contribution  float64
}

// PublishedCheckpoint is the best objective known at an evaluation threshold
type PublishedCheckpoint struct {
	Threshold   int
	Evaluations int
	Objective   float64
}

// PublishedRun is everything written to a run tab
type PublishedRun struct {
	RunID       string
	CreatedAt   time.Time
	InputName   string
	Seed        int64
	Objective   float64
	Accepted    []PublishedPublication
	Checkpoints []PublishedCheckpoint
}

// PublishRun writes a run to its own tab, titled "Run <short id> - <date>".
// An existing tab with that title is cleared and overwritten.
//
// Returns the tab title.
func (c *Client) PublishRun(spreadsheetID string, run *PublishedRun) (string, error) {
	title := generateTabTitle(run.RunID, run.CreatedAt)

	exists, err := c.HasSheet(spreadsheetID, title)
	if err != nil {
		return "", err
	}

	if exists {
		if err := c.ClearSheet(spreadsheetID, title); err != nil {
			return "", err
		}
	} else {
		if _, err := c.CreateSheet(spreadsheetID, title); err != nil {
			return "", fmt.Errorf("failed to create tab: %w", err)
		}
	}

	if err := c.WriteRows(spreadsheetID, title, buildRunRows(run)); err != nil {
		return "", err
	}

	return title, nil
}

// generateTabTitle creates a tab title like "Run 1a2b3c4d - 2025-01-05"
func generateTabTitle(runID string, createdAt time.Time) string {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("Run %s - %s", short, createdAt.Format("2006-01-02"))
}

// buildRunRows lays out a summary block, the accepted publications and the checkpoints,
// separated by blank rows
func buildRunRows(run *PublishedRun) [][]interface{} {
	rows := [][]interface{}{
		{"Run", run.RunID},
		{"Input", run.InputName},
		{"Seed", run.Seed},
		{"Objective", run.Objective},
		{},
		{"Author", "Publication", "Monograph", "Points", "Contribution"},
	}

	for _, pub := range run.Accepted {
		rows = append(rows, []interface{}{pub.AuthorID, pub.PublicationID, pub.IsMonograph, pub.Points, pub.Contribution})
	}

	rows = append(rows, []interface{}{}, []interface{}{"Threshold", "Evaluations", "Best objective"})
	for _, cp := range run.Checkpoints {
		rows = append(rows, []interface{}{cp.Threshold, cp.Evaluations, cp.Objective})
	}

	return rows
}
