package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/publication-allocator/pkg/db"
)

func seededStore() *mockRunStore {
	return &mockRunStore{
		runs: []db.Run{
			{ID: "run-old", InputName: "a.txt", Objective: 10, CreatedAt: "2025-01-01T10:00:00Z"},
			{ID: "run-new", InputName: "b.txt", Objective: 12, CreatedAt: "2025-02-01T10:00:00Z"},
		},
		checkpoints: []db.Checkpoint{
			{ID: "cp-1", RunID: "run-old", Threshold: 2, Objective: 10},
			{ID: "cp-2", RunID: "run-new", Threshold: 2, Objective: 11},
			{ID: "cp-3", RunID: "run-new", Threshold: 20, Objective: 12},
		},
		accepted: []db.AcceptedPublication{
			{ID: "a-1", RunID: "run-new", PublicationID: "px", AuthorID: "x", Points: 12, Contribution: 1},
		},
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	runs, err := ListRuns(context.Background(), seededStore(), zap.NewNop())
	require.NoError(t, err)

	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)
}

func TestListRuns_StoreError(t *testing.T) {
	_, err := ListRuns(context.Background(), &mockRunStore{getRunsErr: errors.New("boom")}, zap.NewNop())
	assert.Error(t, err)
}

func TestShowRun_DefaultsToLatest(t *testing.T) {
	details, err := ShowRun(context.Background(), seededStore(), zap.NewNop(), "")
	require.NoError(t, err)

	assert.Equal(t, "run-new", details.Run.ID)
	assert.Len(t, details.Checkpoints, 2)
	assert.Len(t, details.Accepted, 1)
}

func TestShowRun_ByID(t *testing.T) {
	details, err := ShowRun(context.Background(), seededStore(), zap.NewNop(), "run-old")
	require.NoError(t, err)

	assert.Equal(t, "run-old", details.Run.ID)
	assert.Len(t, details.Checkpoints, 1)
	assert.Empty(t, details.Accepted)
}

func TestShowRun_UnknownID(t *testing.T) {
	_, err := ShowRun(context.Background(), seededStore(), zap.NewNop(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrNotFound))
}

func TestShowRun_NoRuns(t *testing.T) {
	_, err := ShowRun(context.Background(), &mockRunStore{}, zap.NewNop(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no runs found")
}

func TestPublishRun_SendsLatestRun(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Sheets.SpreadsheetID = "sheet-123"
	publisher := &mockPublisher{}

	title, err := PublishRun(context.Background(), seededStore(), publisher, cfg, zap.NewNop(), "")
	require.NoError(t, err)

	assert.Equal(t, "Run run-new", title)
	assert.Equal(t, "sheet-123", publisher.spreadsheetID)
	require.NotNil(t, publisher.published)
	assert.Equal(t, "b.txt", publisher.published.InputName)
	assert.Equal(t, 2025, publisher.published.CreatedAt.Year())
	require.Len(t, publisher.published.Accepted, 1)
	assert.Equal(t, "px", publisher.published.Accepted[0].PublicationID)
	assert.Len(t, publisher.published.Checkpoints, 2)
}

func TestPublishRun_RequiresSpreadsheet(t *testing.T) {
	_, err := PublishRun(context.Background(), seededStore(), &mockPublisher{}, testConfig(t.TempDir()), zap.NewNop(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spreadsheetID")
}

func TestPublishRun_PublisherError(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Sheets.SpreadsheetID = "sheet-123"

	_, err := PublishRun(context.Background(), seededStore(), &mockPublisher{err: errors.New("quota")}, cfg, zap.NewNop(), "run-old")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish run")
}
