package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/publication-allocator/pkg/db"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	store, err := NewDB(ctx, filepath.Join(t.TempDir(), "runs", "allocator.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.RunMigrations(ctx))
	return store
}

func TestRunMigrations_Idempotent(t *testing.T) {
	store := openTestDB(t)

	assert.NoError(t, store.RunMigrations(context.Background()))
}

func TestInsertRun_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)

	run := &db.Run{
		ID:              "run-1",
		InputName:       "philosophy.txt",
		Seed:            -42,
		Objective:       15.5,
		Evaluations:     200,
		Passes:          60,
		Restarts:        2,
		Alpha:           0.5,
		HeuristicTarget: 7,
		CreatedAt:       "2026-01-02T03:04:05Z",
	}
	require.NoError(t, store.InsertRun(ctx, run))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, got)

	runs, err := store.GetRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestGetRun_NotFound(t *testing.T) {
	store := openTestDB(t)

	_, err := store.GetRun(context.Background(), "missing")

	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestGetRuns_NewestFirst(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)

	require.NoError(t, store.InsertRun(ctx, &db.Run{ID: "old", InputName: "a", CreatedAt: "2026-01-01T00:00:00Z"}))
	require.NoError(t, store.InsertRun(ctx, &db.Run{ID: "new", InputName: "b", CreatedAt: "2026-02-01T00:00:00Z"}))

	runs, err := store.GetRuns(ctx)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "old", runs[1].ID)
}

func TestResults_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)
	require.NoError(t, store.InsertRun(ctx, &db.Run{ID: "run-1", InputName: "a"}))

	checkpoints := []db.Checkpoint{
		{ID: "c2", RunID: "run-1", Threshold: 20, Evaluations: 21, Objective: 15},
		{ID: "c1", RunID: "run-1", Threshold: 2, Evaluations: 2, Objective: 10},
	}
	accepted := []db.AcceptedPublication{
		{ID: "a1", RunID: "run-1", PublicationID: "py", AuthorID: "y", Points: 5, Contribution: 1},
		{ID: "a2", RunID: "run-1", PublicationID: "px", AuthorID: "x", IsMonograph: true, Points: 10, Contribution: 0.5},
	}
	require.NoError(t, store.InsertCheckpoints(ctx, checkpoints))
	require.NoError(t, store.InsertAcceptedPublications(ctx, accepted))

	gotCheckpoints, err := store.GetCheckpoints(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, gotCheckpoints, 2)
	assert.Equal(t, 2, gotCheckpoints[0].Threshold)
	assert.Equal(t, 15.0, gotCheckpoints[1].Objective)

	gotAccepted, err := store.GetAcceptedPublications(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, gotAccepted, 2)
	assert.Equal(t, "px", gotAccepted[0].PublicationID)
	assert.True(t, gotAccepted[0].IsMonograph)
}

func TestInsertCheckpoints_UnknownRunRejected(t *testing.T) {
	store := openTestDB(t)

	err := store.InsertCheckpoints(context.Background(), []db.Checkpoint{{ID: "c1", RunID: "nope", Threshold: 1}})

	assert.Error(t, err, "foreign keys are enforced")
}
