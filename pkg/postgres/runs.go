package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/publication-allocator/pkg/db"
)

const runColumns = `id, input_name, seed, objective, evaluations, passes, restarts, alpha, heuristic_target, created_at`

// InsertRun inserts a new run record
func (d *DB) InsertRun(ctx context.Context, run *db.Run) error {
	createdAt, err := parseCreatedAt(run.CreatedAt)
	if err != nil {
		return err
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO run (`+runColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, run.ID, run.InputName, run.Seed, run.Objective, run.Evaluations, run.Passes,
		run.Restarts, run.Alpha, run.HeuristicTarget, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// GetRuns retrieves all run records, newest first
func (d *DB) GetRuns(ctx context.Context) ([]db.Run, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+runColumns+` FROM run ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []db.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetRun retrieves a single run by id
func (d *DB) GetRun(ctx context.Context, runID string) (*db.Run, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM run WHERE id = $1`, runID)
	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, db.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func scanRun(row pgx.Row) (*db.Run, error) {
	var r db.Run
	var createdAt time.Time
	err := row.Scan(&r.ID, &r.InputName, &r.Seed, &r.Objective, &r.Evaluations, &r.Passes,
		&r.Restarts, &r.Alpha, &r.HeuristicTarget, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	r.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return &r, nil
}

func parseCreatedAt(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid run created_at %q: %w", value, err)
	}
	return t, nil
}
