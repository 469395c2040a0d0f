// Package sqlite stores allocation runs in a local SQLite file, for machines without Postgres.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jakechorley/publication-allocator/pkg/db"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB provides database operations using SQLite
type DB struct {
	db *sql.DB
}

// NewDB opens or creates the database file at path
func NewDB(ctx context.Context, path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db: conn}, nil
}

// Close releases the database connection
func (d *DB) Close() {
	_ = d.db.Close()
}

// RunMigrations executes pending migrations, tracking them in schema_migrations
func (d *DB) RunMigrations(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	applied := make(map[string]bool)
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration filename: %w", err)
		}
		applied[filename] = true
	}
	rows.Close()

	pending, err := db.PendingMigrations(migrationsFS, "migrations", applied)
	if err != nil {
		return err
	}

	for _, migration := range pending {
		err := d.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", migration.Filename, err)
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (filename, applied_at) VALUES (?, ?)`,
				migration.Filename, time.Now().UTC().Format(time.RFC3339))
			if err != nil {
				return fmt.Errorf("failed to record migration %s: %w", migration.Filename, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// inTx runs fn in a transaction, committing when it returns nil
func (d *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// InsertRun inserts a new run record
func (d *DB) InsertRun(ctx context.Context, run *db.Run) error {
	createdAt := run.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO run (id, input_name, seed, objective, evaluations, passes, restarts, alpha, heuristic_target, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.InputName, run.Seed, run.Objective, run.Evaluations, run.Passes,
		run.Restarts, run.Alpha, run.HeuristicTarget, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

const runQuery = `
	SELECT id, input_name, seed, objective, evaluations, passes, restarts, alpha, heuristic_target, created_at
	FROM run`

// GetRuns retrieves all run records, newest first
func (d *DB) GetRuns(ctx context.Context) ([]db.Run, error) {
	rows, err := d.db.QueryContext(ctx, runQuery+` ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []db.Run
	for rows.Next() {
		var r db.Run
		if err := scanRun(rows, &r); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetRun retrieves a single run by id
func (d *DB) GetRun(ctx context.Context, runID string) (*db.Run, error) {
	var r db.Run
	err := scanRun(d.db.QueryRowContext(ctx, runQuery+` WHERE id = ?`, runID), &r)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, db.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner, r *db.Run) error {
	err := row.Scan(&r.ID, &r.InputName, &r.Seed, &r.Objective, &r.Evaluations, &r.Passes,
		&r.Restarts, &r.Alpha, &r.HeuristicTarget, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to scan run: %w", err)
	}
	return nil
}

// InsertCheckpoints inserts checkpoint records in a single transaction
func (d *DB) InsertCheckpoints(ctx context.Context, checkpoints []db.Checkpoint) error {
	if len(checkpoints) == 0 {
		return nil
	}

	return d.inTx(ctx, func(tx *sql.Tx) error {
		for _, c := range checkpoints {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO checkpoint (id, run_id, threshold, evaluations, objective)
				VALUES (?, ?, ?, ?, ?)
			`, c.ID, c.RunID, c.Threshold, c.Evaluations, c.Objective)
			if err != nil {
				return fmt.Errorf("failed to insert checkpoint %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

// InsertAcceptedPublications inserts accepted publication records in a single transaction
func (d *DB) InsertAcceptedPublications(ctx context.Context, accepted []db.AcceptedPublication) error {
	if len(accepted) == 0 {
		return nil
	}

	return d.inTx(ctx, func(tx *sql.Tx) error {
		for _, a := range accepted {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO accepted_publication (id, run_id, publication_id, author_id, is_monograph, points, contribution)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, a.ID, a.RunID, a.PublicationID, a.AuthorID, a.IsMonograph, a.Points, a.Contribution)
			if err != nil {
				return fmt.Errorf("failed to insert accepted publication %s: %w", a.ID, err)
			}
		}
		return nil
	})
}

// GetCheckpoints retrieves the checkpoints of a run ordered by threshold
func (d *DB) GetCheckpoints(ctx context.Context, runID string) ([]db.Checkpoint, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, run_id, threshold, evaluations, objective
		FROM checkpoint
		WHERE run_id = ?
		ORDER BY threshold
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkpoints: %w", err)
	}
	defer rows.Close()

	var checkpoints []db.Checkpoint
	for rows.Next() {
		var c db.Checkpoint
		if err := rows.Scan(&c.ID, &c.RunID, &c.Threshold, &c.Evaluations, &c.Objective); err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint: %w", err)
		}
		checkpoints = append(checkpoints, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checkpoints: %w", err)
	}

	return checkpoints, nil
}

// GetAcceptedPublications retrieves the accepted publications of a run, highest points first
func (d *DB) GetAcceptedPublications(ctx context.Context, runID string) ([]db.AcceptedPublication, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, run_id, publication_id, author_id, is_monograph, points, contribution
		FROM accepted_publication
		WHERE run_id = ?
		ORDER BY points DESC, publication_id, author_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accepted publications: %w", err)
	}
	defer rows.Close()

	var accepted []db.AcceptedPublication
	for rows.Next() {
		var a db.AcceptedPublication
		if err := rows.Scan(&a.ID, &a.RunID, &a.PublicationID, &a.AuthorID, &a.IsMonograph, &a.Points, &a.Contribution); err != nil {
			return nil, fmt.Errorf("failed to scan accepted publication: %w", err)
		}
		accepted = append(accepted, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accepted publications: %w", err)
	}

	return accepted, nil
}

var _ db.Database = (*DB)(nil)
