package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/publication-allocator/pkg/db"
)

// InsertCheckpoints inserts checkpoint records in a single transaction
func (d *DB) InsertCheckpoints(ctx context.Context, checkpoints []db.Checkpoint) error {
	if len(checkpoints) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range checkpoints {
		_, err := tx.Exec(ctx, `
			INSERT INTO checkpoint (id, run_id, threshold, evaluations, objective)
			VALUES ($1, $2, $3, $4, $5)
		`, c.ID, c.RunID, c.Threshold, c.Evaluations, c.Objective)
		if err != nil {
			return fmt.Errorf("failed to insert checkpoint %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit checkpoints: %w", err)
	}
	return nil
}

// InsertAcceptedPublications inserts accepted publication records in a single transaction
func (d *DB) InsertAcceptedPublications(ctx context.Context, accepted []db.AcceptedPublication) error {
	if len(accepted) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range accepted {
		_, err := tx.Exec(ctx, `
			INSERT INTO accepted_publication (id, run_id, publication_id, author_id, is_monograph, points, contribution)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, a.ID, a.RunID, a.PublicationID, a.AuthorID, a.IsMonograph, a.Points, a.Contribution)
		if err != nil {
			return fmt.Errorf("failed to insert accepted publication %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit accepted publications: %w", err)
	}
	return nil
}

// GetCheckpoints retrieves the checkpoints of a run ordered by threshold
func (d *DB) GetCheckpoints(ctx context.Context, runID string) ([]db.Checkpoint, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, run_id, threshold, evaluations, objective
		FROM checkpoint
		WHERE run_id = $1
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
	rows, err := d.pool.Query(ctx, `
		SELECT id, run_id, publication_id, author_id, is_monograph, points, contribution
		FROM accepted_publication
		WHERE run_id = $1
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
