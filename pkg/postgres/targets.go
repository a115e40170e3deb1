package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

const targetColumns = `id::text, name, description, priority, is_active`

func scanTarget(row pgx.Row) (db.Target, error) {
	var t db.Target
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Priority, &t.IsActive)
	return t, err
}

// ListTargets retrieves all targets in priority order
func (d *DB) ListTargets(ctx context.Context) ([]db.Target, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+targetColumns+` FROM targets ORDER BY priority, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query targets: %w", err)
	}
	defer rows.Close()

	var targets []db.Target
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating targets: %w", err)
	}

	return targets, nil
}

// InsertTarget inserts a target record
func (d *DB) InsertTarget(ctx context.Context, target db.NewTarget) (*db.Target, error) {
	t, err := scanTarget(d.pool.QueryRow(ctx, `
		INSERT INTO targets (name, description, priority, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING `+targetColumns,
		target.Name, target.Description, target.Priority, target.IsActive))
	if err != nil {
		return nil, fmt.Errorf("failed to insert target: %w", err)
	}
	return &t, nil
}

// UpdateTarget applies the non-nil fields of update
func (d *DB) UpdateTarget(ctx context.Context, id string, update db.TargetUpdate) (*db.Target, error) {
	var b updateBuilder
	if update.Name != nil {
		b.set("name", *update.Name)
	}
	if update.Description != nil {
		b.set("description", *update.Description)
	}
	if update.Priority != nil {
		b.set("priority", *update.Priority)
	}
	if update.IsActive != nil {
		b.set("is_active", *update.IsActive)
	}

	var row pgx.Row
	if b.empty() {
		row = d.pool.QueryRow(ctx, `SELECT `+targetColumns+` FROM targets WHERE id = $1`, id)
	} else {
		query, args := b.build("targets", id)
		row = d.pool.QueryRow(ctx, query+` RETURNING `+targetColumns, args...)
	}

	t, err := scanTarget(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update target: %w", notFound(err, "target", id))
	}
	return &t, nil
}

// DeleteTarget deletes a target record
func (d *DB) DeleteTarget(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM targets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete target: %w", err)
	}
	return expectRow(tag, "target", id)
}
