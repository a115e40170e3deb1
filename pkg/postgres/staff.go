package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// ListStaff retrieves all staff ordered by name
func (d *DB) ListStaff(ctx context.Context) ([]db.Staff, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, name, is_under_18, created_at
		FROM staff
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	var staff []db.Staff
	for rows.Next() {
		var s db.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.IsUnder18, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		staff = append(staff, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff: %w", err)
	}

	return staff, nil
}

// InsertStaff inserts staff records in one transaction
func (d *DB) InsertStaff(ctx context.Context, staff []db.NewStaff) ([]db.Staff, error) {
	if len(staff) == 0 {
		return nil, nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := make([]db.Staff, 0, len(staff))
	for _, s := range staff {
		var row db.Staff
		err := tx.QueryRow(ctx, `
			INSERT INTO staff (name, is_under_18)
			VALUES ($1, $2)
			RETURNING id::text, name, is_under_18, created_at
		`, s.Name, s.IsUnder18).Scan(&row.ID, &row.Name, &row.IsUnder18, &row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert staff: %w", err)
		}
		inserted = append(inserted, row)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// DeleteStaff deletes a staff record; their deployments cascade
func (d *DB) DeleteStaff(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete staff: %w", err)
	}
	return expectRow(tag, "staff", id)
}
