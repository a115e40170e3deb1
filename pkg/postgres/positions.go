package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

const positionColumns = `id::text, name, type, area_id::text, created_at`

func scanPosition(row pgx.Row) (db.Position, error) {
	var p db.Position
	var kind string
	err := row.Scan(&p.ID, &p.Name, &kind, &p.AreaID, &p.CreatedAt)
	p.Type = db.PositionKind(kind)
	return p, err
}

// ListPositions retrieves all positions ordered by name
func (d *DB) ListPositions(ctx context.Context) ([]db.Position, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+positionColumns+` FROM positions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []db.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return positions, nil
}

// InsertPosition inserts a position record
func (d *DB) InsertPosition(ctx context.Context, position db.NewPosition) (*db.Position, error) {
	p, err := scanPosition(d.pool.QueryRow(ctx, `
		INSERT INTO positions (name, type, area_id)
		VALUES ($1, $2, $3)
		RETURNING `+positionColumns,
		position.Name, string(position.Type), position.AreaID))
	if err != nil {
		return nil, fmt.Errorf("failed to insert position: %w", err)
	}
	return &p, nil
}

// UpdatePosition applies the non-nil fields of update
func (d *DB) UpdatePosition(ctx context.Context, id string, update db.PositionUpdate) (*db.Position, error) {
	var b updateBuilder
	if update.Name != nil {
		b.set("name", *update.Name)
	}
	if update.Type != nil {
		b.set("type", string(*update.Type))
	}
	if update.AreaID != nil {
		b.set("area_id", *update.AreaID)
	} else if update.ClearArea {
		b.set("area_id", nil)
	}

	var row pgx.Row
	if b.empty() {
		row = d.pool.QueryRow(ctx, `SELECT `+positionColumns+` FROM positions WHERE id = $1`, id)
	} else {
		query, args := b.build("positions", id)
		row = d.pool.QueryRow(ctx, query+` RETURNING `+positionColumns, args...)
	}

	p, err := scanPosition(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update position: %w", notFound(err, "position", id))
	}
	return &p, nil
}

// DeletePosition deletes a position; children lose their area reference
func (d *DB) DeletePosition(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM positions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	return expectRow(tag, "position", id)
}
