package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// deploymentSelect reads deployments from the relation d joined to their staff
const deploymentSelect = `
	SELECT d.id::text, d.date, d.staff_id::text, d.start_time, d.end_time,
		d.position, d.secondary, d.area, d.cleaning, d.break_minutes, d.created_at,
		s.id::text, s.name, s.is_under_18
	FROM d
	JOIN staff s ON s.id = d.staff_id
`

func scanDeployment(row pgx.Row) (db.Deployment, error) {
	var dep db.Deployment
	var staff db.DeploymentStaff
	err := row.Scan(
		&dep.ID, &dep.Date, &dep.StaffID, &dep.StartTime, &dep.EndTime,
		&dep.Position, &dep.Secondary, &dep.Area, &dep.Cleaning, &dep.BreakMinutes, &dep.CreatedAt,
		&staff.ID, &staff.Name, &staff.IsUnder18,
	)
	dep.Staff = &staff
	return dep, err
}

// ListDeployments retrieves all deployments with their staff, newest date first
func (d *DB) ListDeployments(ctx context.Context) ([]db.Deployment, error) {
	rows, err := d.pool.Query(ctx, `WITH d AS (SELECT * FROM deployments)`+deploymentSelect+`
		ORDER BY d.date DESC, d.start_time, s.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query deployments: %w", err)
	}
	defer rows.Close()

	var deployments []db.Deployment
	for rows.Next() {
		dep, err := scanDeployment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deployment: %w", err)
		}
		deployments = append(deployments, dep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deployments: %w", err)
	}

	return deployments, nil
}

// InsertDeployments inserts deployment records in one transaction
func (d *DB) InsertDeployments(ctx context.Context, deployments []db.NewDeployment) ([]db.Deployment, error) {
	if len(deployments) == 0 {
		return nil, nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := make([]db.Deployment, 0, len(deployments))
	for _, nd := range deployments {
		dep, err := scanDeployment(tx.QueryRow(ctx, `
			WITH d AS (
				INSERT INTO deployments (date, staff_id, start_time, end_time, position, secondary, area, cleaning, break_minutes)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING *
			)`+deploymentSelect,
			nd.Date, nd.StaffID, nd.StartTime, nd.EndTime, nd.Position, nd.Secondary, nd.Area, nd.Cleaning, nd.BreakMinutes))
		if err != nil {
			return nil, fmt.Errorf("failed to insert deployment: %w", err)
		}
		inserted = append(inserted, dep)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// UpdateDeployment applies the non-nil fields of update
func (d *DB) UpdateDeployment(ctx context.Context, id string, update db.DeploymentUpdate) (*db.Deployment, error) {
	var b updateBuilder
	if update.StartTime != nil {
		b.set("start_time", *update.StartTime)
	}
	if update.EndTime != nil {
		b.set("end_time", *update.EndTime)
	}
	if update.Position != nil {
		b.set("position", *update.Position)
	}
	if update.Secondary != nil {
		b.set("secondary", *update.Secondary)
	}
	if update.Area != nil {
		b.set("area", *update.Area)
	}
	if update.Cleaning != nil {
		b.set("cleaning", *update.Cleaning)
	}
	if update.BreakMinutes != nil {
		b.set("break_minutes", *update.BreakMinutes)
	}

	var row pgx.Row
	if b.empty() {
		row = d.pool.QueryRow(ctx, `WITH d AS (SELECT * FROM deployments WHERE id = $1)`+deploymentSelect, id)
	} else {
		query, args := b.build("deployments", id)
		row = d.pool.QueryRow(ctx, `WITH d AS (`+query+` RETURNING *)`+deploymentSelect, args...)
	}

	dep, err := scanDeployment(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update deployment: %w", notFound(err, "deployment", id))
	}
	return &dep, nil
}

// DeleteDeployment deletes one deployment record
func (d *DB) DeleteDeployment(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM deployments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deployment: %w", err)
	}
	return expectRow(tag, "deployment", id)
}

// DeleteDeploymentsByDate deletes every deployment on a date
func (d *DB) DeleteDeploymentsByDate(ctx context.Context, date string) error {
	if _, err := d.pool.Exec(ctx, `DELETE FROM deployments WHERE date = $1`, date); err != nil {
		return fmt.Errorf("failed to delete deployments for %s: %w", date, err)
	}
	return nil
}
