package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// ListSalesRecords retrieves all sales records ordered by date and time.
// Forecasts travel as text so they round-trip through decimal exactly.
func (d *DB) ListSalesRecords(ctx context.Context) ([]db.SalesRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, date, time, forecast::text
		FROM sales_records
		ORDER BY date, time
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales records: %w", err)
	}
	defer rows.Close()

	var records []db.SalesRecord
	for rows.Next() {
		var r db.SalesRecord
		var forecast string
		if err := rows.Scan(&r.ID, &r.Date, &r.Time, &forecast); err != nil {
			return nil, fmt.Errorf("failed to scan sales record: %w", err)
		}
		if r.Forecast, err = decimal.NewFromString(forecast); err != nil {
			return nil, fmt.Errorf("failed to parse forecast %q: %w", forecast, err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales records: %w", err)
	}

	return records, nil
}

// DeleteSalesRecords deletes every sales record on a date
func (d *DB) DeleteSalesRecords(ctx context.Context, date string) error {
	if _, err := d.pool.Exec(ctx, `DELETE FROM sales_records WHERE date = $1`, date); err != nil {
		return fmt.Errorf("failed to delete sales records: %w", err)
	}
	return nil
}

// InsertSalesRecords inserts a date's sales records in one transaction
func (d *DB) InsertSalesRecords(ctx context.Context, date string, records []db.SalesRecordInput) ([]db.SalesRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := make([]db.SalesRecord, 0, len(records))
	for _, in := range records {
		var id string
		err := tx.QueryRow(ctx, `
			INSERT INTO sales_records (date, time, forecast)
			VALUES ($1, $2, $3::numeric)
			RETURNING id::text
		`, date, in.Time, in.Forecast.String()).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to insert sales record: %w", err)
		}
		inserted = append(inserted, db.SalesRecord{ID: id, Date: date, Time: in.Time, Forecast: in.Forecast.Round(2)})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// GetSalesData retrieves the pasted sales text row
func (d *DB) GetSalesData(ctx context.Context) (*db.SalesData, error) {
	var s db.SalesData
	err := d.pool.QueryRow(ctx, `
		SELECT id::text, today_data, last_week_data, last_year_data
		FROM sales_data
		LIMIT 1
	`).Scan(&s.ID, &s.TodayData, &s.LastWeekData, &s.LastYearData)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sales data: %w", err)
	}
	return &s, nil
}

// ReplaceSalesData deletes any existing sales text and inserts data
func (d *DB) ReplaceSalesData(ctx context.Context, data db.SalesData) (*db.SalesData, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sales_data`); err != nil {
		return nil, fmt.Errorf("failed to clear sales data: %w", err)
	}

	saved := data
	err = tx.QueryRow(ctx, `
		INSERT INTO sales_data (today_data, last_week_data, last_year_data)
		VALUES ($1, $2, $3)
		RETURNING id::text
	`, data.TodayData, data.LastWeekData, data.LastYearData).Scan(&saved.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sales data: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &saved, nil
}
