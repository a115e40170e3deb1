package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// ListShiftInfo retrieves the shift info of every date
func (d *DB) ListShiftInfo(ctx context.Context) ([]db.ShiftInfo, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, date, forecast, day_shift_forecast, night_shift_forecast, weather, notes
		FROM shift_info
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift info: %w", err)
	}
	defer rows.Close()

	var infos []db.ShiftInfo
	for rows.Next() {
		var s db.ShiftInfo
		if err := rows.Scan(&s.ID, &s.Date, &s.Forecast, &s.DayShiftForecast, &s.NightShiftForecast, &s.Weather, &s.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan shift info: %w", err)
		}
		infos = append(infos, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift info: %w", err)
	}

	return infos, nil
}

// UpsertShiftInfo writes every field of the date's shift info, inserting the
// row if the date has none
func (d *DB) UpsertShiftInfo(ctx context.Context, date string, fields db.ShiftInfoFields) (*db.ShiftInfo, error) {
	var s db.ShiftInfo
	err := d.pool.QueryRow(ctx, `
		INSERT INTO shift_info (date, forecast, day_shift_forecast, night_shift_forecast, weather, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date) DO UPDATE SET
			forecast = EXCLUDED.forecast,
			day_shift_forecast = EXCLUDED.day_shift_forecast,
			night_shift_forecast = EXCLUDED.night_shift_forecast,
			weather = EXCLUDED.weather,
			notes = EXCLUDED.notes
		RETURNING id::text, date, forecast, day_shift_forecast, night_shift_forecast, weather, notes
	`, date, fields.Forecast, fields.DayShiftForecast, fields.NightShiftForecast, fields.Weather, fields.Notes).
		Scan(&s.ID, &s.Date, &s.Forecast, &s.DayShiftForecast, &s.NightShiftForecast, &s.Weather, &s.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert shift info: %w", err)
	}
	return &s, nil
}

// DeleteShiftInfo deletes the date's shift info, if any
func (d *DB) DeleteShiftInfo(ctx context.Context, date string) error {
	if _, err := d.pool.Exec(ctx, `DELETE FROM shift_info WHERE date = $1`, date); err != nil {
		return fmt.Errorf("failed to delete shift info: %w", err)
	}
	return nil
}
