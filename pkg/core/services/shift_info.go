package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

func shiftInfoFields(info db.ShiftInfo) db.ShiftInfoFields {
	return db.ShiftInfoFields{
		Forecast:           info.Forecast,
		DayShiftForecast:   info.DayShiftForecast,
		NightShiftForecast: info.NightShiftForecast,
		Weather:            info.Weather,
		Notes:              info.Notes,
	}
}

// UpsertShiftInfo writes every shift info field for the date. Fields left
// empty are stored as empty strings.
func (p *Planner) UpsertShiftInfo(ctx context.Context, date string, fields db.ShiftInfoFields) (*db.ShiftInfo, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	if err := p.validDate(date); err != nil {
		return nil, err
	}

	info, err := p.store.UpsertShiftInfo(ctx, date, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert shift info: %w", err)
	}

	p.mirror.setShiftInfo(*info)
	p.logger.Info("Saved shift info", zap.String("date", date))
	return info, nil
}

// DeleteShiftInfo removes the date's shift info. A date without deployments
// exists only through its shift info, so this refuses when that date is the
// last one.
func (p *Planner) DeleteShiftInfo(ctx context.Context, date string) error {
	if err := p.ready(); err != nil {
		return err
	}
	if len(p.mirror.Deployments(date)) == 0 && len(p.mirror.Dates()) <= 1 && p.mirror.HasDate(date) {
		return ErrLastDate
	}

	if err := p.store.DeleteShiftInfo(ctx, date); err != nil {
		return fmt.Errorf("failed to delete shift info: %w", err)
	}

	p.mirror.removeShiftInfo(date)
	p.logger.Info("Deleted shift info", zap.String("date", date))
	return nil
}

// WeatherFetcher returns a one-line summary of current conditions
type WeatherFetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// FillWeather fetches the current weather once and writes it into the date's
// shift info, keeping the other fields. A date without shift info starts from
// the defaults.
func (p *Planner) FillWeather(ctx context.Context, fetcher WeatherFetcher, date string) (*db.ShiftInfo, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	summary, err := fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}

	fields := db.DefaultShiftInfo()
	if existing, ok := p.mirror.ShiftInfo(date); ok {
		fields = shiftInfoFields(existing)
	}
	fields.Weather = summary

	return p.UpsertShiftInfo(ctx, date, fields)
}
