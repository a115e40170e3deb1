package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/pkg/db"
	"github.com/jakechorley/deployment-planner/pkg/salesdata"
)

// ReplaceSalesRecords deletes the date's records and inserts the given set.
// The two calls are not atomic: if the insert fails the date is left with no
// records, in the store and in the mirror.
func (p *Planner) ReplaceSalesRecords(ctx context.Context, date string, records []db.SalesRecordInput) ([]db.SalesRecord, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	if err := p.validDate(date); err != nil {
		return nil, err
	}
	for i, r := range records {
		if err := p.validate.Struct(r); err != nil {
			return nil, fmt.Errorf("invalid sales record %d: %w", i+1, err)
		}
	}

	if err := p.store.DeleteSalesRecords(ctx, date); err != nil {
		return nil, fmt.Errorf("failed to delete sales records: %w", err)
	}
	p.mirror.setSalesRecords(date, nil)

	if len(records) == 0 {
		p.logger.Info("Cleared sales records", zap.String("date", date))
		return nil, nil
	}

	inserted, err := p.store.InsertSalesRecords(ctx, date, records)
	if err != nil {
		p.logger.Warn("Sales records deleted but insert failed", zap.String("date", date), zap.Error(err))
		return nil, fmt.Errorf("failed to insert sales records: %w", err)
	}

	p.mirror.setSalesRecords(date, inserted)
	p.logger.Info("Replaced sales records", zap.String("date", date), zap.Int("count", len(inserted)))
	return inserted, nil
}

// ImportHourlySales parses an hourly report paste and stores its forecasts as
// the date's sales records
func (p *Planner) ImportHourlySales(ctx context.Context, date, text string) ([]db.SalesRecord, error) {
	rows, err := salesdata.ParseHourly(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hourly sales: %w", err)
	}
	return p.ReplaceSalesRecords(ctx, date, salesdata.ForecastRecords(rows))
}

// SaveSalesData replaces the pasted today/last-week/last-year sales text
func (p *Planner) SaveSalesData(ctx context.Context, data db.SalesData) (*db.SalesData, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	saved, err := p.store.ReplaceSalesData(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to save sales data: %w", err)
	}

	p.mirror.setSalesData(*saved)
	p.logger.Info("Saved sales data")
	return saved, nil
}
