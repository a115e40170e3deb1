package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/pkg/clients/sheetsclient"
	"github.com/jakechorley/deployment-planner/pkg/core/policy"
	"github.com/jakechorley/deployment-planner/pkg/db"
)

// SheetPublisher writes a day's deployment sheet to a spreadsheet
type SheetPublisher interface {
	PublishDeploymentSheet(ctx context.Context, spreadsheetID string, sheet *sheetsclient.DeploymentSheet) error
}

// DeploymentSheet builds the printable sheet for a date from the mirror,
// ordered by start time then staff name
func (p *Planner) DeploymentSheet(date string) (*sheetsclient.DeploymentSheet, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	if !p.mirror.HasDate(date) {
		return nil, fmt.Errorf("date %s: %w", date, db.ErrNotFound)
	}

	sheet := &sheetsclient.DeploymentSheet{Date: date}
	if info, ok := p.mirror.ShiftInfo(date); ok {
		sheet.Forecast = info.Forecast
		sheet.DayShiftForecast = info.DayShiftForecast
		sheet.NightShiftForecast = info.NightShiftForecast
		sheet.Weather = info.Weather
		sheet.Notes = info.Notes
	}

	for _, d := range p.mirror.Deployments(date) {
		name := p.mirror.StaffName(d.StaffID)
		if d.Staff != nil && d.Staff.Name != "" {
			name = d.Staff.Name
		}
		sheet.Rows = append(sheet.Rows, sheetsclient.DeploymentRow{
			Staff:     name,
			Start:     d.StartTime,
			End:       d.EndTime,
			Hours:     policy.CalculateWorkHours(d.StartTime, d.EndTime),
			Break:     d.BreakMinutes,
			Position:  d.Position,
			Secondary: d.Secondary,
			Area:      d.Area,
			Cleaning:  d.Cleaning,
		})
	}

	sort.SliceStable(sheet.Rows, func(i, j int) bool {
		if sheet.Rows[i].Start != sheet.Rows[j].Start {
			return sheet.Rows[i].Start < sheet.Rows[j].Start
		}
		return sheet.Rows[i].Staff < sheet.Rows[j].Staff
	})

	return sheet, nil
}

// PublishDate builds the date's sheet and hands it to publisher
func (p *Planner) PublishDate(ctx context.Context, publisher SheetPublisher, spreadsheetID, date string) (*sheetsclient.DeploymentSheet, error) {
	sheet, err := p.DeploymentSheet(date)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Publishing deployment sheet",
		zap.String("date", date),
		zap.String("spreadsheet_id", spreadsheetID),
		zap.Int("rows", len(sheet.Rows)))

	if err := publisher.PublishDeploymentSheet(ctx, spreadsheetID, sheet); err != nil {
		return nil, fmt.Errorf("failed to publish %s: %w", date, err)
	}
	return sheet, nil
}
