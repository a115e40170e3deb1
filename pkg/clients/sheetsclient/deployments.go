package sheetsclient

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ColumnHeaders are the deployment table columns, in order
var ColumnHeaders = []string{"Staff", "Start", "End", "Hours", "Break", "Position", "Secondary", "Area", "Cleaning"}

// DeploymentRow is one staff member's line on a published sheet
type DeploymentRow struct {
	Staff     string
	Start     string
	End       string
	Hours     float64
	Break     int
	Position  string
	Secondary string
	Area      string
	Cleaning  string
}

// DeploymentSheet is a single day's deployment sheet
type DeploymentSheet struct {
	Date               string
	Forecast           string
	DayShiftForecast   string
	NightShiftForecast string
	Weather            string
	Notes              string
	Rows               []DeploymentRow
}

// Title is the tab name for the sheet, e.g. "Deployments 01-03-2025"
func (s *DeploymentSheet) Title() string {
	return "Deployments " + strings.ReplaceAll(s.Date, "/", "-")
}

// Cells returns the row's values in ColumnHeaders order
func (r DeploymentRow) Cells() []string {
	return []string{
		r.Staff,
		r.Start,
		r.End,
		strconv.FormatFloat(r.Hours, 'f', 2, 64),
		strconv.Itoa(r.Break),
		r.Position,
		r.Secondary,
		r.Area,
		r.Cleaning,
	}
}

// Values lays the sheet out as a shift info block, a blank row, then the
// deployment table
func (s *DeploymentSheet) Values() [][]interface{} {
	values := [][]interface{}{
		{"Date", s.Date},
		{"Forecast", s.Forecast, "Day", s.DayShiftForecast, "Night", s.NightShiftForecast},
		{"Weather", s.Weather},
		{"Notes", s.Notes},
		{},
		toRow(ColumnHeaders),
	}
	for _, row := range s.Rows {
		values = append(values, toRow(row.Cells()))
	}
	return values
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// PublishDeploymentSheet writes sheet to its own tab, creating the tab if
// needed. An existing tab is cleared and fully overwritten.
func (c *Client) PublishDeploymentSheet(ctx context.Context, spreadsheetID string, sheet *DeploymentSheet) error {
	title := sheet.Title()

	existing, err := c.findSheet(ctx, spreadsheetID, title)
	if err != nil {
		return err
	}

	if existing == nil {
		if _, err := c.CreateSheet(ctx, spreadsheetID, title); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
		c.logger.Debug("Created tab", zap.String("title", title))
	} else if err := c.ClearSheet(ctx, spreadsheetID, title); err != nil {
		return err
	}

	if err := c.WriteValues(ctx, spreadsheetID, title, sheet.Values()); err != nil {
		return err
	}

	c.logger.Info("Published deployment sheet",
		zap.String("title", title),
		zap.Int("rows", len(sheet.Rows)))
	return nil
}
