package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/deployment-planner/pkg/db"
	"github.com/jakechorley/deployment-planner/pkg/salesdata"
)

// SalesCmd creates the sales command group
func SalesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Hourly sales forecasts and pasted till reports",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "records <date>",
		Short: "List a date's hourly sales forecasts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records := app.Planner.SalesRecords(args[0])
			rows := make([][]string, len(records))
			for i, r := range records {
				rows[i] = []string{r.Time, r.Forecast.StringFixed(2)}
			}
			renderTable(app.Out, []string{"Time", "Forecast"}, rows)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "setRecords <date> [HH:MM=amount...]",
		Short: "Replace a date's sales forecasts; no pairs clears them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := parseRecordArgs(args[1:])
			if err != nil {
				return err
			}
			inserted, err := app.Planner.ReplaceSalesRecords(app.Ctx, args[0], records)
			if err != nil {
				return err
			}
			app.printf("✓ Saved %d sales records for %s\n", len(inserted), args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "importHourly <date> <file>",
		Short: "Replace a date's sales forecasts from an hourly report paste",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[1], err)
			}
			inserted, err := app.Planner.ImportHourlySales(app.Ctx, args[0], string(text))
			if err != nil {
				return err
			}
			app.printf("✓ Imported %d sales records for %s\n", len(inserted), args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "compare",
		Short: "Line up the saved today, last week and last year reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			comparison := app.Planner.SalesComparison()
			rows := make([][]string, len(comparison.Rows))
			for i, r := range comparison.Rows {
				rows[i] = []string{r.Time, r.Today, r.LastWeek, r.LastYear}
			}
			renderTable(app.Out, []string{"Time", "Today", "Last week", "Last year"}, rows)
			return nil
		},
	})

	var todayFile, lastWeekFile, lastYearFile string
	setData := &cobra.Command{
		Use:   "setData",
		Short: "Save pasted till reports for the comparison view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := app.Planner.SalesData()
			for _, f := range []struct {
				path string
				dst  *string
			}{
				{todayFile, &data.TodayData},
				{lastWeekFile, &data.LastWeekData},
				{lastYearFile, &data.LastYearData},
			} {
				if f.path == "" {
					continue
				}
				text, err := os.ReadFile(f.path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", f.path, err)
				}
				*f.dst = string(text)
			}

			if _, err := app.Planner.SaveSalesData(app.Ctx, data); err != nil {
				return err
			}
			app.printf("✓ Saved sales data\n")
			return nil
		},
	}
	setData.Flags().StringVar(&todayFile, "today", "", "File holding today's report")
	setData.Flags().StringVar(&lastWeekFile, "lastWeek", "", "File holding last week's report")
	setData.Flags().StringVar(&lastYearFile, "lastYear", "", "File holding last year's report")
	cmd.AddCommand(setData)

	return cmd
}

// parseRecordArgs reads "HH:MM=amount" pairs
func parseRecordArgs(pairs []string) ([]db.SalesRecordInput, error) {
	records := make([]db.SalesRecordInput, 0, len(pairs))
	for _, pair := range pairs {
		at, amount, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected HH:MM=amount, got %q", pair)
		}
		forecast, err := salesdata.ParseAmount(amount)
		if err != nil {
			return nil, err
		}
		records = append(records, db.SalesRecordInput{Time: at, Forecast: forecast})
	}
	return records, nil
}
