package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/deployment-planner/pkg/clients/weatherclient"
	"github.com/jakechorley/deployment-planner/pkg/db"
)

// ShiftInfoCmd creates the shiftInfo command group
func ShiftInfoCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shiftInfo",
		Short: "Show and edit a date's forecast, weather and notes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <date>",
		Short: "Show a date's shift info",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, ok := app.Planner.ShiftInfo(args[0])
			if !ok {
				return fmt.Errorf("%w: no shift info for %s", db.ErrNotFound, args[0])
			}
			app.printf("Forecast:    %s\n", orDash(info.Forecast))
			app.printf("Day shift:   %s\n", orDash(info.DayShiftForecast))
			app.printf("Night shift: %s\n", orDash(info.NightShiftForecast))
			app.printf("Weather:     %s\n", orDash(info.Weather))
			app.printf("Notes:       %s\n", orDash(info.Notes))
			return nil
		},
	})

	var fields db.ShiftInfoFields
	set := &cobra.Command{
		Use:   "set <date>",
		Short: "Set shift info fields; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			merged := db.DefaultShiftInfo()
			if existing, ok := app.Planner.ShiftInfo(args[0]); ok {
				merged = db.ShiftInfoFields{
					Forecast:           existing.Forecast,
					DayShiftForecast:   existing.DayShiftForecast,
					NightShiftForecast: existing.NightShiftForecast,
					Weather:            existing.Weather,
					Notes:              existing.Notes,
				}
			}

			flags := cmd.Flags()
			if flags.Changed("forecast") {
				merged.Forecast = fields.Forecast
			}
			if flags.Changed("day") {
				merged.DayShiftForecast = fields.DayShiftForecast
			}
			if flags.Changed("night") {
				merged.NightShiftForecast = fields.NightShiftForecast
			}
			if flags.Changed("weather") {
				merged.Weather = fields.Weather
			}
			if flags.Changed("notes") {
				merged.Notes = fields.Notes
			}

			if _, err := app.Planner.UpsertShiftInfo(app.Ctx, args[0], merged); err != nil {
				return err
			}
			app.printf("✓ Saved shift info for %s\n", args[0])
			return nil
		},
	}
	set.Flags().StringVar(&fields.Forecast, "forecast", "", "Whole-day forecast, e.g. £4,000")
	set.Flags().StringVar(&fields.DayShiftForecast, "day", "", "Day shift forecast")
	set.Flags().StringVar(&fields.NightShiftForecast, "night", "", "Night shift forecast")
	set.Flags().StringVar(&fields.Weather, "weather", "", "Weather summary")
	set.Flags().StringVar(&fields.Notes, "notes", "", "Free-text notes")
	cmd.AddCommand(set)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <date>",
		Short: "Delete a date's shift info",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Planner.DeleteShiftInfo(app.Ctx, args[0]); err != nil {
				return err
			}
			app.printf("✓ Deleted shift info for %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "weather <date>",
		Short: "Fill a date's weather from the configured weather service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Cfg == nil || app.Cfg.Weather == nil {
				return fmt.Errorf("no weather service configured")
			}

			client := weatherclient.New(*app.Cfg.Weather, app.Logger)
			info, err := app.Planner.FillWeather(app.Ctx, client, args[0])
			if err != nil {
				return err
			}
			app.printf("✓ Weather for %s: %s\n", args[0], info.Weather)
			return nil
		},
	})

	return cmd
}
