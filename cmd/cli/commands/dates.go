package commands

import (
	"github.com/spf13/cobra"
)

// DatesCmd creates the dates command group
func DatesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dates",
		Short: "List, create and delete planned dates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List dates with their deployment counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dates := app.Planner.Dates()
			rows := make([][]string, len(dates))
			for i, date := range dates {
				forecast := ""
				if info, ok := app.Planner.ShiftInfo(date); ok {
					forecast = info.Forecast
				}
				rows[i] = []string{date, itoa(len(app.Planner.Deployments(date))), orDash(forecast)}
			}
			renderTable(app.Out, []string{"Date", "Deployments", "Forecast"}, rows)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <date>",
		Short: "Create a date with default shift info",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Planner.CreateDate(app.Ctx, args[0]); err != nil {
				return err
			}
			app.printf("✓ Created %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <date>",
		Short: "Delete a date, its deployments and its shift info",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Planner.DeleteDate(app.Ctx, args[0]); err != nil {
				return err
			}
			app.printf("✓ Deleted %s\n", args[0])
			return nil
		},
	})

	return cmd
}
