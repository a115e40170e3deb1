package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// DeploymentsCmd creates the deployments command group
func DeploymentsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"deploy"},
		Short:   "Plan who works when, where and with what break",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <date>",
		Short: "List a date's deployments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deployments := app.Planner.Deployments(args[0])
			rows := make([][]string, len(deployments))
			for i, d := range deployments {
				name := app.Planner.StaffName(d.StaffID)
				if d.Staff != nil {
					name = d.Staff.Name
				}
				rows[i] = []string{d.ID, name, d.StartTime, d.EndTime, itoa(d.BreakMinutes), orDash(d.Position), orDash(d.Secondary), orDash(d.Area), orDash(d.Cleaning)}
			}
			renderTable(app.Out, []string{"ID", "Staff", "Start", "End", "Break", "Position", "Secondary", "Area", "Cleaning"}, rows)
			return nil
		},
	})

	var addPosition, addSecondary, addArea, addCleaning string
	add := &cobra.Command{
		Use:   "add <date> <staff> <start> <end>",
		Short: "Add a deployment; the break is worked out from the shift length",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			staff, err := app.resolveStaff(args[1])
			if err != nil {
				return err
			}
			deployment, err := app.Planner.AddDeployment(app.Ctx, db.NewDeployment{
				Date:      args[0],
				StaffID:   staff.ID,
				StartTime: args[2],
				EndTime:   args[3],
				Position:  addPosition,
				Secondary: addSecondary,
				Area:      addArea,
				Cleaning:  addCleaning,
			})
			if err != nil {
				return err
			}
			app.printf("✓ Deployed %s %s-%s on %s (%d min break)\n",
				staff.Name, deployment.StartTime, deployment.EndTime, deployment.Date, deployment.BreakMinutes)
			return nil
		},
	}
	add.Flags().StringVar(&addPosition, "position", "", "Position name")
	add.Flags().StringVar(&addSecondary, "secondary", "", "Secondary position name")
	add.Flags().StringVar(&addArea, "area", "", "Area name")
	add.Flags().StringVar(&addCleaning, "cleaning", "", "Cleaning area name")
	cmd.AddCommand(add)

	var updStart, updEnd, updPosition, updSecondary, updArea, updCleaning string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a deployment; changing times recomputes the break",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u db.DeploymentUpdate
			fields := map[string]**string{
				"start":     &u.StartTime,
				"end":       &u.EndTime,
				"position":  &u.Position,
				"secondary": &u.Secondary,
				"area":      &u.Area,
				"cleaning":  &u.Cleaning,
			}
			values := map[string]*string{
				"start":     &updStart,
				"end":       &updEnd,
				"position":  &updPosition,
				"secondary": &updSecondary,
				"area":      &updArea,
				"cleaning":  &updCleaning,
			}
			for name, field := range fields {
				if cmd.Flags().Changed(name) {
					*field = values[name]
				}
			}

			deployment, err := app.Planner.UpdateDeployment(app.Ctx, args[0], u)
			if err != nil {
				return err
			}
			app.printf("✓ Updated %s-%s on %s (%d min break)\n",
				deployment.StartTime, deployment.EndTime, deployment.Date, deployment.BreakMinutes)
			return nil
		},
	}
	update.Flags().StringVar(&updStart, "start", "", "Start time (HH:MM)")
	update.Flags().StringVar(&updEnd, "end", "", "End time (HH:MM)")
	update.Flags().StringVar(&updPosition, "position", "", "Position name")
	update.Flags().StringVar(&updSecondary, "secondary", "", "Secondary position name")
	update.Flags().StringVar(&updArea, "area", "", "Area name")
	update.Flags().StringVar(&updCleaning, "cleaning", "", "Cleaning area name")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a deployment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Planner.RemoveDeployment(app.Ctx, args[0]); err != nil {
				return err
			}
			app.printf("✓ Removed deployment %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "duplicate <from-date> <to-date>",
		Short: "Copy a date's deployments and shift info onto another date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inserted, err := app.Planner.DuplicateDeployments(app.Ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if len(inserted) == 0 {
				app.printf("No deployments on %s to copy\n", args[0])
				return nil
			}
			app.printf("✓ Copied %d deployments from %s to %s\n", len(inserted), args[0], args[1])
			return nil
		},
	})

	var preset string
	repeat := &cobra.Command{
		Use:   "repeat <from-date> [rrule]",
		Short: "Copy a date onto every occurrence of a recurrence rule, e.g. FREQ=WEEKLY;COUNT=4",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := app.repeatRule(args[1:], preset)
			if err != nil {
				return err
			}

			result, err := app.Planner.RepeatDeployments(app.Ctx, args[0], rule)
			if err != nil {
				return err
			}
			if len(result.Dates) == 0 {
				app.printf("No deployments on %s to repeat\n", args[0])
				return nil
			}
			app.printf("✓ Copied %d deployments onto %d dates:\n", result.Deployments, len(result.Dates))
			for _, date := range result.Dates {
				app.printf("  %s\n", date)
			}
			return nil
		},
	}
	repeat.Flags().StringVar(&preset, "preset", "", "Name of a repeat preset from the config")
	cmd.AddCommand(repeat)

	cmd.AddCommand(&cobra.Command{
		Use:   "sheet <date>",
		Short: "Show a date's deployment sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := app.Planner.DeploymentSheet(args[0])
			if err != nil {
				return err
			}
			renderDeploymentSheet(app.Out, sheet)
			return nil
		},
	})

	return cmd
}

// repeatRule picks the explicit rule argument or the named config preset
func (app *AppContext) repeatRule(args []string, preset string) (string, error) {
	switch {
	case len(args) > 0 && preset != "":
		return "", fmt.Errorf("give either a rule or --preset, not both")
	case len(args) > 0:
		return args[0], nil
	case preset == "":
		return "", fmt.Errorf("a rule or --preset is required")
	}

	if app.Cfg != nil {
		if rule, ok := app.Cfg.Preset(preset); ok {
			return rule, nil
		}
	}
	return "", fmt.Errorf("unknown repeat preset %q", preset)
}
