package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// TargetsCmd creates the targets command group
func TargetsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Manage the team's prioritised targets",
	}

	var activeOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List targets by priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := app.Planner.Targets()
			if activeOnly {
				targets = app.Planner.ActiveTargets()
			}
			rows := make([][]string, len(targets))
			for i, t := range targets {
				rows[i] = []string{t.ID, itoa(t.Priority), t.Name, yesNo(t.IsActive), t.Description}
			}
			renderTable(app.Out, []string{"ID", "Priority", "Name", "Active", "Description"}, rows)
			return nil
		},
	}
	list.Flags().BoolVar(&activeOnly, "active", false, "Only list active targets")
	cmd.AddCommand(list)

	var target db.NewTarget
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target.Name = args[0]
			inserted, err := app.Planner.AddTarget(app.Ctx, target)
			if err != nil {
				return err
			}
			app.printf("✓ Added target %s (%s)\n", inserted.Name, inserted.ID)
			return nil
		},
	}
	add.Flags().StringVar(&target.Description, "description", "", "What the target means")
	add.Flags().IntVar(&target.Priority, "priority", 0, "Lower sorts first")
	add.Flags().BoolVar(&target.IsActive, "active", true, "Whether the target is active")
	cmd.AddCommand(add)

	var (
		updName, updDescription string
		updPriority             int
		updActive               bool
	)
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u db.TargetUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				u.Name = &updName
			}
			if flags.Changed("description") {
				u.Description = &updDescription
			}
			if flags.Changed("priority") {
				u.Priority = &updPriority
			}
			if flags.Changed("active") {
				u.IsActive = &updActive
			}

			updated, err := app.Planner.UpdateTarget(app.Ctx, args[0], u)
			if err != nil {
				return err
			}
			app.printf("✓ Updated target %s\n", updated.Name)
			return nil
		},
	}
	update.Flags().StringVar(&updName, "name", "", "New name")
	update.Flags().StringVar(&updDescription, "description", "", "New description")
	update.Flags().IntVar(&updPriority, "priority", 0, "New priority")
	update.Flags().BoolVar(&updActive, "active", false, "Whether the target is active")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Planner.RemoveTarget(app.Ctx, args[0]); err != nil {
				return err
			}
			app.printf("✓ Removed target %s\n", args[0])
			return nil
		},
	})

	return cmd
}
