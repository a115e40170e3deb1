package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// StaffCmd creates the staff command group
func StaffCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "List, add, remove and import staff members",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List staff members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			staff := app.Planner.Staff()
			rows := make([][]string, len(staff))
			for i, s := range staff {
				rows[i] = []string{s.ID, s.Name, yesNo(s.IsUnder18)}
			}
			app.printf("\n%d staff members:\n\n", len(staff))
			renderTable(app.Out, []string{"ID", "Name", "Under 18"}, rows)
			return nil
		},
	})

	var minor bool
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a staff member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			staff, err := app.Planner.AddStaff(app.Ctx, db.NewStaff{Name: args[0], IsUnder18: minor})
			if err != nil {
				return err
			}
			app.printf("✓ Added %s (%s)\n", staff.Name, staff.ID)
			return nil
		},
	}
	add.Flags().BoolVar(&minor, "minor", false, "Staff member is under 18")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id|name>",
		Short: "Remove a staff member and all their deployments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			staff, err := app.resolveStaff(args[0])
			if err != nil {
				return err
			}
			if err := app.Planner.RemoveStaff(app.Ctx, staff.ID); err != nil {
				return err
			}
			app.printf("✓ Removed %s\n", staff.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Import staff from a Name,IsUnder18 roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			result, err := app.Planner.ImportStaff(app.Ctx, filepath.Base(args[0]), content)
			if err != nil {
				return err
			}

			app.printf("\n✓ Imported %d staff members\n", len(result.Added))
			for _, s := range result.Added {
				app.printf("  + %s\n", s.Name)
			}
			if len(result.Skipped) > 0 {
				app.printf("\n⚠️  Skipped %d rows:\n", len(result.Skipped))
				for _, row := range result.Skipped {
					app.printf("  line %d: %s\n", row.Line, row.Reason)
				}
			}
			return nil
		},
	})

	return cmd
}
