package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// PositionsCmd creates the positions command group
func PositionsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Manage positions, secondary positions, areas and cleaning areas",
	}

	var listKind string
	list := &cobra.Command{
		Use:   "list",
		Short: "List positions with their areas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listKind != "" {
				kind := db.PositionKind(listKind)
				if !kind.Valid() {
					return fmt.Errorf("unknown kind %q", listKind)
				}
				for _, name := range app.Planner.PositionsByKind(kind) {
					app.printf("%s\n", name)
				}
				return nil
			}

			positions := app.Planner.PositionsWithAreas()
			rows := make([][]string, len(positions))
			for i, p := range positions {
				area := "-"
				if p.AreaName != nil {
					area = *p.AreaName
				}
				rows[i] = []string{p.ID, p.Name, string(p.Type), area}
			}
			renderTable(app.Out, []string{"ID", "Name", "Type", "Area"}, rows)
			return nil
		},
	}
	list.Flags().StringVar(&listKind, "kind", "", "Only list names of this kind (position, secondary, area, cleaning_area)")
	cmd.AddCommand(list)

	var addKind, addArea string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := db.NewPosition{Name: args[0], Type: db.PositionKind(addKind)}
			if addArea != "" {
				input.AreaID = &addArea
			}
			position, err := app.Planner.AddPosition(app.Ctx, input)
			if err != nil {
				return err
			}
			app.printf("✓ Added %s %s (%s)\n", position.Type, position.Name, position.ID)
			return nil
		},
	}
	add.Flags().StringVar(&addKind, "type", string(db.KindPosition), "Kind: position, secondary, area or cleaning_area")
	add.Flags().StringVar(&addArea, "area", "", "Parent area id")
	cmd.AddCommand(add)

	var updName, updKind, updArea string
	var clearArea bool
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename, retype or re-parent a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u db.PositionUpdate
			if cmd.Flags().Changed("name") {
				u.Name = &updName
			}
			if cmd.Flags().Changed("type") {
				kind := db.PositionKind(updKind)
				u.Type = &kind
			}
			if cmd.Flags().Changed("area") {
				u.AreaID = &updArea
			}
			u.ClearArea = clearArea

			position, err := app.Planner.UpdatePosition(app.Ctx, args[0], u)
			if err != nil {
				return err
			}
			app.printf("✓ Updated %s\n", position.Name)
			return nil
		},
	}
	update.Flags().StringVar(&updName, "name", "", "New name")
	update.Flags().StringVar(&updKind, "type", "", "New kind")
	update.Flags().StringVar(&updArea, "area", "", "New parent area id")
	update.Flags().BoolVar(&clearArea, "clear-area", false, "Remove the parent area")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Planner.RemovePosition(app.Ctx, args[0]); err != nil {
				return err
			}
			app.printf("✓ Removed position %s\n", args[0])
			return nil
		},
	})

	return cmd
}
