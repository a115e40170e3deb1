package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:         "migrate",
		Short:       "Apply pending database migrations",
		Args:        cobra.NoArgs,
		Annotations: skipLoad(nil),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Remote == nil {
				return fmt.Errorf("migrations need a reachable database; running on the local store")
			}
			if err := app.Remote.RunMigrations(app.Ctx); err != nil {
				return err
			}
			app.printf("✓ Migrations applied\n")
			return nil
		},
	}
}
