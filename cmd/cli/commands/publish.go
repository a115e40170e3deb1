package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/deployment-planner/internal/config"
	"github.com/jakechorley/deployment-planner/pkg/clients/sheetsclient"
)

// PublishCmd creates the publish command
func PublishCmd(app *AppContext) *cobra.Command {
	var sheetID string

	cmd := &cobra.Command{
		Use:   "publish <date>",
		Short: "Write a date's deployment sheet to a Google Sheets tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sheetID == "" && app.Cfg != nil {
				sheetID = app.Cfg.PublishSheetID
			}
			if sheetID == "" {
				return fmt.Errorf("no spreadsheet to publish to: set publishSheetId or pass --sheet")
			}

			oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
			if err != nil {
				return fmt.Errorf("failed to load OAuth client: %w", err)
			}
			client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
			if err != nil {
				return err
			}

			sheet, err := app.Planner.PublishDate(app.Ctx, client, sheetID, args[0])
			if err != nil {
				return err
			}
			app.printf("✓ Published %d deployments to tab %q\n", len(sheet.Rows), sheet.Title())
			return nil
		},
	}

	cmd.Flags().StringVar(&sheetID, "sheet", "", "Spreadsheet id (defaults to publishSheetId)")

	return cmd
}
