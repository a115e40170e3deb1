package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/cmd/cli/commands"
	"github.com/jakechorley/deployment-planner/internal/config"
	"github.com/jakechorley/deployment-planner/pkg/core/services"
	"github.com/jakechorley/deployment-planner/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{Ctx: context.Background(), Out: os.Stdout}
	store   *commands.Store
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "planner",
		Short:         "Deployment planner - plan restaurant shifts, breaks and sales forecasts",
		Long:          `A CLI tool for planning staff deployments, break times, shift forecasts and team targets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if err := store.Close(); err != nil && app.Logger != nil {
				app.Logger.Warn("Failed to close store", zap.Error(err))
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.StaffCmd(app))
	rootCmd.AddCommand(commands.PositionsCmd(app))
	rootCmd.AddCommand(commands.DatesCmd(app))
	rootCmd.AddCommand(commands.DeploymentsCmd(app))
	rootCmd.AddCommand(commands.ShiftInfoCmd(app))
	rootCmd.AddCommand(commands.SalesCmd(app))
	rootCmd.AddCommand(commands.TargetsCmd(app))
	rootCmd.AddCommand(commands.BreakTimeCmd(app))
	rootCmd.AddCommand(commands.PublishCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(1)
	}
}

// initApp sets up logger, config, store and planner
func initApp(cmd *cobra.Command) error {
	var err error
	app.Env = env

	app.Logger, err = logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Debug("Starting application", zap.String("command", cmd.CommandPath()))

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	store, err = commands.OpenStore(app.Ctx, app.Cfg, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	app.Remote = store.Remote
	app.Offline = store.Offline

	app.Planner = services.NewPlanner(store.DB, app.Logger, services.Options{
		BreakPolicy: app.Cfg.Policy(),
		DateLayout:  app.Cfg.DateLayout,
		RepeatLimit: app.Cfg.RepeatLimit,
	})

	if cmd.Annotations[commands.SkipLoadAnnotation] != "" {
		return nil
	}
	if err := app.Planner.Load(app.Ctx); err != nil {
		if cmd.Annotations[commands.AllowLoadErrorAnnotation] != "" {
			app.Logger.Warn("Planner failed to load, reload to retry", zap.Error(err))
			return nil
		}
		return fmt.Errorf("failed to load planner data: %w", err)
	}
	return nil
}
