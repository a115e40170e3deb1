package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jakechorley/deployment-planner/internal/config"
	"github.com/jakechorley/deployment-planner/pkg/api"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:         "serve",
		Short:       "Serve the planner over HTTP",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{AllowLoadErrorAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var origins []string
			if app.Cfg != nil {
				origins = app.Cfg.Server.AllowedOrigins
				if !cmd.Flags().Changed("addr") && app.Cfg.Server.Addr != "" {
					addr = app.Cfg.Server.Addr
				}
			}

			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			router := api.NewRouter(api.NewHandler(app.Planner, app.Logger), origins)
			return api.ListenAndServe(ctx, addr, router, app.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultServerAddr, "Listen address")

	return cmd
}
