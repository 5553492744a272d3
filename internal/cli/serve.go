package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/plannerd/internal/api"
	"github.com/sandeepkv93/plannerd/internal/grid"
)

func newServeCmd(app *App) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.open(true, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			bind := rt.cfg.Listen
			if listen != "" {
				bind = listen
			}
			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := api.New(api.Options{
				Planner:     rt.planner,
				WeekStart:   grid.ParseWeekStart(rt.cfg.WeekStart),
				ExportLabel: rt.cfg.ExportLabel,
				Logger:      rt.log,
				Now:         app.Now,
			})
			rt.log.Info("api listening", "addr", bind)
			return srv.ServeTCP(ctx, bind)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
