package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/plannerd/internal/export"
	"github.com/sandeepkv93/plannerd/internal/grid"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		view string
		date string
		dir  string
	)
	cmd := &cobra.Command{
		Use:       "export <ics|doc>",
		Short:     "Write the events of a day, week or month to a file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"ics", "doc"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format := args[0]
			if format != "ics" && format != "doc" {
				return fmt.Errorf("unknown export format %q (want ics or doc)", format)
			}
			mode, err := grid.ParseViewMode(view)
			if err != nil {
				return err
			}
			rt, err := app.open(true, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			focus := app.Now().In(rt.loc)
			if date != "" {
				if focus, err = time.ParseInLocation("2006-01-02", date, rt.loc); err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
			}
			weekStart := grid.ParseWeekStart(rt.cfg.WeekStart)
			from, to := grid.ViewRange(mode, focus, weekStart)
			label := grid.RangeLabel(mode, focus, weekStart)

			events, err := rt.planner.Events(contextOf(cmd), from, to)
			if err != nil {
				return err
			}
			var path string
			if format == "doc" {
				path, err = export.WriteDocumentFile(dir, rt.cfg.ExportLabel, label, events)
			} else {
				path, err = export.WriteICSFile(dir, label, events, app.Now().UTC())
			}
			if err != nil {
				return err
			}
			rt.log.Info("export written", "path", path, "events", len(events))
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d events)\n", path, len(events))
			return nil
		},
	}
	cmd.Flags().StringVar(&view, "view", "week", "range to export: day, week or month")
	cmd.Flags().StringVar(&date, "date", "", "any date inside the range (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	return cmd
}
