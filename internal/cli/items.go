package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/plannerd/internal/aggregate"
	"github.com/sandeepkv93/plannerd/internal/model"
)

func newItemsCmd(app *App) *cobra.Command {
	var sortMode string
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List the open tasks that can be placed on the calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := aggregate.SortPolicy
			switch sortMode {
			case "policy", "":
			case "created":
				mode = aggregate.SortCreatedDesc
			default:
				return fmt.Errorf("unknown --sort %q (want policy or created)", sortMode)
			}
			rt, err := app.open(true, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			in, err := rt.planner.LoadInputs(contextOf(cmd), model.StartOfDay(app.Now().In(rt.loc)))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tTITLE\tSOURCE\tFLAGS")
			for _, it := range aggregate.Build(in, mode) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.Key(), it.Title, it.Source, flags(it))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&sortMode, "sort", "policy", "ordering: policy or created")
	return cmd
}

func newOrphansCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "orphans",
		Short: "List events whose linked task no longer exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.open(true, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			events, err := rt.planner.Orphans(contextOf(cmd))
			if err != nil {
				return err
			}
			for _, ev := range events {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s %s\n", ev.ID, ev.Title, ev.SourceType, ev.SourceID)
			}
			return nil
		},
	}
}

func flags(it aggregate.Item) string {
	switch {
	case it.Overdue && it.Urgent:
		return "overdue,urgent"
	case it.Overdue:
		return "overdue"
	case it.Urgent:
		return "urgent"
	}
	return "-"
}
