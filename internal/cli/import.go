package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/plannerd/internal/export"
	"github.com/sandeepkv93/plannerd/internal/materialize"
	"github.com/sandeepkv93/plannerd/internal/model"
)

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import events from external files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ics <file>",
		Short: "Add the VEVENTs of an iCalendar file as standalone events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rt, err := app.open(true, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			items, err := export.ParseICS(f, rt.loc)
			if err != nil {
				return err
			}
			ctx := contextOf(cmd)
			imported, skipped := 0, 0
			for _, it := range items {
				_, err := rt.planner.Save(ctx, materialize.EventDraft{
					Title:       it.Title,
					Description: it.Description,
					Category:    it.Category,
					Start:       it.Start,
					End:         it.End,
					SourceType:  model.SourceTypeCustom,
				})
				if errors.Is(err, model.ErrValidation) {
					rt.log.Warn("skipping invalid event", "uid", it.UID, "err", err)
					skipped++
					continue
				}
				if err != nil {
					return err
				}
				imported++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d events, skipped %d\n", imported, skipped)
			return nil
		},
	})
	return cmd
}
