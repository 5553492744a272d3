package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/plannerd/internal/storage"
)

func newMigrateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}
	run := func(name string, apply func(*storage.SQLiteRepository) error) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: "Run the " + name + " migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rt, err := app.open(true, false)
				if err != nil {
					return err
				}
				defer rt.Close()
				if err := apply(rt.repo); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok (%s)\n", name, rt.cfg.DBPath)
				return nil
			},
		}
	}
	cmd.AddCommand(run("up", func(r *storage.SQLiteRepository) error { return storage.MigrateUp(r.DB()) }))
	cmd.AddCommand(run("down", func(r *storage.SQLiteRepository) error { return storage.MigrateDown(r.DB()) }))
	return cmd
}
