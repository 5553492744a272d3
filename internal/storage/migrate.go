package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Direction selects which half of each migration pair runs.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Migration is one embedded schema script.
type Migration struct {
	Name string
	SQL  string
}

// MigrateUp applies every up script in version order.
func MigrateUp(db *sql.DB) error {
	return Migrate(context.Background(), db, Up)
}

// MigrateDown reverts every down script, newest version first.
func MigrateDown(db *sql.DB) error {
	return Migrate(context.Background(), db, Down)
}

// Migrations lists the scripts for dir in the order they are applied.
func Migrations(dir Direction) ([]Migration, error) {
	if dir != Up && dir != Down {
		return nil, fmt.Errorf("unknown migration direction %q", dir)
	}
	suffix := "." + string(dir) + ".sql"
	names, err := fs.Glob(migrationFiles, "migrations/*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("list %s migrations: %w", dir, err)
	}
	sort.Strings(names)
	if dir == Down {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}
	out := make([]Migration, 0, len(names))
	for _, name := range names {
		body, err := migrationFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		out = append(out, Migration{
			Name: strings.TrimSuffix(path.Base(name), suffix),
			SQL:  string(body),
		})
	}
	return out, nil
}

// Migrate runs each script in its own transaction so a failing file leaves
// the earlier ones applied and nothing of its own.
func Migrate(ctx context.Context, db *sql.DB, dir Direction) error {
	scripts, err := Migrations(dir)
	if err != nil {
		return err
	}
	for _, m := range scripts {
		if err := runMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migrate %s %s: %w", dir, m.Name, err)
		}
	}
	return nil
}

func runMigration(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
