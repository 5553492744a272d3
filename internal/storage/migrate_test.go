package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/plannerd/internal/model"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	if err := repo.CreateEvent(context.Background(), model.CalendarEvent{
		ID:         "ev-rt-1",
		OwnerID:    "owner",
		Title:      "Roundtrip event",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		SourceType: model.SourceTypeCustom,
		CreatedAt:  start,
		UpdatedAt:  start,
	}); err != nil {
		t.Fatalf("insert after roundtrip failed: %v", err)
	}

	got, err := repo.GetEvent(context.Background(), "owner", "ev-rt-1")
	if err != nil {
		t.Fatalf("get after roundtrip failed: %v", err)
	}
	if got.Title != "Roundtrip event" {
		t.Fatalf("unexpected title after roundtrip: %q", got.Title)
	}
}

func TestMigrationsListing(t *testing.T) {
	cases := []struct {
		dir  Direction
		want string
	}{
		{dir: Up, want: "0001_init"},
		{dir: Down, want: "0001_init"},
	}
	for _, tc := range cases {
		got, err := Migrations(tc.dir)
		if err != nil {
			t.Fatalf("%s: list: %v", tc.dir, err)
		}
		if len(got) == 0 || got[0].Name != tc.want {
			t.Fatalf("%s: unexpected migrations: %+v", tc.dir, got)
		}
		for _, m := range got {
			if m.SQL == "" {
				t.Fatalf("%s: empty script %s", tc.dir, m.Name)
			}
		}
	}
	if _, err := Migrations(Direction("sideways")); err == nil {
		t.Fatalf("expected unknown direction to fail")
	}
}

func TestMigrateDownDropsSchema(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate-down.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := Migrate(context.Background(), db, Up); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := Migrate(context.Background(), db, Down); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'calendar_events'`).Scan(&n); err != nil {
		t.Fatalf("query schema: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected calendar_events to be dropped, found %d", n)
	}
}
