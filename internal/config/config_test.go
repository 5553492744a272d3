package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "plannerd.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HourHeight != 4 || cfg.WeekStart != "monday" || cfg.ExportLabel != "schedule" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 perms, got %v", info.Mode().Perm())
	}
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plannerd.yaml")
	raw := "owner_id: alice\nweek_start: Sunday\nhour_height: 0\nday_start_hour: 20\nday_end_hour: 8\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OwnerID != "alice" || cfg.WeekStart != "sunday" {
		t.Fatalf("unexpected values: %+v", cfg)
	}
	if cfg.HourHeight != 4 {
		t.Fatalf("expected default hour height, got %d", cfg.HourHeight)
	}
	if cfg.DayStartHour != 7 || cfg.DayEndHour != 22 {
		t.Fatalf("expected default day window, got %d-%d", cfg.DayStartHour, cfg.DayEndHour)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plannerd.yaml")
	cfg := Default()
	cfg.Listen = "127.0.0.1:9999"
	cfg.Alerts = false
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Listen != "127.0.0.1:9999" || got.Alerts {
		t.Fatalf("unexpected round trip: %+v", got)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PLANNERD_OWNER_ID", "bob")
	t.Setenv("PLANNERD_HOUR_HEIGHT", "6")
	t.Setenv("PLANNERD_ALERTS", "off")
	t.Setenv("PLANNERD_SCHEDULER_BUFFER", "not-a-number")

	cfg := FromEnv(Default())
	if cfg.OwnerID != "bob" || cfg.HourHeight != 6 || cfg.Alerts {
		t.Fatalf("unexpected env config: %+v", cfg)
	}
	if cfg.SchedulerBuffer != 64 {
		t.Fatalf("malformed value should be ignored, got %d", cfg.SchedulerBuffer)
	}
}

func TestLocation(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "UTC"
	loc, err := cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("unexpected location %v err=%v", loc, err)
	}
	cfg.Timezone = "Not/AZone"
	if _, err := cfg.Location(); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(""); err != ErrEmptyPath {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}
