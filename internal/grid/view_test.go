package grid

import (
	"errors"
	"testing"
	"time"
)

func TestViewRangeAndLabel(t *testing.T) {
	focus := time.Date(2026, 2, 11, 15, 0, 0, 0, time.UTC)
	cases := []struct {
		mode      ViewMode
		weekStart time.Weekday
		from      time.Time
		to        time.Time
		label     string
	}{
		{ViewDay, time.Monday, time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC), "2026-02-11"},
		{ViewWeek, time.Monday, time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC), "2026-W07"},
		{ViewWeek, time.Sunday, time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), "2026-W07"},
		{ViewMonth, time.Monday, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "2026-02"},
	}
	for _, tc := range cases {
		from, to := ViewRange(tc.mode, focus, tc.weekStart)
		if !from.Equal(tc.from) || !to.Equal(tc.to) {
			t.Fatalf("%s/%s: got [%s, %s)", tc.mode, tc.weekStart, from, to)
		}
		if got := RangeLabel(tc.mode, focus, tc.weekStart); got != tc.label {
			t.Fatalf("%s: label %q want %q", tc.mode, got, tc.label)
		}
	}
}

func TestStepAndDays(t *testing.T) {
	focus := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	if got := Step(ViewMonth, focus, 1); !got.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected next month: %s", got)
	}
	if got := Step(ViewWeek, focus, -1); !got.Equal(time.Date(2026, 1, 24, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected previous week: %s", got)
	}
	from, to := ViewRange(ViewWeek, focus, time.Monday)
	if got := len(Days(from, to)); got != 7 {
		t.Fatalf("expected 7 days, got %d", got)
	}
}

func TestParseViewMode(t *testing.T) {
	if m, err := ParseViewMode("Month"); err != nil || m != ViewMonth {
		t.Fatalf("unexpected parse: %v %v", m, err)
	}
	if _, err := ParseViewMode("year"); !errors.Is(err, ErrInvalidViewMode) {
		t.Fatalf("expected ErrInvalidViewMode, got %v", err)
	}
}
