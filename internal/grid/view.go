package grid

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

var ErrInvalidViewMode = errors.New("grid: invalid view mode")

func ParseViewMode(raw string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(raw))) {
	case ViewDay:
		return ViewDay, nil
	case "", ViewWeek:
		return ViewWeek, nil
	case ViewMonth:
		return ViewMonth, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidViewMode, raw)
	}
}

// ViewRange returns the half-open day range [from, to) shown for focus.
func ViewRange(mode ViewMode, focus time.Time, weekStart time.Weekday) (time.Time, time.Time) {
	y, m, d := focus.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, focus.Location())
	switch mode {
	case ViewDay:
		return day, day.AddDate(0, 0, 1)
	case ViewMonth:
		first := time.Date(y, m, 1, 0, 0, 0, 0, focus.Location())
		return first, first.AddDate(0, 1, 0)
	default:
		offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
		from := day.AddDate(0, 0, -offset)
		return from, from.AddDate(0, 0, 7)
	}
}

// RangeLabel names the visible range for filenames: 2026-02-09, 2026-W07
// or 2026-02.
func RangeLabel(mode ViewMode, focus time.Time, weekStart time.Weekday) string {
	from, _ := ViewRange(mode, focus, weekStart)
	switch mode {
	case ViewDay:
		return from.Format("2006-01-02")
	case ViewMonth:
		return from.Format("2006-01")
	default:
		year, week := from.AddDate(0, 0, 3).ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
}

// Step moves focus one view length forward (dir > 0) or back.
func Step(mode ViewMode, focus time.Time, dir int) time.Time {
	if dir == 0 {
		return focus
	}
	n := 1
	if dir < 0 {
		n = -1
	}
	switch mode {
	case ViewDay:
		return focus.AddDate(0, 0, n)
	case ViewMonth:
		y, m, _ := focus.Date()
		return time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, focus.Location())
	default:
		return focus.AddDate(0, 0, 7*n)
	}
}

// Days lists each calendar day in [from, to).
func Days(from, to time.Time) []time.Time {
	var out []time.Time
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func ParseWeekStart(raw string) time.Weekday {
	if strings.EqualFold(strings.TrimSpace(raw), "sunday") {
		return time.Sunday
	}
	return time.Monday
}
