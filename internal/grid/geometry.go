// Package grid maps offsets inside a fixed-height hour grid to snapped clock
// values and lays out overlapping events into side-by-side lanes.
package grid

import (
	"fmt"
	"math"
	"time"
)

// SnapMinutes is the quantum every placement path rounds to.
const SnapMinutes = 15

const maxSnappedMinute = 60 - SnapMinutes

// Clock is a snapped time of day.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) Before(other Clock) bool {
	return c.Minutes() < other.Minutes()
}

// ClockOf reads the hour and minute of t in its own location.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// PixelToTime converts a vertical offset from the top of the grid into a
// snapped clock. The hour is floored, the minute rounded to the nearest
// quantum and clamped to 45; it never carries into the hour.
func PixelToTime(offsetY, hourHeight float64) Clock {
	if hourHeight <= 0 || offsetY <= 0 || math.IsNaN(offsetY) {
		return Clock{}
	}
	raw := offsetY / hourHeight * 60
	hour := int(math.Floor(raw / 60))
	if hour > 23 {
		return Clock{Hour: 23, Minute: maxSnappedMinute}
	}
	rem := raw - float64(hour*60)
	return Clock{Hour: hour, Minute: snapMinute(rem)}
}

// CellTime resolves a position inside the cell of a known hour.
func CellTime(hour int, offsetInCell, hourHeight float64) Clock {
	minute := 0
	if hourHeight > 0 && offsetInCell > 0 {
		minute = snapMinute(offsetInCell / hourHeight * 60)
	}
	return Clock{Hour: clampHour(hour), Minute: minute}
}

// TimeToTimestamp places clock on the calendar day of day.
func TimeToTimestamp(day time.Time, c Clock) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, day.Location())
}

// ClockToPixel is the top offset of c inside the grid.
func ClockToPixel(c Clock, hourHeight float64) float64 {
	return float64(c.Minutes()) / 60 * hourHeight
}

func DurationMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// SnapDelta converts a pixel delta into a whole number of snapped minutes.
// Negative deltas stay negative.
func SnapDelta(deltaY, hourHeight float64) int {
	if hourHeight <= 0 {
		return 0
	}
	raw := deltaY / hourHeight * 60
	return int(math.Round(raw/SnapMinutes)) * SnapMinutes
}

func snapMinute(raw float64) int {
	m := int(math.Round(raw/SnapMinutes)) * SnapMinutes
	if m > maxSnappedMinute {
		return maxSnappedMinute
	}
	if m < 0 {
		return 0
	}
	return m
}

func clampHour(h int) int {
	if h < 0 {
		return 0
	}
	if h > 23 {
		return 23
	}
	return h
}
