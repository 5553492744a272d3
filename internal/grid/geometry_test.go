package grid

import (
	"testing"
	"time"
)

func TestPixelToTime(t *testing.T) {
	cases := []struct {
		name   string
		offset float64
		height float64
		want   Clock
	}{
		{name: "top", offset: 0, height: 60, want: Clock{0, 0}},
		{name: "rounds down", offset: 7, height: 60, want: Clock{0, 0}},
		{name: "rounds up", offset: 8, height: 60, want: Clock{0, 15}},
		{name: "nine fifteen", offset: 9*60 + 20, height: 60, want: Clock{9, 15}},
		{name: "minute never sixty", offset: 9*60 + 58, height: 60, want: Clock{9, 45}},
		{name: "half hour at 40px", offset: 20, height: 40, want: Clock{0, 30}},
		{name: "negative clamps", offset: -30, height: 60, want: Clock{0, 0}},
		{name: "past midnight clamps", offset: 25 * 60, height: 60, want: Clock{23, 45}},
		{name: "zero height", offset: 100, height: 0, want: Clock{0, 0}},
	}
	for _, tc := range cases {
		if got := PixelToTime(tc.offset, tc.height); got != tc.want {
			t.Fatalf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}
}

func TestCellTime(t *testing.T) {
	if got := CellTime(9, 20, 60); got != (Clock{9, 15}) {
		t.Fatalf("unexpected 09:00+20px: %s", got)
	}
	if got := CellTime(11, 40, 60); got != (Clock{11, 45}) {
		t.Fatalf("unexpected 11:00+40px: %s", got)
	}
	if got := CellTime(15, 30, 60); got != (Clock{15, 30}) {
		t.Fatalf("unexpected 15:00+30px: %s", got)
	}
	if got := CellTime(30, 0, 60); got != (Clock{23, 0}) {
		t.Fatalf("expected hour clamp, got %s", got)
	}
}

func TestSnapIsIdempotent(t *testing.T) {
	day := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	for _, height := range []float64{40, 60, 4} {
		for y := 0.0; y < 24*height; y += height / 7 {
			first := PixelToTime(y, height)
			ts := TimeToTimestamp(day, first)
			again := PixelToTime(ClockToPixel(ClockOf(ts), height), height)
			if again != first {
				t.Fatalf("height %.0f offset %.2f: %s became %s", height, y, first, again)
			}
			if first.Minute%SnapMinutes != 0 || first.Minute > 45 {
				t.Fatalf("unsnapped minute %d", first.Minute)
			}
		}
	}
}

func TestTimeToTimestampAndDuration(t *testing.T) {
	loc := time.FixedZone("planner", 3600)
	day := time.Date(2026, 2, 11, 22, 10, 0, 0, loc)
	start := TimeToTimestamp(day, Clock{10, 0})
	end := TimeToTimestamp(day, Clock{11, 30})
	if !start.Equal(time.Date(2026, 2, 11, 10, 0, 0, 0, loc)) {
		t.Fatalf("unexpected start: %s", start)
	}
	if got := DurationMinutes(start, end); got != 90 {
		t.Fatalf("unexpected duration: %d", got)
	}
}

func TestSnapDelta(t *testing.T) {
	cases := map[float64]int{0: 0, 7: 0, 8: 15, 44: 45, -20: -15, 61: 60}
	for delta, want := range cases {
		if got := SnapDelta(delta, 60); got != want {
			t.Fatalf("delta %.0f: got %d want %d", delta, got, want)
		}
	}
}
