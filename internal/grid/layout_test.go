package grid

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2026, 2, 9, h, m, 0, 0, time.UTC)
}

func TestLayoutAssignsLanes(t *testing.T) {
	spans := []Span{
		{ID: "a", Start: at(9, 0), End: at(10, 0)},
		{ID: "b", Start: at(9, 30), End: at(11, 0)},
		{ID: "c", Start: at(10, 0), End: at(10, 30)},
		{ID: "d", Start: at(12, 0), End: at(13, 0)},
	}
	got := Layout(spans)
	want := []Placement{
		{ID: "a", Lane: 0, Lanes: 2},
		{ID: "b", Lane: 1, Lanes: 2},
		{ID: "c", Lane: 0, Lanes: 2},
		{ID: "d", Lane: 0, Lanes: 1},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("span %s: got %+v want %+v", spans[i].ID, got[i], want[i])
		}
	}
}

func TestLayoutTouchingSpansShareLane(t *testing.T) {
	got := Layout([]Span{
		{ID: "x", Start: at(9, 0), End: at(10, 0)},
		{ID: "y", Start: at(10, 0), End: at(11, 0)},
	})
	for _, p := range got {
		if p.Lane != 0 || p.Lanes != 1 {
			t.Fatalf("expected single lane, got %+v", p)
		}
	}
}

func TestLayoutThreeWayOverlap(t *testing.T) {
	got := Layout([]Span{
		{ID: "1", Start: at(9, 0), End: at(12, 0)},
		{ID: "2", Start: at(9, 0), End: at(10, 0)},
		{ID: "3", Start: at(9, 15), End: at(9, 45)},
	})
	lanes := map[int]bool{}
	for _, p := range got {
		if p.Lanes != 3 {
			t.Fatalf("expected cluster width 3, got %+v", p)
		}
		lanes[p.Lane] = true
	}
	if len(lanes) != 3 {
		t.Fatalf("expected distinct lanes, got %+v", got)
	}
}

func TestLayoutEmpty(t *testing.T) {
	if got := Layout(nil); len(got) != 0 {
		t.Fatalf("expected empty layout, got %+v", got)
	}
}
