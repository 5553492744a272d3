package state

import (
	"testing"
	"time"

	"github.com/sandeepkv93/plannerd/internal/model"
)

func TestStoreSubscribeAndUnsubscribe(t *testing.T) {
	s := NewStore(1)
	var seen []int
	unsubscribe := s.Subscribe(func(v int) { seen = append(seen, v) })

	s.Set(2)
	s.Update(func(v int) int { return v * 10 })
	unsubscribe()
	unsubscribe()
	s.Set(99)

	if s.Get() != 99 {
		t.Fatalf("unexpected value: %d", s.Get())
	}
	if len(seen) != 2 || seen[0] != 2 || seen[1] != 20 {
		t.Fatalf("unexpected notifications: %v", seen)
	}
}

func TestStoreSubscriberMayUnsubscribeDuringNotify(t *testing.T) {
	s := NewStore("")
	calls := 0
	var unsubscribe func()
	unsubscribe = s.Subscribe(func(string) {
		calls++
		unsubscribe()
	})
	s.Set("a")
	s.Set("b")
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestSnapshotEventsOn(t *testing.T) {
	day := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{Events: []model.CalendarEvent{
		{ID: "a", StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour)},
		{ID: "b", StartTime: day.Add(-time.Hour), EndTime: day},
		{ID: "c", StartTime: day.Add(23 * time.Hour), EndTime: day.Add(25 * time.Hour)},
	}}
	got := snap.EventsOn(day)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected events on day: %#v", got)
	}
	if _, ok := snap.Find("b"); !ok {
		t.Fatal("expected find")
	}
}
