package state

import (
	"time"

	"github.com/sandeepkv93/plannerd/internal/model"
)

// Snapshot is the visible event set. It is replaced wholesale after each
// successful persistence call, never patched in place.
type Snapshot struct {
	From     time.Time
	To       time.Time
	Events   []model.CalendarEvent
	LoadedAt time.Time
}

// Find returns the event with id from the snapshot.
func (s Snapshot) Find(id string) (model.CalendarEvent, bool) {
	for _, ev := range s.Events {
		if ev.ID == id {
			return ev, true
		}
	}
	return model.CalendarEvent{}, false
}

// EventsOn lists the snapshot events that touch the calendar day of day.
func (s Snapshot) EventsOn(day time.Time) []model.CalendarEvent {
	start := model.StartOfDay(day)
	end := start.AddDate(0, 0, 1)
	out := make([]model.CalendarEvent, 0)
	for _, ev := range s.Events {
		if ev.StartTime.Before(end) && ev.EndTime.After(start) {
			out = append(out, ev)
		}
	}
	return out
}

type EventStore = Store[Snapshot]

func NewEventStore() *EventStore {
	return NewStore(Snapshot{})
}
