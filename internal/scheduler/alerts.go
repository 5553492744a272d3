package scheduler

import (
	"time"

	"github.com/sandeepkv93/plannerd/internal/model"
)

// AlertsFor builds alerts for events that have not started yet. Each fires
// lead before its event, or immediately when that moment already passed.
func AlertsFor(events []model.CalendarEvent, lead time.Duration, now time.Time) []Alert {
	out := make([]Alert, 0, len(events))
	for _, ev := range events {
		if !ev.StartTime.After(now) {
			continue
		}
		trigger := ev.StartTime.Add(-lead)
		if trigger.Before(now) {
			trigger = now
		}
		out = append(out, Alert{
			ID:        ev.ID,
			Title:     ev.Title,
			StartsAt:  ev.StartTime,
			TriggerAt: trigger,
		})
	}
	return out
}
