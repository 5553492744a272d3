package model

import (
	"errors"
	"testing"
	"time"
)

func TestCalendarEventValidate(t *testing.T) {
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	base := CalendarEvent{
		Title:      "Write report",
		Category:   "work",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		SourceType: SourceTypeWorkTask,
		SourceID:   "1",
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid event, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*CalendarEvent)
	}{
		{"blank title", func(e *CalendarEvent) { e.Title = "   " }},
		{"end before start", func(e *CalendarEvent) { e.EndTime = start.Add(-time.Minute) }},
		{"too short", func(e *CalendarEvent) { e.EndTime = start.Add(10 * time.Minute) }},
		{"bad source type", func(e *CalendarEvent) { e.SourceType = "calendar" }},
		{"custom with source id", func(e *CalendarEvent) { e.SourceType = SourceTypeCustom }},
	}
	for _, tc := range cases {
		ev := base
		tc.mutate(&ev)
		if err := ev.Validate(); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestColorForIsDeterministic(t *testing.T) {
	if ColorFor("Work") != ColorFor("work") {
		t.Fatal("expected case-insensitive colour mapping")
	}
	if ColorFor("work") == ColorFor("personal") {
		t.Fatal("expected distinct colours for work and personal")
	}
	if ColorFor("unknown project") != ColorFor(string(CategoryOther)) {
		t.Fatal("expected unknown category to use the other colour")
	}
	ev := CalendarEvent{Category: "meeting"}
	if ev.Color() != ColorFor("meeting") {
		t.Fatal("expected event colour derived from category")
	}
}
