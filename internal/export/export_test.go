package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/plannerd/internal/model"
)

var stamp = time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)

func sampleEvents() []model.CalendarEvent {
	day := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	return []model.CalendarEvent{
		{ID: "b", Title: "Standup", Category: "meeting", StartTime: day.Add(11 * time.Hour), EndTime: day.Add(11*time.Hour + 15*time.Minute)},
		{ID: "a", Title: "Write report", Category: "work", Description: "draft", StartTime: day.Add(9*time.Hour + 15*time.Minute), EndTime: day.Add(11*time.Hour + 45*time.Minute)},
	}
}

func TestWriteICSLayout(t *testing.T) {
	payload := string(ICS(sampleEvents(), stamp))
	lines := strings.Split(strings.TrimSuffix(payload, "\r\n"), "\r\n")
	want := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//plannerd//planner//EN",
		"CALSCALE:GREGORIAN",
		"BEGIN:VEVENT",
		"UID:a@plannerd",
		"DTSTAMP:20260209T080000",
		"DTSTART:20260209T091500",
		"DTEND:20260209T114500",
		"SUMMARY:Write report",
		"DESCRIPTION:draft",
		"CATEGORIES:work",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:b@plannerd",
		"DTSTAMP:20260209T080000",
		"DTSTART:20260209T110000",
		"DTEND:20260209T111500",
		"SUMMARY:Standup",
		"CATEGORIES:meeting",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	if len(lines) != len(want) {
		t.Fatalf("unexpected line count %d:\n%s", len(lines), payload)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q want %q", i, lines[i], want[i])
		}
	}
}

func TestEscapeText(t *testing.T) {
	got := EscapeText("a,b;c\\d\ne")
	if got != `a\,b\;c\\d\ne` {
		t.Fatalf("unexpected escape: %q", got)
	}
}

func TestICSRoundTripThroughParser(t *testing.T) {
	start := time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)
	title := `Lunch, then; review C:\Temp`
	description := "bring notes, slides; laptop\nsecond line"
	events := []model.CalendarEvent{{
		ID:          "ev-1",
		Title:       title,
		Description: description,
		Category:    "focus",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
	}}
	payload := ICS(events, stamp)
	for _, raw := range []string{`SUMMARY:Lunch\, then\; review C:\\Temp`, `DESCRIPTION:bring notes\, slides\; laptop\nsecond line`} {
		if !bytes.Contains(payload, []byte(raw)) {
			t.Fatalf("payload missing %q:\n%s", raw, payload)
		}
	}

	parsed, err := ParseICS(bytes.NewReader(payload), time.UTC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(parsed) != 1 {
		t.Fatalf("expected one event, got %d", len(parsed))
	}
	got := parsed[0]
	if got.Title != title || got.Description != description {
		t.Fatalf("round trip mismatch:\n title %q\n desc  %q", got.Title, got.Description)
	}
	if got.UID != "ev-1" || got.Category != "focus" {
		t.Fatalf("unexpected uid/category: %+v", got)
	}
	if !got.Start.Equal(start) || !got.End.Equal(start.Add(time.Hour)) {
		t.Fatalf("unexpected times: %s - %s", got.Start, got.End)
	}
}

func TestICSRoundTripKeepsLiteralBackslashes(t *testing.T) {
	start := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name     string
		text     string
		category string
	}{
		{name: "backslash n", text: `C:\new\table`, category: `a\nb`},
		{name: "backslash comma", text: `a\,b`, category: "deep, work"},
		{name: "backslash semicolon", text: `x\;y`, category: "one; two"},
		{name: "double backslash", text: `x\\y`, category: `back\slash`},
		{name: "mixed", text: "line one\nline, two; \\n done", category: `q\,r`},
	}
	for _, tc := range cases {
		events := []model.CalendarEvent{{
			ID:          "rt",
			Title:       tc.text,
			Description: tc.text,
			Category:    tc.category,
			StartTime:   start,
			EndTime:     start.Add(time.Hour),
		}}
		parsed, err := ParseICS(bytes.NewReader(ICS(events, stamp)), time.UTC)
		if err != nil {
			t.Fatalf("%s: parse: %v", tc.name, err)
		}
		if len(parsed) != 1 {
			t.Fatalf("%s: expected one event, got %d", tc.name, len(parsed))
		}
		got := parsed[0]
		if got.Title != tc.text || got.Description != tc.text {
			t.Fatalf("%s: text mismatch: title %q desc %q want %q", tc.name, got.Title, got.Description, tc.text)
		}
		if got.Category != tc.category {
			t.Fatalf("%s: category %q want %q", tc.name, got.Category, tc.category)
		}
	}
}

func TestICSFoldsLongLines(t *testing.T) {
	start := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	title := strings.TrimSpace(strings.Repeat("plan the quarterly offsite agenda ", 6))
	payload := ICS([]model.CalendarEvent{{ID: "long", Title: title, StartTime: start, EndTime: start.Add(time.Hour)}}, stamp)
	for _, line := range strings.Split(string(payload), "\r\n") {
		if len(line) > 75 {
			t.Fatalf("line longer than 75 octets: %d", len(line))
		}
	}
	parsed, err := ParseICS(bytes.NewReader(payload), time.UTC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed[0].Title != title {
		t.Fatalf("folded title mismatch: %q", parsed[0].Title)
	}
}

func TestParseICSRejectsEmpty(t *testing.T) {
	payload := ICS(nil, stamp)
	if _, err := ParseICS(bytes.NewReader(payload), time.UTC); err != ErrEmptyCalendar {
		t.Fatalf("expected ErrEmptyCalendar, got %v", err)
	}
}

func TestDocumentRowsSortedAndEscaped(t *testing.T) {
	events := append(sampleEvents(), model.CalendarEvent{
		ID: "c", Title: "Pipes | and <b>tags</b>", Category: "other",
		StartTime: time.Date(2026, 2, 9, 7, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 2, 9, 7, 30, 0, 0, time.UTC),
	})
	out, err := Document("schedule 2026-W07", events)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	doc := string(out)
	if !strings.HasPrefix(doc, "<html>") || !strings.Contains(doc, "<table>") {
		t.Fatalf("missing envelope or table:\n%s", doc)
	}
	first := strings.Index(doc, "Pipes")
	second := strings.Index(doc, "Write report")
	third := strings.Index(doc, "Standup")
	if first < 0 || second < 0 || third < 0 || !(first < second && second < third) {
		t.Fatalf("rows not in start order:\n%s", doc)
	}
	if strings.Contains(doc, "<b>tags</b>") {
		t.Fatalf("raw html leaked into document:\n%s", doc)
	}
	if !strings.Contains(doc, "Mon 2026-02-09 09:15 - 11:45") {
		t.Fatalf("missing time range:\n%s", doc)
	}
}

func TestFilenames(t *testing.T) {
	if got := DocumentFilename("Mi Agenda", "2026-W07"); got != "Mi-Agenda-2026-W07.doc" {
		t.Fatalf("unexpected doc filename %q", got)
	}
	if got := DocumentFilename("", "2026-02"); got != "schedule-2026-02.doc" {
		t.Fatalf("unexpected default doc filename %q", got)
	}
	if got := ICSFilename("2026-02-09"); got != "schedule-2026-02-09.ics" {
		t.Fatalf("unexpected ics filename %q", got)
	}
}
