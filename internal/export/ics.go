// Package export serializes the visible event set into a calendar
// interchange file and a printable document.
package export

import (
	"bufio"
	"bytes"
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sandeepkv93/plannerd/internal/model"
)

const (
	// ICSTimeLayout is the floating local basic format used for all
	// timestamps.
	ICSTimeLayout = "20060102T150405"
	UIDSuffix     = "@plannerd"
	prodID        = "-//plannerd//planner//EN"
	maxLineOctets = 75
)

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// EscapeText applies the TEXT value escaping rules.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// WriteICS writes one VEVENT per event inside a VCALENDAR envelope. Events
// are emitted in start order; stamp becomes every DTSTAMP.
func WriteICS(w io.Writer, events []model.CalendarEvent, stamp time.Time) error {
	bw := bufio.NewWriter(w)
	lw := &lineWriter{w: bw}
	lw.line("BEGIN:VCALENDAR")
	lw.line("VERSION:2.0")
	lw.line("PRODID:" + prodID)
	lw.line("CALSCALE:GREGORIAN")
	for _, ev := range sortedByStart(events) {
		lw.line("BEGIN:VEVENT")
		lw.line("UID:" + EscapeText(ev.ID+UIDSuffix))
		lw.line("DTSTAMP:" + stamp.Format(ICSTimeLayout))
		lw.line("DTSTART:" + ev.StartTime.Format(ICSTimeLayout))
		lw.line("DTEND:" + ev.EndTime.Format(ICSTimeLayout))
		lw.line("SUMMARY:" + EscapeText(ev.Title))
		if ev.Description != "" {
			lw.line("DESCRIPTION:" + EscapeText(ev.Description))
		}
		category := ev.Category
		if strings.TrimSpace(category) == "" {
			category = string(model.CategoryOther)
		}
		lw.line("CATEGORIES:" + EscapeText(category))
		lw.line("END:VEVENT")
	}
	lw.line("END:VCALENDAR")
	if lw.err != nil {
		return lw.err
	}
	return bw.Flush()
}

// ICS is WriteICS into memory.
func ICS(events []model.CalendarEvent, stamp time.Time) []byte {
	var buf bytes.Buffer
	_ = WriteICS(&buf, events, stamp)
	return buf.Bytes()
}

type lineWriter struct {
	w   *bufio.Writer
	err error
}

// line writes a content line folded at 75 octets without splitting a rune.
func (lw *lineWriter) line(s string) {
	if lw.err != nil {
		return
	}
	limit := maxLineOctets
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if _, lw.err = lw.w.WriteString(s[:cut] + "\r\n "); lw.err != nil {
			return
		}
		s = s[cut:]
		// continuation lines carry a leading space
		limit = maxLineOctets - 1
	}
	_, lw.err = lw.w.WriteString(s + "\r\n")
}

func sortedByStart(events []model.CalendarEvent) []model.CalendarEvent {
	out := make([]model.CalendarEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
