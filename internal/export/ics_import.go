package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

var ErrEmptyCalendar = errors.New("export: calendar has no events")

// ImportedEvent is a VEVENT read back from an interchange file.
type ImportedEvent struct {
	UID         string
	Title       string
	Description string
	Category    string
	Start       time.Time
	End         time.Time
}

// ParseICS reads the VEVENTs of a calendar file. Floating times are placed
// in loc. Events without DTSTART are skipped.
func ParseICS(r io.Reader, loc *time.Location) ([]ImportedEvent, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("export: parse calendar: %w", err)
	}
	events := cal.Events()
	if len(events) == 0 {
		return nil, ErrEmptyCalendar
	}

	out := make([]ImportedEvent, 0, len(events))
	for _, ve := range events {
		item, ok := parseVEvent(ve, loc)
		if !ok {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (ImportedEvent, bool) {
	var out ImportedEvent
	start := ve.GetProperty(ical.ComponentPropertyDtStart)
	if start == nil {
		return out, false
	}
	startAt, err := parseICSTime(start.Value, loc)
	if err != nil {
		return out, false
	}
	out.Start = startAt
	out.End = startAt.Add(time.Hour)
	if end := ve.GetProperty(ical.ComponentPropertyDtEnd); end != nil {
		if endAt, err := parseICSTime(end.Value, loc); err == nil {
			out.End = endAt
		}
	}
	out.UID = strings.TrimSuffix(propText(ve, ical.ComponentPropertyUniqueId), UIDSuffix)
	out.Title = propText(ve, ical.ComponentPropertySummary)
	out.Description = propText(ve, ical.ComponentPropertyDescription)
	// The parser has already unescaped the list, so the value is kept as one
	// category. The writer only ever emits one.
	out.Category = propText(ve, ical.ComponentPropertyCategories)
	return out, true
}

// propText is the decoded value: golang-ical unescapes TEXT properties
// while parsing.
func propText(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("export: empty time value")
	case strings.HasSuffix(v, "Z"):
		t, err := time.Parse(ICSTimeLayout+"Z", v)
		if err != nil {
			return time.Time{}, err
		}
		return t.In(loc), nil
	case strings.Contains(v, "T"):
		return time.ParseInLocation(ICSTimeLayout, v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
