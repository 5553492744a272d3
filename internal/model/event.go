package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MinEventDuration is the shortest interval a calendar event may cover.
const MinEventDuration = 15 * time.Minute

var ErrValidation = errors.New("model: validation failed")

type CalendarEvent struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Category    string
	StartTime   time.Time
	EndTime     time.Time
	SourceType  SourceType
	SourceID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Color is derived from Category and never stored.
func (e CalendarEvent) Color() string {
	return ColorFor(e.Category)
}

func (e CalendarEvent) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// IsLinked reports whether the event back-references a source task.
func (e CalendarEvent) IsLinked() bool {
	return e.SourceType != "" && e.SourceType != SourceTypeCustom && e.SourceID != ""
}

func (e CalendarEvent) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if e.StartTime.IsZero() || e.EndTime.IsZero() {
		return fmt.Errorf("%w: start and end time are required", ErrValidation)
	}
	if !e.EndTime.After(e.StartTime) {
		return fmt.Errorf("%w: end time must be after start time", ErrValidation)
	}
	if e.Duration() < MinEventDuration {
		return fmt.Errorf("%w: event must last at least %s", ErrValidation, MinEventDuration)
	}
	if e.SourceType != "" && !e.SourceType.IsValid() {
		return fmt.Errorf("%w: source type %q", ErrValidation, e.SourceType)
	}
	if e.SourceType == SourceTypeCustom && e.SourceID != "" {
		return fmt.Errorf("%w: custom events carry no source id", ErrValidation)
	}
	return nil
}
