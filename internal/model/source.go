package model

import "fmt"

// Source identifies which backing collection a task was drawn from.
type Source string

const (
	SourceWork      Source = "work"
	SourcePersonal  Source = "personal"
	SourceProject   Source = "project"
	SourceRecurring Source = "recurring"
)

func (s Source) IsValid() bool {
	switch s {
	case SourceWork, SourcePersonal, SourceProject, SourceRecurring:
		return true
	default:
		return false
	}
}

// SourceType is the back-reference kind stored on a CalendarEvent.
type SourceType string

const (
	SourceTypeCustom        SourceType = "custom"
	SourceTypeWorkTask      SourceType = "work_task"
	SourceTypePersonalTask  SourceType = "personal_task"
	SourceTypeProjectTask   SourceType = "project_task"
	SourceTypeRecurringTask SourceType = "recurring_task"
)

func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeCustom, SourceTypeWorkTask, SourceTypePersonalTask, SourceTypeProjectTask, SourceTypeRecurringTask:
		return true
	default:
		return false
	}
}

// SourceTypeFor maps a task source to the event back-reference kind.
func SourceTypeFor(s Source) SourceType {
	switch s {
	case SourceWork:
		return SourceTypeWorkTask
	case SourcePersonal:
		return SourceTypePersonalTask
	case SourceProject:
		return SourceTypeProjectTask
	case SourceRecurring:
		return SourceTypeRecurringTask
	default:
		return SourceTypeCustom
	}
}

// SourceFor is the inverse of SourceTypeFor. Custom events have no source.
func SourceFor(t SourceType) (Source, bool) {
	switch t {
	case SourceTypeWorkTask:
		return SourceWork, true
	case SourceTypePersonalTask:
		return SourcePersonal, true
	case SourceTypeProjectTask:
		return SourceProject, true
	case SourceTypeRecurringTask:
		return SourceRecurring, true
	default:
		return "", false
	}
}

// CompositeKey disambiguates ids that are only unique within one collection.
func CompositeKey(s Source, id string) string {
	return fmt.Sprintf("%s-%s", s, id)
}
