package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidStatus = errors.New("model: invalid task status")
	ErrInvalidSource = errors.New("model: invalid task source")
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// Task is the shared shape of the work and personal collections.
type Task struct {
	ID         string
	Title      string
	Status     TaskStatus
	Archived   bool
	Urgent     bool
	Category   string
	PlannedEnd *time.Time
	CreatedAt  time.Time
}

// IsOpen reports whether the task still belongs on the planner sidebar.
func (t Task) IsOpen() bool {
	return t.Status != TaskStatusDone && !t.Archived
}

// IsOverdue reports whether the planned end lies before the start of today.
func (t Task) IsOverdue(today time.Time) bool {
	if t.PlannedEnd == nil || t.Status == TaskStatusDone {
		return false
	}
	return t.PlannedEnd.Before(StartOfDay(today))
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

type Project struct {
	ID    string
	Title string
}

type ProjectTask struct {
	ID         string
	ProjectID  string
	Title      string
	Completed  bool
	PlannedEnd *time.Time
	CreatedAt  time.Time
}

type RecurringTask struct {
	ID              string
	Title           string
	Category        string
	Rule            RecurrenceRule
	LastCompletedAt *time.Time
	CreatedAt       time.Time
}

// DueOn reports whether the task recurs on day and has not been completed
// that day yet.
func (t RecurringTask) DueOn(day time.Time) bool {
	if !t.Rule.OccursOn(day, t.LastCompletedAt) {
		return false
	}
	if t.LastCompletedAt != nil && SameDay(*t.LastCompletedAt, day) {
		return false
	}
	return true
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
