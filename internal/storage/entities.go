package storage

import (
	"time"

	"github.com/sandeepkv93/plannerd/internal/model"
)

// EventListFilter selects events overlapping [From, To). Zero bounds are
// open.
type EventListFilter struct {
	OwnerID    string
	From       time.Time
	To         time.Time
	SourceType model.SourceType
	SourceID   string
	Limit      int
	Offset     int
}

type TaskListFilter struct {
	OwnerID  string
	Source   model.Source
	// OpenOnly drops done and archived tasks.
	OpenOnly bool
	Limit    int
	Offset   int
}

type ProjectTaskListFilter struct {
	OwnerID   string
	ProjectID string
	OpenOnly  bool
	Limit     int
	Offset    int
}

type RecurringTaskListFilter struct {
	OwnerID string
	Limit   int
	Offset  int
}
