package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/plannerd/internal/model"
)

var (
	ErrNotFound         = errors.New("storage: not found")
	ErrOwnerRequired    = errors.New("storage: owner id is required")
	ErrUnsupportedTable = errors.New("storage: collection has no task table")
)

// Repository is the backing data store. Every call is scoped to one owner.
type Repository interface {
	EventStore
	TaskStore

	CreateProject(ctx context.Context, ownerID string, in model.Project) error
	DeleteProject(ctx context.Context, ownerID, id string) error
	ListProjects(ctx context.Context, ownerID string) ([]model.Project, error)

	CreateProjectTask(ctx context.Context, ownerID string, in model.ProjectTask) error
	UpdateProjectTask(ctx context.Context, ownerID string, in model.ProjectTask) error
	DeleteProjectTask(ctx context.Context, ownerID, id string) error
	ListProjectTasks(ctx context.Context, filter ProjectTaskListFilter) ([]model.ProjectTask, error)

	CreateRecurringTask(ctx context.Context, ownerID string, in model.RecurringTask) error
	UpdateRecurringTask(ctx context.Context, ownerID string, in model.RecurringTask) error
	DeleteRecurringTask(ctx context.Context, ownerID, id string) error
	ListRecurringTasks(ctx context.Context, filter RecurringTaskListFilter) ([]model.RecurringTask, error)
}

type EventStore interface {
	CreateEvent(ctx context.Context, in model.CalendarEvent) error
	GetEvent(ctx context.Context, ownerID, id string) (model.CalendarEvent, error)
	UpdateEvent(ctx context.Context, in model.CalendarEvent) error
	DeleteEvent(ctx context.Context, ownerID, id string) error
	ListEvents(ctx context.Context, filter EventListFilter) ([]model.CalendarEvent, error)
}

// TaskStore covers the work and personal collections, which share a shape.
type TaskStore interface {
	CreateTask(ctx context.Context, ownerID string, source model.Source, in model.Task) error
	GetTask(ctx context.Context, ownerID string, source model.Source, id string) (model.Task, error)
	UpdateTask(ctx context.Context, ownerID string, source model.Source, in model.Task) error
	DeleteTask(ctx context.Context, ownerID string, source model.Source, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error)
}
