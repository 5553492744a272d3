// Package materialize turns committed gestures into persisted calendar
// events and keeps the visible snapshot current.
package materialize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/plannerd/internal/interaction"
	"github.com/sandeepkv93/plannerd/internal/model"
	"github.com/sandeepkv93/plannerd/internal/state"
	"github.com/sandeepkv93/plannerd/internal/storage"
)

var (
	ErrConfirmRequired = errors.New("materialize: create commits must go through the edit dialog")
	ErrAlreadyLinked   = errors.New("materialize: event is already linked to a task")
	ErrInvalidLink     = errors.New("materialize: events can only be linked to work or personal tasks")
)

// Backend is the part of the data store the materializer needs.
type Backend interface {
	storage.EventStore
	storage.TaskStore
	ListProjects(ctx context.Context, ownerID string) ([]model.Project, error)
	ListProjectTasks(ctx context.Context, filter storage.ProjectTaskListFilter) ([]model.ProjectTask, error)
	ListRecurringTasks(ctx context.Context, filter storage.RecurringTaskListFilter) ([]model.RecurringTask, error)
}

type Options struct {
	OwnerID  string
	Location *time.Location
	Snapshot *state.EventStore
	Logger   *slog.Logger
	Now      func() time.Time
	NewID    func() string
}

type Materializer struct {
	backend  Backend
	owner    string
	loc      *time.Location
	snapshot *state.EventStore
	log      *slog.Logger
	now      func() time.Time
	newID    func() string

	mu   sync.Mutex
	from time.Time
	to   time.Time
}

func New(backend Backend, opts Options) (*Materializer, error) {
	if backend == nil {
		return nil, errors.New("materialize: nil backend")
	}
	if strings.TrimSpace(opts.OwnerID) == "" {
		return nil, storage.ErrOwnerRequired
	}
	m := &Materializer{
		backend:  backend,
		owner:    opts.OwnerID,
		loc:      opts.Location,
		snapshot: opts.Snapshot,
		log:      opts.Logger,
		now:      opts.Now,
		newID:    opts.NewID,
	}
	if m.loc == nil {
		m.loc = time.Local
	}
	if m.snapshot == nil {
		m.snapshot = state.NewEventStore()
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	return m, nil
}

func (m *Materializer) Snapshot() *state.EventStore { return m.snapshot }

func (m *Materializer) Location() *time.Location { return m.loc }

func (m *Materializer) OwnerID() string { return m.owner }

// EventDraft is the editable form of an event, as shown in the dialog.
type EventDraft struct {
	ID          string
	Title       string
	Description string
	Category    string
	Start       time.Time
	End         time.Time
	SourceType  model.SourceType
	SourceID    string
}

// DraftFromCommit pre-fills the dialog for a create commit.
func DraftFromCommit(c interaction.Commit) EventDraft {
	d := EventDraft{Start: c.Start, End: c.End, SourceType: model.SourceTypeCustom}
	if item := c.Payload.Item; item != nil {
		d.Title = item.Title
		d.SourceType = model.SourceTypeFor(item.Source)
		d.SourceID = item.ID
		d.Category = string(model.DefaultCategoryFor(item.Source))
		if model.Category(strings.ToLower(item.Category)).IsKnown() {
			d.Category = strings.ToLower(item.Category)
		}
	}
	if ev := c.Payload.Event; ev != nil {
		d = DraftFromEvent(*ev)
		d.Start, d.End = c.Start, c.End
	}
	return d
}

func DraftFromEvent(ev model.CalendarEvent) EventDraft {
	return EventDraft{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Category:    ev.Category,
		Start:       ev.StartTime,
		End:         ev.EndTime,
		SourceType:  ev.SourceType,
		SourceID:    ev.SourceID,
	}
}

type SaveResult struct {
	Event   model.CalendarEvent
	Created bool
	// OfferLink is set once, after creating an event that has no source
	// task. Declining it needs no call.
	OfferLink bool
}

// Save validates d and creates or updates the event. On failure nothing in
// the snapshot changes and the caller keeps its dialog open.
func (m *Materializer) Save(ctx context.Context, d EventDraft) (SaveResult, error) {
	now := m.now()
	ev := model.CalendarEvent{
		ID:          d.ID,
		OwnerID:     m.owner,
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Category:    strings.TrimSpace(d.Category),
		StartTime:   d.Start,
		EndTime:     d.End,
		SourceType:  d.SourceType,
		SourceID:    d.SourceID,
		UpdatedAt:   now,
	}
	if ev.SourceType == "" {
		ev.SourceType = model.SourceTypeCustom
	}
	if ev.Category == "" {
		ev.Category = string(model.CategoryOther)
	}
	if err := ev.Validate(); err != nil {
		return SaveResult{}, err
	}

	created := ev.ID == ""
	if created {
		ev.ID = m.newID()
		ev.CreatedAt = now
		if err := m.backend.CreateEvent(ctx, ev); err != nil {
			m.log.Error("create event failed", "title", ev.Title, "err", err)
			return SaveResult{}, fmt.Errorf("materialize: create event: %w", err)
		}
	} else {
		existing, err := m.backend.GetEvent(ctx, m.owner, ev.ID)
		if err != nil {
			m.log.Error("load event for update failed", "id", ev.ID, "err", err)
			return SaveResult{}, fmt.Errorf("materialize: update event %q: %w", ev.ID, err)
		}
		ev.CreatedAt = existing.CreatedAt
		if err := m.backend.UpdateEvent(ctx, ev); err != nil {
			m.log.Error("update event failed", "id", ev.ID, "err", err)
			return SaveResult{}, fmt.Errorf("materialize: update event %q: %w", ev.ID, err)
		}
	}
	m.log.Info("event saved", "id", ev.ID, "created", created, "start", ev.StartTime, "end", ev.EndTime, "color", ev.Color())

	m.reloadQuietly(ctx)
	return SaveResult{
		Event:     m.localize(ev),
		Created:   created,
		OfferLink: created && ev.SourceType == model.SourceTypeCustom,
	}, nil
}

// ApplyCommit persists a move or resize without confirmation.
func (m *Materializer) ApplyCommit(ctx context.Context, c interaction.Commit) (SaveResult, error) {
	if c.NeedsConfirm || c.Mode == interaction.ModeCreateFromItem {
		return SaveResult{}, ErrConfirmRequired
	}
	if c.Payload.Event == nil {
		return SaveResult{}, interaction.ErrInvalidPayload
	}
	d := DraftFromEvent(*c.Payload.Event)
	d.Start, d.End = c.Start, c.End
	return m.Save(ctx, d)
}

// LinkToNewTask creates a task in the work or personal collection from the
// event and points the event at it.
func (m *Materializer) LinkToNewTask(ctx context.Context, eventID string, source model.Source) (model.Task, model.CalendarEvent, error) {
	if source != model.SourceWork && source != model.SourcePersonal {
		return model.Task{}, model.CalendarEvent{}, fmt.Errorf("%w: %q", ErrInvalidLink, source)
	}
	ev, err := m.backend.GetEvent(ctx, m.owner, eventID)
	if err != nil {
		return model.Task{}, model.CalendarEvent{}, fmt.Errorf("materialize: link event %q: %w", eventID, err)
	}
	if ev.IsLinked() {
		return model.Task{}, model.CalendarEvent{}, ErrAlreadyLinked
	}
	now := m.now()
	end := ev.EndTime
	task := model.Task{
		ID:         m.newID(),
		Title:      ev.Title,
		Status:     model.TaskStatusTodo,
		Category:   ev.Category,
		PlannedEnd: &end,
		CreatedAt:  now,
	}
	if err := m.backend.CreateTask(ctx, m.owner, source, task); err != nil {
		m.log.Error("create linked task failed", "event", eventID, "source", source, "err", err)
		return model.Task{}, model.CalendarEvent{}, fmt.Errorf("materialize: create %s task: %w", source, err)
	}
	ev.SourceType = model.SourceTypeFor(source)
	ev.SourceID = task.ID
	ev.UpdatedAt = now
	if err := m.backend.UpdateEvent(ctx, ev); err != nil {
		m.log.Error("link event failed", "event", eventID, "task", task.ID, "err", err)
		return task, model.CalendarEvent{}, fmt.Errorf("materialize: link event %q: %w", eventID, err)
	}
	m.reloadQuietly(ctx)
	return task, m.localize(ev), nil
}

func (m *Materializer) Delete(ctx context.Context, id string) error {
	if err := m.backend.DeleteEvent(ctx, m.owner, id); err != nil {
		m.log.Error("delete event failed", "id", id, "err", err)
		return fmt.Errorf("materialize: delete event %q: %w", id, err)
	}
	m.log.Info("event deleted", "id", id)
	m.reloadQuietly(ctx)
	return nil
}

// Refresh loads events overlapping [from, to) and replaces the snapshot.
func (m *Materializer) Refresh(ctx context.Context, from, to time.Time) (state.Snapshot, error) {
	m.mu.Lock()
	m.from, m.to = from, to
	m.mu.Unlock()
	return m.reload(ctx)
}

// Reload refreshes the last requested range.
func (m *Materializer) Reload(ctx context.Context) (state.Snapshot, error) {
	return m.reload(ctx)
}

// Events lists events in an arbitrary range without touching the snapshot.
func (m *Materializer) Events(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error) {
	items, err := m.backend.ListEvents(ctx, storage.EventListFilter{OwnerID: m.owner, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("materialize: list events: %w", err)
	}
	for i := range items {
		items[i] = m.localize(items[i])
	}
	return items, nil
}

func (m *Materializer) reload(ctx context.Context) (state.Snapshot, error) {
	m.mu.Lock()
	from, to := m.from, m.to
	m.mu.Unlock()
	items, err := m.Events(ctx, from, to)
	if err != nil {
		m.log.Error("refresh events failed", "from", from, "to", to, "err", err)
		return m.snapshot.Get(), err
	}
	snap := state.Snapshot{From: from, To: to, Events: items, LoadedAt: m.now()}
	m.snapshot.Set(snap)
	return snap, nil
}

func (m *Materializer) reloadQuietly(ctx context.Context) {
	if _, err := m.reload(ctx); err != nil {
		m.log.Warn("snapshot left stale after write", "err", err)
	}
}

func (m *Materializer) localize(ev model.CalendarEvent) model.CalendarEvent {
	ev.StartTime = ev.StartTime.In(m.loc)
	ev.EndTime = ev.EndTime.In(m.loc)
	return ev
}
