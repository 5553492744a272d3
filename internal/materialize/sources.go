package materialize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/plannerd/internal/aggregate"
	"github.com/sandeepkv93/plannerd/internal/model"
	"github.com/sandeepkv93/plannerd/internal/storage"
)

// LoadInputs reads the four task collections for the aggregator. Each list
// is loaded unfiltered; the aggregator applies the open predicates.
func (m *Materializer) LoadInputs(ctx context.Context, today time.Time) (aggregate.Inputs, error) {
	in := aggregate.Inputs{Today: today}
	var err error
	if in.Work, err = m.backend.ListTasks(ctx, storage.TaskListFilter{OwnerID: m.owner, Source: model.SourceWork}); err != nil {
		return aggregate.Inputs{}, fmt.Errorf("materialize: load work tasks: %w", err)
	}
	if in.Personal, err = m.backend.ListTasks(ctx, storage.TaskListFilter{OwnerID: m.owner, Source: model.SourcePersonal}); err != nil {
		return aggregate.Inputs{}, fmt.Errorf("materialize: load personal tasks: %w", err)
	}
	if in.Projects, err = m.backend.ListProjects(ctx, m.owner); err != nil {
		return aggregate.Inputs{}, fmt.Errorf("materialize: load projects: %w", err)
	}
	if in.ProjectTasks, err = m.backend.ListProjectTasks(ctx, storage.ProjectTaskListFilter{OwnerID: m.owner}); err != nil {
		return aggregate.Inputs{}, fmt.Errorf("materialize: load project tasks: %w", err)
	}
	if in.Recurring, err = m.backend.ListRecurringTasks(ctx, storage.RecurringTaskListFilter{OwnerID: m.owner}); err != nil {
		return aggregate.Inputs{}, fmt.Errorf("materialize: load recurring tasks: %w", err)
	}
	return in, nil
}

// Orphans lists linked events whose source task no longer exists. They are
// reported, never deleted.
func (m *Materializer) Orphans(ctx context.Context) ([]model.CalendarEvent, error) {
	events, err := m.backend.ListEvents(ctx, storage.EventListFilter{OwnerID: m.owner})
	if err != nil {
		return nil, fmt.Errorf("materialize: list events: %w", err)
	}

	var (
		projectIDs   map[string]bool
		recurringIDs map[string]bool
	)
	out := make([]model.CalendarEvent, 0)
	for _, ev := range events {
		if !ev.IsLinked() {
			continue
		}
		source, _ := model.SourceFor(ev.SourceType)
		exists := true
		switch source {
		case model.SourceWork, model.SourcePersonal:
			_, getErr := m.backend.GetTask(ctx, m.owner, source, ev.SourceID)
			if errors.Is(getErr, storage.ErrNotFound) {
				exists = false
			} else if getErr != nil {
				return nil, fmt.Errorf("materialize: check %s task %q: %w", source, ev.SourceID, getErr)
			}
		case model.SourceProject:
			if projectIDs == nil {
				tasks, listErr := m.backend.ListProjectTasks(ctx, storage.ProjectTaskListFilter{OwnerID: m.owner})
				if listErr != nil {
					return nil, fmt.Errorf("materialize: load project tasks: %w", listErr)
				}
				projectIDs = make(map[string]bool, len(tasks))
				for _, t := range tasks {
					projectIDs[t.ID] = true
				}
			}
			exists = projectIDs[ev.SourceID]
		case model.SourceRecurring:
			if recurringIDs == nil {
				tasks, listErr := m.backend.ListRecurringTasks(ctx, storage.RecurringTaskListFilter{OwnerID: m.owner})
				if listErr != nil {
					return nil, fmt.Errorf("materialize: load recurring tasks: %w", listErr)
				}
				recurringIDs = make(map[string]bool, len(tasks))
				for _, t := range tasks {
					recurringIDs[t.ID] = true
				}
			}
			exists = recurringIDs[ev.SourceID]
		}
		if !exists {
			out = append(out, m.localize(ev))
		}
	}
	return out, nil
}
