// Package aggregate merges the four task collections into the single ordered
// list the planner sidebar offers as drag sources.
package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/sandeepkv93/plannerd/internal/model"
)

const (
	UntitledPlaceholder  = "(untitled)"
	UnknownProjectMarker = "unknown project"
)

// Item is the normalized, read-only shape of a source task.
type Item struct {
	ID         string
	Title      string
	Source     model.Source
	Overdue    bool
	Urgent     bool
	PlannedEnd *time.Time
	CreatedAt  time.Time
	Category   string
}

// Key is the drag identity of the item. Raw ids collide across sources.
func (i Item) Key() string {
	return model.CompositeKey(i.Source, i.ID)
}

// Inputs are the backing lists as loaded from the store, unfiltered.
type Inputs struct {
	Today        time.Time
	Work         []model.Task
	Personal     []model.Task
	ProjectTasks []model.ProjectTask
	Projects     []model.Project
	Recurring    []model.RecurringTask
}

type SortMode string

const (
	// SortPolicy orders overdue first, then urgent, then oldest created.
	SortPolicy      SortMode = "policy"
	SortCreatedDesc SortMode = "created_desc"
)

// Build projects the inputs into the ordered sidebar list. Inputs are never
// mutated and the result is a fresh slice.
func Build(in Inputs, mode SortMode) []Item {
	out := make([]Item, 0, len(in.Work)+len(in.Personal)+len(in.ProjectTasks)+len(in.Recurring))
	seen := make(map[string]bool)
	appendItem := func(item Item) {
		if seen[item.Key()] {
			return
		}
		seen[item.Key()] = true
		out = append(out, item)
	}

	for _, t := range in.Work {
		if t.IsOpen() {
			appendItem(fromTask(t, model.SourceWork, in.Today))
		}
	}
	for _, t := range in.Personal {
		if t.IsOpen() {
			appendItem(fromTask(t, model.SourcePersonal, in.Today))
		}
	}

	projectTitles := make(map[string]string, len(in.Projects))
	for _, p := range in.Projects {
		projectTitles[p.ID] = p.Title
	}
	for _, t := range in.ProjectTasks {
		if t.Completed {
			continue
		}
		category := strings.TrimSpace(projectTitles[t.ProjectID])
		if category == "" {
			category = UnknownProjectMarker
		}
		appendItem(Item{
			ID:         t.ID,
			Title:      displayTitle(t.Title),
			Source:     model.SourceProject,
			PlannedEnd: t.PlannedEnd,
			CreatedAt:  t.CreatedAt,
			Category:   category,
		})
	}

	for _, t := range in.Recurring {
		if !t.DueOn(in.Today) {
			continue
		}
		appendItem(Item{
			ID:        t.ID,
			Title:     displayTitle(t.Title),
			Source:    model.SourceRecurring,
			CreatedAt: t.CreatedAt,
			Category:  categoryOr(t.Category, model.SourceRecurring),
		})
	}

	Sort(out, mode)
	return out
}

// Sort orders items in place. The sort is stable so ties keep input order.
func Sort(items []Item, mode SortMode) {
	switch mode {
	case SortCreatedDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return policyLess(items[i], items[j])
		})
	}
}

func policyLess(a, b Item) bool {
	if a.Overdue != b.Overdue {
		return a.Overdue
	}
	if a.Urgent != b.Urgent {
		return a.Urgent
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func fromTask(t model.Task, source model.Source, today time.Time) Item {
	return Item{
		ID:         t.ID,
		Title:      displayTitle(t.Title),
		Source:     source,
		Overdue:    t.IsOverdue(today),
		Urgent:     t.Urgent,
		PlannedEnd: t.PlannedEnd,
		CreatedAt:  t.CreatedAt,
		Category:   categoryOr(t.Category, source),
	}
}

func displayTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return UntitledPlaceholder
	}
	return title
}

func categoryOr(category string, source model.Source) string {
	if strings.TrimSpace(category) == "" {
		return string(model.DefaultCategoryFor(source))
	}
	return category
}
