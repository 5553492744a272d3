package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/plannerd/internal/export"
	"github.com/sandeepkv93/plannerd/internal/grid"
	"github.com/sandeepkv93/plannerd/internal/interaction"
	"github.com/sandeepkv93/plannerd/internal/materialize"
	"github.com/sandeepkv93/plannerd/internal/model"
)

const ioTimeout = 10 * time.Second

func (m Model) loadItemsCmd() tea.Cmd {
	planner, today := m.planner, m.now()
	if planner == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		in, err := planner.LoadInputs(ctx, today.In(planner.Location()))
		return ItemsLoadedMsg{Inputs: in, Err: err}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	planner := m.planner
	if planner == nil {
		return nil
	}
	from, to := m.fetchRange()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		snap, err := planner.Refresh(ctx, from, to)
		return EventsLoadedMsg{Snapshot: snap, Err: err}
	}
}

// fetchRange is the range whose events are drawn. Month view shows whole
// weeks, so it loads the padding days too.
func (m Model) fetchRange() (time.Time, time.Time) {
	l := m.layout()
	if len(l.days) == 0 {
		return grid.ViewRange(m.ViewMode, m.Focus, m.weekStart)
	}
	return l.days[0], l.days[len(l.days)-1].AddDate(0, 0, 1)
}

func (m Model) saveCmd(d materialize.EventDraft) tea.Cmd {
	planner := m.planner
	if planner == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		res, err := planner.Save(ctx, d)
		return EventSavedMsg{Result: res, Snapshot: planner.Snapshot().Get(), Err: err}
	}
}

func (m Model) applyCommitCmd(c interaction.Commit) tea.Cmd {
	planner := m.planner
	if planner == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		res, err := planner.ApplyCommit(ctx, c)
		return EventSavedMsg{Result: res, Snapshot: planner.Snapshot().Get(), Err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	planner := m.planner
	if planner == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		err := planner.Delete(ctx, id)
		return EventDeletedMsg{ID: id, Snapshot: planner.Snapshot().Get(), Err: err}
	}
}

func (m Model) linkCmd(id string, source model.Source) tea.Cmd {
	planner := m.planner
	if planner == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		task, ev, err := planner.LinkToNewTask(ctx, id, source)
		return EventLinkedMsg{Task: task, Event: ev, Source: source, Snapshot: planner.Snapshot().Get(), Err: err}
	}
}

// exportCmd writes the visible range, not the padded month grid.
func (m Model) exportCmd(format, dir string) tea.Cmd {
	planner := m.planner
	if planner == nil {
		return nil
	}
	from, to := grid.ViewRange(m.ViewMode, m.Focus, m.weekStart)
	label := grid.RangeLabel(m.ViewMode, m.Focus, m.weekStart)
	docLabel, stamp := m.exportLabel, m.now().UTC()
	if dir == "" || dir == "." {
		dir = m.exportDir
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		events, err := planner.Events(ctx, from, to)
		if err != nil {
			return ExportedMsg{Err: err}
		}
		var path string
		if format == "doc" {
			path, err = export.WriteDocumentFile(dir, docLabel, label, events)
		} else {
			path, err = export.WriteICSFile(dir, label, events, stamp)
		}
		return ExportedMsg{Path: path, Err: err}
	}
}
