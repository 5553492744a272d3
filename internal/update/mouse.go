package update

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/plannerd/internal/grid"
	"github.com/sandeepkv93/plannerd/internal/interaction"
	"github.com/sandeepkv93/plannerd/internal/model"
)

// handleMouse drives the pointer adapter. Dragging a sidebar item creates,
// dragging an event body moves it and dragging its bottom row resizes it.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.Dialog.Active || m.LinkPrompt.Active || m.Palette.Active {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollBy(-1)
			return m, nil
		case tea.MouseButtonWheelDown:
			m.scrollBy(1)
			return m, nil
		case tea.MouseButtonLeft:
			return m.mousePress(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		return m.mouseMotion(msg.X, msg.Y)
	case tea.MouseActionRelease:
		return m.mouseRelease(msg.X, msg.Y)
	}
	return m, nil
}

func (m Model) mousePress(x, y int) (tea.Model, tea.Cmd) {
	if m.drag.active {
		m.cancelDrag("gesture cancelled")
	}
	if x < sidebarWidth {
		idx := y - gridTop
		if idx < 0 || idx >= len(m.Items) {
			return m, nil
		}
		m.Pane = PaneSidebar
		m.SidebarCursor = idx
		item := m.Items[idx]
		if err := m.pointer.DragStart(interaction.Payload{Item: &item}); err != nil {
			m.fail(err)
			return m, nil
		}
		m.drag = dragState{active: true, pressX: x, pressY: y}
		return m, nil
	}

	l := m.layout()
	col, row, ok := l.screenToGrid(x, y)
	if !ok {
		return m, nil
	}
	m.Pane = PaneGrid
	m.CursorCol, m.CursorRow = col, row
	ev, bottom, ok := m.eventAt(x, y)
	if !ok {
		m.SelectedEventID = ""
		m.syncPreview()
		return m, nil
	}
	m.SelectedEventID = ev.ID
	m.syncPreview()
	payload := interaction.Payload{Event: &ev}
	if bottom && m.ViewMode != grid.ViewMonth {
		if err := m.pointer.ResizeStart(payload, float64(y)); err != nil {
			m.fail(err)
			return m, nil
		}
		m.drag = dragState{active: true, resizing: true, pressX: x, pressY: y, eventID: ev.ID}
		return m, nil
	}
	if err := m.pointer.DragStart(payload); err != nil {
		m.fail(err)
		return m, nil
	}
	m.drag = dragState{active: true, pressX: x, pressY: y, eventID: ev.ID}
	return m, nil
}

func (m Model) mouseMotion(x, y int) (tea.Model, tea.Cmd) {
	if !m.drag.active || m.drag.keyboard {
		return m, nil
	}
	if x != m.drag.pressX || y != m.drag.pressY {
		m.drag.moved = true
	}
	if m.drag.resizing {
		m.pointer.ResizeMove(float64(y))
		return m, nil
	}
	cell, ok := m.layout().CellAt(interaction.Point{X: float64(x), Y: float64(y)})
	if !ok {
		return m, nil
	}
	m.feedCell(cell)
	return m, nil
}

func (m Model) mouseRelease(x, y int) (tea.Model, tea.Cmd) {
	if !m.drag.active || m.drag.keyboard {
		return m, nil
	}
	d := m.drag
	m.drag = dragState{}
	if !d.moved && x == d.pressX && y == d.pressY {
		// A click selects without committing anything.
		m.pointer.DragEnd()
		return m, nil
	}
	if d.resizing {
		commit, ok := m.pointer.ResizeEnd(float64(y))
		if !ok {
			m.Status = StatusBar{Text: "resize unchanged"}
			return m, nil
		}
		return m.handleCommit(commit)
	}
	cell, ok := m.layout().CellAt(interaction.Point{X: float64(x), Y: float64(y)})
	if !ok {
		m.cancelDrag("dropped outside the grid")
		return m, nil
	}
	commit, ok := m.pointer.Drop(cell)
	m.pointer.DragEnd()
	if !ok {
		return m, nil
	}
	return m.handleCommit(commit)
}

func (m *Model) scrollBy(rows int) {
	if m.ViewMode == grid.ViewMonth {
		return
	}
	l := m.layout()
	m.scroll = clamp(m.scroll+rows, 0, max(0, l.totalRows()-l.visibleRows))
}

// eventAt finds the event drawn at a screen position and reports whether the
// position is on its bottom row.
func (m Model) eventAt(x, y int) (model.CalendarEvent, bool, bool) {
	l := m.layout()
	col, row, ok := l.screenToGrid(x, y)
	if !ok {
		return model.CalendarEvent{}, false, false
	}
	if l.mode == grid.ViewMonth {
		day, ok := l.dayAt(col, row)
		if !ok {
			return model.CalendarEvent{}, false, false
		}
		idx := (y-gridTop)%monthRowHeight - 1
		events := m.monthEvents(day)
		if idx < 0 || idx >= len(events) {
			return model.CalendarEvent{}, false, false
		}
		return events[idx], false, true
	}

	blocks, owners := l.blocks(m.Snapshot.Events, m.SelectedEventID)
	lanes := 1
	for _, b := range blocks {
		if b.Col == col && b.Lanes > lanes {
			lanes = b.Lanes
		}
	}
	lane := l.laneAt(x, col, lanes)
	for i, b := range blocks {
		if b.Col != col || row < b.StartRow || row >= b.EndRow {
			continue
		}
		if b.Lane*lanes/max(1, b.Lanes) != lane {
			continue
		}
		bottom := b.EndRow-b.StartRow > 1 && row == b.EndRow-1
		return owners[i], bottom, true
	}
	return model.CalendarEvent{}, false, false
}

// eventAtCell is the keyboard equivalent of eventAt: the first event drawn
// in the cell.
func (m Model) eventAtCell(col, row int) (model.CalendarEvent, bool) {
	l := m.layout()
	if l.mode == grid.ViewMonth {
		day, ok := l.dayAt(col, row)
		if !ok {
			return model.CalendarEvent{}, false
		}
		events := m.monthEvents(day)
		if len(events) == 0 {
			return model.CalendarEvent{}, false
		}
		return events[0], true
	}
	blocks, owners := l.blocks(m.Snapshot.Events, m.SelectedEventID)
	for i, b := range blocks {
		if b.Col == col && row >= b.StartRow && row < b.EndRow {
			return owners[i], true
		}
	}
	return model.CalendarEvent{}, false
}

func (m Model) monthEvents(day time.Time) []model.CalendarEvent {
	events := m.Snapshot.EventsOn(day)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events
}
