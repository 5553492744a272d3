package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/plannerd/internal/aggregate"
	"github.com/sandeepkv93/plannerd/internal/grid"
	"github.com/sandeepkv93/plannerd/internal/interaction"
	"github.com/sandeepkv93/plannerd/internal/materialize"
	"github.com/sandeepkv93/plannerd/internal/model"
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Dialog.Active {
		return m.handleDialogKey(msg)
	}
	if m.LinkPrompt.Active {
		return m.handleLinkPromptKey(msg)
	}
	if m.Palette.Active {
		if msg.String() == m.Keys.Help {
			m.HelpVisible = !m.HelpVisible
			return m, nil
		}
		return m.handlePaletteKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", m.Keys.Quit:
		m.pointer.DragEnd()
		m.Quitting = true
		return m, tea.Quit
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case m.Keys.Day:
		return m.setView(grid.ViewDay)
	case m.Keys.Week:
		return m.setView(grid.ViewWeek)
	case m.Keys.Month:
		return m.setView(grid.ViewMonth)
	case "[":
		return m.step(-1)
	case "]":
		return m.step(1)
	case "t":
		return m.gotoDate(m.now())
	case "tab":
		if m.Pane == PaneSidebar {
			m.Pane = PaneGrid
		} else {
			m.Pane = PaneSidebar
		}
		return m, nil
	case "esc":
		if m.drag.active {
			m.cancelDrag("gesture cancelled")
		}
		return m, nil
	case "s":
		return m.toggleSort()
	}

	if m.Pane == PaneSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleGridKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.SidebarCursor < len(m.Items)-1 {
			m.SidebarCursor++
		}
	case "k", "up":
		if m.SidebarCursor > 0 {
			m.SidebarCursor--
		}
	case "enter", " ":
		if len(m.Items) == 0 {
			m.Status = StatusBar{Text: "no open tasks to place"}
			return m, nil
		}
		item := m.Items[m.SidebarCursor]
		if err := m.pointer.DragStart(interaction.Payload{Item: &item}); err != nil {
			m.fail(err)
			return m, nil
		}
		m.drag = dragState{active: true, keyboard: true}
		m.Pane = PaneGrid
		m.trackCursor()
		m.Status = StatusBar{Text: fmt.Sprintf("placing %q: move with arrows, enter to drop, esc to cancel", item.Title)}
	}
	return m, nil
}

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := m.layout()
	switch msg.String() {
	case "h", "left":
		m.moveCursor(l, -1, 0)
	case "l", "right":
		m.moveCursor(l, 1, 0)
	case "j", "down":
		m.moveCursor(l, 0, 1)
	case "k", "up":
		m.moveCursor(l, 0, -1)
	case "pgdown", "J":
		m.moveCursor(l, 0, max(1, m.visibleRows()/2))
	case "pgup", "K":
		m.moveCursor(l, 0, -max(1, m.visibleRows()/2))
	case "enter":
		if m.drag.active && m.drag.keyboard {
			return m.dropAtCursor()
		}
		if ev, ok := m.eventAtCell(m.CursorCol, m.CursorRow); ok {
			return m.openEventDialog(ev)
		}
		m.Status = StatusBar{Text: "nothing here: pick a task from the sidebar first"}
	case "m":
		ev, ok := m.eventAtCell(m.CursorCol, m.CursorRow)
		if !ok {
			return m, nil
		}
		if err := m.pointer.DragStart(interaction.Payload{Event: &ev}); err != nil {
			m.fail(err)
			return m, nil
		}
		m.drag = dragState{active: true, keyboard: true, eventID: ev.ID}
		m.trackCursor()
		m.Status = StatusBar{Text: fmt.Sprintf("moving %q: enter to drop, esc to cancel", ev.Title)}
	case "+", "=":
		return m.resizeByRows(1)
	case "-":
		return m.resizeByRows(-1)
	case "x", "delete":
		return m.deleteSelected()
	case "L":
		ev, ok := m.selectedEvent()
		if !ok {
			return m, nil
		}
		if ev.IsLinked() {
			m.Status = StatusBar{Text: "event is already linked to a task"}
			return m, nil
		}
		m.LinkPrompt = LinkPromptState{Active: true, EventID: ev.ID, Title: ev.Title}
	}
	return m, nil
}

func (m *Model) moveCursor(l gridLayout, dx, dy int) {
	m.CursorCol = clamp(m.CursorCol+dx, 0, l.columns()-1)
	m.CursorRow = clamp(m.CursorRow+dy, 0, l.totalRows()-1)
	m.ensureCursorVisible()
	if m.drag.active && m.drag.keyboard {
		m.trackCursor()
		return
	}
	if ev, ok := m.eventAtCell(m.CursorCol, m.CursorRow); ok {
		m.SelectedEventID = ev.ID
	} else {
		m.SelectedEventID = ""
	}
	m.syncPreview()
}

// trackCursor feeds the cursor cell to the gesture as pointer movement.
func (m *Model) trackCursor() {
	cell, ok := m.layout().cellAt(m.CursorCol, m.CursorRow)
	if !ok {
		return
	}
	m.feedCell(cell)
}

func (m *Model) feedCell(cell interaction.Cell) {
	if m.drag.hasCell && sameHourCell(m.drag.lastCell, cell) {
		m.pointer.DragOver(cell)
	} else {
		m.pointer.DragEnter(cell)
	}
	m.drag.lastCell = cell
	m.drag.hasCell = true
}

func sameHourCell(a, b interaction.Cell) bool {
	return model.SameDay(a.Day, b.Day) && a.HasHour == b.HasHour && a.Hour == b.Hour
}

func (m Model) dropAtCursor() (tea.Model, tea.Cmd) {
	cell, ok := m.layout().cellAt(m.CursorCol, m.CursorRow)
	if !ok {
		m.cancelDrag("dropped outside the grid")
		return m, nil
	}
	commit, ok := m.pointer.Drop(cell)
	m.pointer.DragEnd()
	m.drag = dragState{}
	if !ok {
		return m, nil
	}
	return m.handleCommit(commit)
}

func (m *Model) cancelDrag(reason string) {
	m.pointer.DragEnd()
	m.drag = dragState{}
	m.Status = StatusBar{Text: reason}
}

// handleCommit routes a finished gesture: creates go through the dialog,
// moves and resizes persist at once.
func (m Model) handleCommit(c interaction.Commit) (tea.Model, tea.Cmd) {
	if c.NeedsConfirm {
		return m.openDialog("new event", materialize.DraftFromCommit(c))
	}
	m.Status = StatusBar{Text: fmt.Sprintf("saving %s...", c.Mode)}
	return m, m.applyCommitCmd(c)
}

func (m Model) resizeByRows(rows int) (tea.Model, tea.Cmd) {
	if m.ViewMode == grid.ViewMonth {
		m.Status = StatusBar{Text: "resize needs the day or week view"}
		return m, nil
	}
	ev, ok := m.eventAtCell(m.CursorCol, m.CursorRow)
	if !ok {
		if ev, ok = m.selectedEvent(); !ok {
			return m, nil
		}
	}
	if err := m.pointer.ResizeStart(interaction.Payload{Event: &ev}, 0); err != nil {
		m.fail(err)
		return m, nil
	}
	m.pointer.ResizeMove(float64(rows))
	commit, ok := m.pointer.ResizeEnd(float64(rows))
	if !ok {
		m.Status = StatusBar{Text: "event is already at its shortest"}
		return m, nil
	}
	return m.handleCommit(commit)
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	ev, ok := m.selectedEvent()
	if !ok {
		m.Status = StatusBar{Text: "no event selected", IsError: true}
		return m, nil
	}
	return m, m.deleteCmd(ev.ID)
}

func (m Model) setView(mode grid.ViewMode) (tea.Model, tea.Cmd) {
	m.pointer.DragEnd()
	m.drag = dragState{}
	m.ViewMode = mode
	l := m.layout()
	m.CursorCol = clamp(m.CursorCol, 0, l.columns()-1)
	if mode == grid.ViewMonth {
		m.CursorRow = 0
	} else {
		m.CursorRow = clamp(m.CursorRow, 0, l.totalRows()-1)
	}
	m.ensureCursorVisible()
	m.Status = StatusBar{Text: fmt.Sprintf("view: %s", mode)}
	return m, m.refreshCmd()
}

func (m Model) step(dir int) (tea.Model, tea.Cmd) {
	m.Focus = grid.Step(m.ViewMode, m.Focus, dir)
	return m, m.refreshCmd()
}

func (m Model) gotoDate(t time.Time) (tea.Model, tea.Cmd) {
	m.Focus = model.StartOfDay(t.In(m.location()))
	m.Status = StatusBar{Text: "showing " + m.Focus.Format("2006-01-02")}
	return m, tea.Batch(m.refreshCmd(), m.loadItemsCmd())
}

func (m Model) toggleSort() (tea.Model, tea.Cmd) {
	mode := aggregate.SortCreatedDesc
	if m.projector.SortMode() == aggregate.SortCreatedDesc {
		mode = aggregate.SortPolicy
	}
	m.projector.SetSortMode(mode)
	m.Items = m.projector.Items()
	m.Status = StatusBar{Text: fmt.Sprintf("sort: %s", mode)}
	return m, nil
}

func (m *Model) ensureCursorVisible() {
	if m.ViewMode == grid.ViewMonth {
		m.scroll = 0
		return
	}
	rows := m.visibleRows()
	if m.CursorRow < m.scroll {
		m.scroll = m.CursorRow
	}
	if m.CursorRow >= m.scroll+rows {
		m.scroll = m.CursorRow - rows + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m Model) location() *time.Location {
	if m.planner != nil {
		return m.planner.Location()
	}
	return m.Focus.Location()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
