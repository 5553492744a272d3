package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/plannerd/internal/grid"
	"github.com/sandeepkv93/plannerd/internal/interaction"
	"github.com/sandeepkv93/plannerd/internal/model"
	"github.com/sandeepkv93/plannerd/internal/views"
)

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	loading := ""
	if m.Loading {
		loading = " " + m.loadSpinner.View()
	}
	header := fmt.Sprintf("plannerd | %s %s | gesture: %s%s",
		m.ViewMode, grid.RangeLabel(m.ViewMode, m.Focus, m.weekStart), m.machine.Mode(), loading)

	return views.RenderApp(views.AppData{
		Header:       header,
		Sidebar:      m.renderSidebar(),
		Grid:         m.renderGrid(),
		Detail:       m.renderDetail(),
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderAlerts(),
		Footer:       fmt.Sprintf("keys: %s day | %s week | %s month | tab pane | / cmd | %s help | %s quit", m.Keys.Day, m.Keys.Week, m.Keys.Month, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderSidebar() string {
	items := make([]views.SidebarItem, 0, len(m.Items))
	for i, it := range m.Items {
		items = append(items, views.SidebarItem{
			Title:    it.Title,
			Source:   string(it.Source),
			Category: it.Category,
			Overdue:  it.Overdue,
			Urgent:   it.Urgent,
			Selected: i == m.SidebarCursor,
		})
	}
	return views.RenderSidebar(views.SidebarData{
		Heading: fmt.Sprintf("tasks (%s)", m.projector.SortMode()),
		Items:   items,
		Width:   sidebarWidth,
		Height:  m.visibleRows(),
		Focused: m.Pane == PaneSidebar,
	})
}

func (m Model) renderGrid() string {
	l := m.layout()
	if l.mode == grid.ViewMonth {
		return m.renderMonth(l)
	}

	labels := make([]string, 0, len(l.days))
	for _, d := range l.days {
		labels = append(labels, d.Format("Mon 01-02"))
	}
	blocks, _ := l.blocks(m.Snapshot.Events, m.SelectedEventID)
	return views.RenderTimeGrid(views.TimeGridData{
		DayLabels:   labels,
		FirstHour:   l.dayStart,
		RowsPerHour: l.rowsPerHour,
		TotalRows:   l.totalRows(),
		Scroll:      l.scroll,
		Height:      l.visibleRows,
		ColWidth:    l.colWidth,
		GutterWidth: gutterWidth,
		Blocks:      blocks,
		Preview:     m.previewBlock(l),
		CursorCol:   m.CursorCol,
		CursorRow:   m.CursorRow,
		ShowCursor:  m.Pane == PaneGrid,
	})
}

// previewBlock draws the machine's live preview. It is never stored.
func (m Model) previewBlock(l gridLayout) *views.Block {
	start, end, ok := m.machine.Preview()
	if !ok {
		return nil
	}
	col := -1
	for i, d := range l.days {
		if model.SameDay(d, start) {
			col = i
		}
	}
	if col < 0 {
		return nil
	}
	title := m.machine.Mode().String()
	if p := m.machine.Payload(); p.Item != nil {
		title = p.Item.Title
	} else if p.Event != nil {
		title = p.Event.Title
	}
	endRow := l.rowAt(end, true)
	if !model.SameDay(start, end) {
		endRow = l.totalRows()
	}
	startRow := l.rowAt(start, false)
	if endRow <= startRow {
		endRow = startRow + 1
	}
	return &views.Block{
		Col:      col,
		StartRow: startRow,
		EndRow:   endRow,
		Title:    fmt.Sprintf("%s %s", formatClock(start), title),
	}
}

func (m Model) renderMonth(l gridLayout) string {
	weekdays := make([]string, 0, 7)
	for i := 0; i < 7 && i < len(l.days); i++ {
		weekdays = append(weekdays, l.days[i].Format("Mon"))
	}
	var target time.Time
	if _, end, ok := m.machine.Preview(); ok && m.machine.Mode() != interaction.ModeNone {
		target = end
	}
	cells := make([]views.MonthCell, 0, len(l.days))
	for i, d := range l.days {
		cell := views.MonthCell{
			Label:   d.Format("02"),
			InMonth: !d.Before(l.monthFrom) && d.Before(l.monthTo),
			Cursor:  m.Pane == PaneGrid && i == m.CursorRow*7+m.CursorCol,
		}
		if !target.IsZero() && model.SameDay(d, target) {
			cell.Label += " *"
		}
		for _, ev := range m.monthEvents(d) {
			cell.Events = append(cell.Events, views.MonthEvent{
				Title:    formatClock(ev.StartTime) + " " + ev.Title,
				Color:    ev.Color(),
				Selected: ev.ID == m.SelectedEventID,
			})
		}
		cells = append(cells, cell)
	}
	return views.RenderMonthGrid(views.MonthGridData{
		Weekdays:    weekdays,
		Cells:       cells,
		ColWidth:    l.colWidth,
		RowHeight:   monthRowHeight,
		GutterWidth: gutterWidth,
	})
}

func (m Model) renderDetail() string {
	parts := make([]string, 0, 3)
	switch {
	case m.Dialog.Active:
		parts = append(parts, m.renderDialog())
	case m.LinkPrompt.Active:
		parts = append(parts, views.RenderLinkPrompt(m.LinkPrompt.Title))
	default:
		if ev, ok := m.selectedEvent(); ok {
			parts = append(parts, views.RenderEventDetail(views.EventDetailData{
				Title:    ev.Title,
				When:     formatSpan(ev.StartTime, ev.EndTime),
				Category: ev.Category,
				Color:    ev.Color(),
				Source:   sourceLabel(ev),
				Preview:  m.preview.View(),
			}))
		}
	}
	if m.Palette.Active {
		parts = append(parts, views.RenderCommandPalette(true, m.commandInput.View()))
	}
	if help := m.renderHelpIfVisible(); help != "" {
		parts = append(parts, help)
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) renderAlerts() string {
	lines := make([]string, 0, len(m.Alerts))
	for _, a := range m.Alerts {
		lines = append(lines, fmt.Sprintf("- %s at %s", a.Title, a.StartsAt.Format("15:04")))
	}
	return views.RenderAlerts(lines)
}

func renderDescription(ev model.CalendarEvent) string {
	return views.RenderMarkdown(ev.Description)
}

func sourceLabel(ev model.CalendarEvent) string {
	if !ev.IsLinked() {
		return string(model.SourceTypeCustom)
	}
	return fmt.Sprintf("%s %s", ev.SourceType, ev.SourceID)
}

func formatClock(t time.Time) string {
	return t.Format("15:04")
}

func formatSpan(start, end time.Time) string {
	if start.IsZero() {
		return "-"
	}
	if model.SameDay(start, end) {
		return fmt.Sprintf("%s %s-%s", start.Format("Mon 2006-01-02"), formatClock(start), formatClock(end))
	}
	return fmt.Sprintf("%s - %s", start.Format("Mon 2006-01-02 15:04"), end.Format("Mon 2006-01-02 15:04"))
}
