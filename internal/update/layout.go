package update

import (
	"math"
	"time"

	"github.com/sandeepkv93/plannerd/internal/grid"
	"github.com/sandeepkv93/plannerd/internal/interaction"
	"github.com/sandeepkv93/plannerd/internal/model"
	"github.com/sandeepkv93/plannerd/internal/views"
)

// Screen geometry. Line 0 is the header, line 1 holds the sidebar heading
// and the day labels, and grid rows and sidebar items start at gridTop.
const (
	sidebarWidth   = 32
	gutterWidth    = 6
	gridTop        = 2
	monthRowHeight = 4
	reservedLines  = 14
	minColWidth    = 10
	maxDayColWidth = 60
)

// gridLayout maps screen cells to grid cells. It implements
// interaction.HitTester.
type gridLayout struct {
	mode        grid.ViewMode
	days        []time.Time
	monthFrom   time.Time
	monthTo     time.Time
	colWidth    int
	rowsPerHour int
	dayStart    int
	dayEnd      int
	scroll      int
	visibleRows int
}

func (m Model) layout() gridLayout {
	l := gridLayout{
		mode:        m.ViewMode,
		rowsPerHour: m.rowsPerHour,
		dayStart:    m.dayStart,
		dayEnd:      m.dayEnd,
		scroll:      m.scroll,
		visibleRows: m.visibleRows(),
	}
	from, to := grid.ViewRange(m.ViewMode, m.Focus, m.weekStart)
	if m.ViewMode == grid.ViewMonth {
		l.monthFrom, l.monthTo = from, to
		start, _ := grid.ViewRange(grid.ViewWeek, from, m.weekStart)
		_, end := grid.ViewRange(grid.ViewWeek, to.AddDate(0, 0, -1), m.weekStart)
		l.days = grid.Days(start, end)
	} else {
		l.days = grid.Days(from, to)
	}
	width := (m.Width - sidebarWidth - gutterWidth) / l.columns()
	if width < minColWidth {
		width = minColWidth
	}
	if width > maxDayColWidth {
		width = maxDayColWidth
	}
	l.colWidth = width
	return l
}

func (m Model) visibleRows() int {
	rows := m.Height - gridTop - reservedLines
	if rows < 8 {
		rows = 8
	}
	return rows
}

func (l gridLayout) columns() int {
	if l.mode == grid.ViewMonth {
		return 7
	}
	return len(l.days)
}

func (l gridLayout) totalRows() int {
	if l.mode == grid.ViewMonth {
		return (len(l.days) + 6) / 7
	}
	return (l.dayEnd - l.dayStart) * l.rowsPerHour
}

func (l gridLayout) originX() int { return sidebarWidth + gutterWidth }

// screenToGrid converts a screen position to a column and an absolute row.
func (l gridLayout) screenToGrid(x, y int) (int, int, bool) {
	if x < l.originX() || y < gridTop {
		return 0, 0, false
	}
	col := (x - l.originX()) / l.colWidth
	if col >= l.columns() {
		return 0, 0, false
	}
	var row int
	if l.mode == grid.ViewMonth {
		row = (y - gridTop) / monthRowHeight
	} else {
		if y-gridTop >= l.visibleRows {
			return 0, 0, false
		}
		row = y - gridTop + l.scroll
	}
	if row >= l.totalRows() {
		return 0, 0, false
	}
	return col, row, true
}

func (l gridLayout) CellAt(p interaction.Point) (interaction.Cell, bool) {
	col, row, ok := l.screenToGrid(int(p.X), int(p.Y))
	if !ok {
		return interaction.Cell{}, false
	}
	return l.cellAt(col, row)
}

// cellAt builds the drop target for a column and absolute row. Month cells
// carry no hour.
func (l gridLayout) cellAt(col, row int) (interaction.Cell, bool) {
	if col < 0 || row < 0 || col >= l.columns() || row >= l.totalRows() {
		return interaction.Cell{}, false
	}
	if l.mode == grid.ViewMonth {
		idx := row*7 + col
		if idx >= len(l.days) {
			return interaction.Cell{}, false
		}
		return interaction.Cell{Day: l.days[idx]}, true
	}
	hour := l.dayStart + row/l.rowsPerHour
	return interaction.Cell{
		Day:     l.days[col],
		Hour:    hour,
		HasHour: true,
		OffsetY: float64(row % l.rowsPerHour),
	}, true
}

// dayAt is the calendar day under a column and row.
func (l gridLayout) dayAt(col, row int) (time.Time, bool) {
	cell, ok := l.cellAt(col, row)
	return cell.Day, ok
}

// rowAt is the absolute row containing t on its own day, rounded down, or
// up when ceil is set. Rows are clamped to the visible hour window.
func (l gridLayout) rowAt(t time.Time, ceil bool) int {
	minutes := float64(t.Hour()*60+t.Minute()) - float64(l.dayStart*60)
	raw := minutes * float64(l.rowsPerHour) / 60
	var row int
	if ceil {
		row = int(math.Ceil(raw))
	} else {
		row = int(math.Floor(raw))
	}
	if row < 0 {
		row = 0
	}
	if limit := l.totalRows(); row > limit {
		row = limit
	}
	return row
}

// blocks places the snapshot events on the time grid, one block per event
// per visible day, with lanes for overlaps.
func (l gridLayout) blocks(events []model.CalendarEvent, selectedID string) ([]views.Block, []model.CalendarEvent) {
	out := make([]views.Block, 0)
	owners := make([]model.CalendarEvent, 0)
	for col, day := range l.days {
		windowStart := day.Add(time.Duration(l.dayStart) * time.Hour)
		windowEnd := day.Add(time.Duration(l.dayEnd) * time.Hour)

		var spans []grid.Span
		var visible []model.CalendarEvent
		for _, ev := range events {
			start, end := ev.StartTime.In(day.Location()), ev.EndTime.In(day.Location())
			if start.Before(windowStart) {
				start = windowStart
			}
			if end.After(windowEnd) {
				end = windowEnd
			}
			if !end.After(start) {
				continue
			}
			spans = append(spans, grid.Span{ID: ev.ID, Start: start, End: end})
			visible = append(visible, ev)
		}
		for i, p := range grid.Layout(spans) {
			startRow := l.rowAt(spans[i].Start, false)
			endRow := l.rowAt(spans[i].End, true)
			if spans[i].End.Equal(windowEnd) {
				endRow = l.totalRows()
			}
			if endRow <= startRow {
				endRow = startRow + 1
			}
			out = append(out, views.Block{
				Col:      col,
				StartRow: startRow,
				EndRow:   endRow,
				Lane:     p.Lane,
				Lanes:    p.Lanes,
				Title:    visible[i].Title,
				Color:    visible[i].Color(),
				Selected: visible[i].ID == selectedID,
			})
			owners = append(owners, visible[i])
		}
	}
	return out, owners
}

// laneAt is the lane index under screen column x inside grid column col.
func (l gridLayout) laneAt(x, col, lanes int) int {
	if lanes <= 1 {
		return 0
	}
	offset := x - l.originX() - col*l.colWidth
	lane := offset / (l.colWidth / lanes)
	if lane >= lanes {
		lane = lanes - 1
	}
	return lane
}
