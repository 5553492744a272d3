package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Block is an event (or the gesture preview) placed on the time grid.
// Rows are absolute from the first visible hour; EndRow is exclusive.
type Block struct {
	Col      int
	StartRow int
	EndRow   int
	Lane     int
	Lanes    int
	Title    string
	Color    string
	Selected bool
}

type TimeGridData struct {
	DayLabels   []string
	FirstHour   int
	RowsPerHour int
	TotalRows   int
	Scroll      int
	Height      int
	ColWidth    int
	GutterWidth int
	Blocks      []Block
	Preview     *Block
	CursorCol   int
	CursorRow   int
	ShowCursor  bool
}

var (
	dayLabelStyle = lipgloss.NewStyle().Bold(true)
	gutterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	previewStyle  = lipgloss.NewStyle().Reverse(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	outsideStyle  = lipgloss.NewStyle().Faint(true)
)

// RenderTimeGrid draws the day or week grid. The first line holds day labels;
// every following line is one row of the grid.
func RenderTimeGrid(d TimeGridData) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", d.GutterWidth))
	for _, label := range d.DayLabels {
		b.WriteString(dayLabelStyle.Render(fit(label, d.ColWidth)))
	}

	end := d.Scroll + d.Height
	if end > d.TotalRows {
		end = d.TotalRows
	}
	for row := d.Scroll; row < end; row++ {
		b.WriteString("\n")
		b.WriteString(gutterStyle.Render(gutterLabel(d, row)))
		for col := range d.DayLabels {
			b.WriteString(renderGridCell(d, col, row))
		}
	}
	return b.String()
}

func gutterLabel(d TimeGridData, row int) string {
	if d.RowsPerHour > 0 && row%d.RowsPerHour == 0 {
		return fit(fmt.Sprintf("%02d:00", d.FirstHour+row/d.RowsPerHour), d.GutterWidth)
	}
	return strings.Repeat(" ", d.GutterWidth)
}

func renderGridCell(d TimeGridData, col, row int) string {
	if d.Preview != nil && d.Preview.Col == col && covers(*d.Preview, row) {
		text := ""
		if row == d.Preview.StartRow {
			text = d.Preview.Title
		}
		return previewStyle.Render(fit(text, d.ColWidth))
	}

	lanes := 1
	for _, blk := range d.Blocks {
		if blk.Col == col && blk.Lanes > lanes {
			lanes = blk.Lanes
		}
	}
	var b strings.Builder
	for lane := 0; lane < lanes; lane++ {
		width := laneWidth(d.ColWidth, lanes, lane)
		var hit *Block
		for i := range d.Blocks {
			blk := d.Blocks[i]
			if blk.Col == col && covers(blk, row) && laneOf(blk, lanes) == lane {
				hit = &d.Blocks[i]
				break
			}
		}
		if hit == nil {
			b.WriteString(emptyCell(d, col, row, lane, width))
			continue
		}
		text := ""
		if row == hit.StartRow {
			text = hit.Title
		}
		style := lipgloss.NewStyle().Background(lipgloss.Color(hit.Color)).Foreground(lipgloss.Color("0"))
		if hit.Selected {
			style = style.Bold(true).Underline(true)
		}
		b.WriteString(style.Render(fit(text, width)))
	}
	return b.String()
}

func emptyCell(d TimeGridData, col, row, lane, width int) string {
	if d.ShowCursor && lane == 0 && d.CursorCol == col && d.CursorRow == row {
		return cursorStyle.Render(fit(">", width))
	}
	if d.RowsPerHour > 0 && row%d.RowsPerHour == 0 {
		return emptyStyle.Render(strings.Repeat("┈", width))
	}
	return strings.Repeat(" ", width)
}

func covers(b Block, row int) bool {
	return row >= b.StartRow && row < b.EndRow
}

func laneOf(b Block, lanes int) int {
	if b.Lanes <= 0 {
		return 0
	}
	return b.Lane * lanes / b.Lanes
}

// laneWidth splits a column into lanes; the last lane takes the remainder.
func laneWidth(colWidth, lanes, lane int) int {
	if lanes <= 1 {
		return colWidth
	}
	w := colWidth / lanes
	if lane == lanes-1 {
		return colWidth - w*(lanes-1)
	}
	return w
}

type MonthEvent struct {
	Title    string
	Color    string
	Selected bool
}

type MonthCell struct {
	Label   string
	InMonth bool
	Cursor  bool
	Events  []MonthEvent
}

type MonthGridData struct {
	Weekdays    []string
	Cells       []MonthCell
	ColWidth    int
	RowHeight   int
	GutterWidth int
}

// RenderMonthGrid draws whole weeks. Each week takes RowHeight lines: the
// day number, then as many event titles as fit.
func RenderMonthGrid(d MonthGridData) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", d.GutterWidth))
	for _, wd := range d.Weekdays {
		b.WriteString(dayLabelStyle.Render(fit(wd, d.ColWidth)))
	}
	for week := 0; week*7 < len(d.Cells); week++ {
		cells := d.Cells[week*7 : min(len(d.Cells), week*7+7)]
		for line := 0; line < d.RowHeight; line++ {
			b.WriteString("\n")
			b.WriteString(strings.Repeat(" ", d.GutterWidth))
			for _, cell := range cells {
				b.WriteString(renderMonthLine(cell, line, d.ColWidth))
			}
		}
	}
	return b.String()
}

func renderMonthLine(cell MonthCell, line, width int) string {
	if line == 0 {
		label := cell.Label
		if cell.Cursor {
			label = ">" + label
		}
		if !cell.InMonth {
			return outsideStyle.Render(fit(label, width))
		}
		if cell.Cursor {
			return cursorStyle.Render(fit(label, width))
		}
		return dayLabelStyle.Render(fit(label, width))
	}
	idx := line - 1
	if idx >= len(cell.Events) {
		return strings.Repeat(" ", width)
	}
	ev := cell.Events[idx]
	style := lipgloss.NewStyle().Background(lipgloss.Color(ev.Color)).Foreground(lipgloss.Color("0"))
	if ev.Selected {
		style = style.Bold(true).Underline(true)
	}
	return style.Render(fit(ev.Title, width-1)) + " "
}
