package update

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/plannerd/internal/aggregate"
	"github.com/sandeepkv93/plannerd/internal/grid"
	"github.com/sandeepkv93/plannerd/internal/interaction"
	"github.com/sandeepkv93/plannerd/internal/materialize"
	"github.com/sandeepkv93/plannerd/internal/model"
	"github.com/sandeepkv93/plannerd/internal/scheduler"
	"github.com/sandeepkv93/plannerd/internal/state"
)

type Pane int

const (
	PaneSidebar Pane = iota
	PaneGrid
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Day   string
	Week  string
	Month string
	Help  string
	Quit  string
}

type Options struct {
	Planner      *materialize.Materializer
	Scheduler    *scheduler.Engine
	Logger       *slog.Logger
	View         grid.ViewMode
	WeekStart    time.Weekday
	RowsPerHour  int
	DayStartHour int
	DayEndHour   int
	ExportLabel  string
	ExportDir    string
	AlertLead    time.Duration
	Now          func() time.Time
}

type Model struct {
	ViewMode        grid.ViewMode
	Focus           time.Time
	Pane            Pane
	Items           []aggregate.Item
	Snapshot        state.Snapshot
	SidebarCursor   int
	CursorCol       int
	CursorRow       int
	SelectedEventID string
	Dialog          DialogState
	LinkPrompt      LinkPromptState
	Palette         CommandPaletteState
	HelpVisible     bool
	Alerts          []scheduler.Alert
	Status          StatusBar
	Keys            GlobalKeyMap
	Quitting        bool
	LastError       error
	Width           int
	Height          int
	Loading         bool

	planner     *materialize.Materializer
	projector   *aggregate.Projector
	machine     *interaction.Machine
	pointer     *interaction.PointerAdapter
	engine      *scheduler.Engine
	log         *slog.Logger
	weekStart   time.Weekday
	rowsPerHour int
	dayStart    int
	dayEnd      int
	exportLabel string
	exportDir   string
	alertLead   time.Duration
	now         func() time.Time
	scroll      int
	drag        dragState

	commandInput textinput.Model
	loadSpinner  spinner.Model
	helpModel    help.Model
	preview      viewport.Model
}

// dragState is the TUI side of a gesture: where it started and whether it
// moved. The gesture itself lives in the interaction machine.
type dragState struct {
	active   bool
	keyboard bool
	resizing bool
	moved    bool
	pressX   int
	pressY   int
	lastCell interaction.Cell
	hasCell  bool
	eventID  string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type LinkPromptState struct {
	Active  bool
	EventID string
	Title   string
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type ItemsLoadedMsg struct {
	Inputs aggregate.Inputs
	Err    error
}

type EventsLoadedMsg struct {
	Snapshot state.Snapshot
	Err      error
}

type EventSavedMsg struct {
	Result   materialize.SaveResult
	Snapshot state.Snapshot
	Err      error
}

type EventDeletedMsg struct {
	ID       string
	Snapshot state.Snapshot
	Err      error
}

type EventLinkedMsg struct {
	Task     model.Task
	Event    model.CalendarEvent
	Source   model.Source
	Snapshot state.Snapshot
	Err      error
}

type ExportedMsg struct {
	Path string
	Err  error
}

type AlertDueMsg struct {
	Alert scheduler.Alert
}

func NewModel(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	view := opts.View
	if view == "" {
		view = grid.ViewWeek
	}
	rows := opts.RowsPerHour
	if rows <= 0 {
		rows = 4
	}
	dayStart, dayEnd := opts.DayStartHour, opts.DayEndHour
	if dayEnd <= dayStart || dayEnd > 24 || dayStart < 0 {
		dayStart, dayEnd = 7, 22
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	loc := time.Local
	if opts.Planner != nil {
		loc = opts.Planner.Location()
	}
	machine := interaction.NewMachine(float64(rows))
	m := Model{
		ViewMode: view,
		Focus:    model.StartOfDay(now().In(loc)),
		Pane:     PaneSidebar,
		Width:    120,
		Height:   48,
		Loading:  opts.Planner != nil,
		Keys: GlobalKeyMap{
			Day:   "1",
			Week:  "2",
			Month: "3",
			Help:  "?",
			Quit:  "q",
		},
		planner:     opts.Planner,
		projector:   aggregate.NewProjector(aggregate.SortPolicy),
		machine:     machine,
		pointer:     interaction.NewPointerAdapter(machine),
		engine:      opts.Scheduler,
		log:         logger,
		weekStart:   opts.WeekStart,
		rowsPerHour: rows,
		dayStart:    dayStart,
		dayEnd:      dayEnd,
		exportLabel: opts.ExportLabel,
		exportDir:   exportDir,
		alertLead:   opts.AlertLead,
		now:         now,
	}
	m.initBubbleComponents()
	m.CursorRow = m.rowForHour(9)
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.loadSpinner = spinner.New()
	m.loadSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.preview = viewport.New(72, 8)
}

// Machine exposes the gesture reducer for inspection.
func (m Model) Machine() *interaction.Machine { return m.machine }

func (m Model) rowForHour(hour int) int {
	if hour < m.dayStart {
		return 0
	}
	return (hour - m.dayStart) * m.rowsPerHour
}
