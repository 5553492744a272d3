// Package interaction tracks a create, move or resize gesture over the time
// grid and turns it into a committed interval. Pointer and touch input reach
// the same Machine through thin adapters.
package interaction

import (
	"errors"
	"time"

	"github.com/sandeepkv93/plannerd/internal/aggregate"
	"github.com/sandeepkv93/plannerd/internal/grid"
	"github.com/sandeepkv93/plannerd/internal/model"
)

var ErrInvalidPayload = errors.New("interaction: payload does not match gesture mode")

const (
	defaultHour      = 9
	defaultWindow    = time.Hour
	minStretchWindow = 30 * time.Minute
)

type Mode int

const (
	ModeNone Mode = iota
	ModeCreateFromItem
	ModeMoveEvent
	ModeResizeEvent
)

func (m Mode) String() string {
	switch m {
	case ModeCreateFromItem:
		return "create"
	case ModeMoveEvent:
		return "move"
	case ModeResizeEvent:
		return "resize"
	default:
		return "none"
	}
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseCommitting
)

// Cell is a drop target. Month-view and day-header targets have no hour.
type Cell struct {
	Day     time.Time
	Hour    int
	HasHour bool
	OffsetY float64
}

// Payload is what is being dragged: a sidebar item or an existing event.
type Payload struct {
	Item  *aggregate.Item
	Event *model.CalendarEvent
}

// Draft is the in-gesture anchor/current pair. Both clocks are snapped.
type Draft struct {
	Day     time.Time
	Anchor  grid.Clock
	Current grid.Clock
}

// Commit is the outcome of a completed gesture.
type Commit struct {
	Mode    Mode
	Day     time.Time
	Start   time.Time
	End     time.Time
	Payload Payload
	// NeedsConfirm is set for creates: the caller opens the edit dialog
	// instead of persisting.
	NeedsConfirm bool
}

type resizeState struct {
	originY float64
	lastY   float64
}

// Machine is the single interaction reducer. It is not safe for concurrent
// use; input is delivered in order by one event loop.
type Machine struct {
	hourHeight float64
	phase      Phase
	mode       Mode
	payload    Payload
	draft      *Draft
	resize     resizeState
}

func NewMachine(hourHeight float64) *Machine {
	if hourHeight <= 0 {
		hourHeight = 60
	}
	return &Machine{hourHeight: hourHeight}
}

func (m *Machine) Phase() Phase { return m.phase }
func (m *Machine) Mode() Mode { return m.mode }

func (m *Machine) HourHeight() float64 { return m.hourHeight }

// Draft returns a copy of the live draft.
func (m *Machine) Draft() (Draft, bool) {
	if m.draft == nil {
		return Draft{}, false
	}
	return *m.draft, true
}

func (m *Machine) Payload() Payload { return m.payload }

// Begin starts a create or move gesture. Any gesture still in flight is
// discarded first.
func (m *Machine) Begin(mode Mode, payload Payload) error {
	m.reset()
	switch mode {
	case ModeCreateFromItem:
		if payload.Item == nil {
			return ErrInvalidPayload
		}
	case ModeMoveEvent:
		if payload.Event == nil {
			return ErrInvalidPayload
		}
	default:
		return ErrInvalidPayload
	}
	m.phase = PhaseDragging
	m.mode = mode
	m.payload = payload
	return nil
}

// EnterCell handles the pointer arriving in a new cell.
func (m *Machine) EnterCell(c Cell) {
	m.track(c)
}

// MoveInCell handles movement inside the current cell.
func (m *Machine) MoveInCell(c Cell) {
	m.track(c)
}

func (m *Machine) track(c Cell) {
	if m.phase != PhaseDragging {
		return
	}
	switch m.mode {
	case ModeCreateFromItem:
		if !c.HasHour {
			return
		}
		clock := grid.CellTime(c.Hour, c.OffsetY, m.hourHeight)
		if m.draft == nil {
			m.draft = &Draft{Day: dayOf(c.Day), Anchor: clock, Current: clock}
			return
		}
		// The gesture commits to its starting day.
		if model.SameDay(m.draft.Day, c.Day) {
			m.draft.Current = clock
		}
	case ModeMoveEvent:
		if !c.HasHour {
			m.draft = nil
			return
		}
		clock := grid.CellTime(c.Hour, c.OffsetY, m.hourHeight)
		m.draft = &Draft{Day: dayOf(c.Day), Anchor: clock, Current: clock}
	}
}

// Release ends a create or move gesture. A nil cell means the release
// happened outside the grid and the gesture is abandoned.
func (m *Machine) Release(c *Cell) (Commit, bool) {
	if m.phase != PhaseDragging || m.mode == ModeResizeEvent {
		return Commit{}, false
	}
	if c == nil {
		m.reset()
		return Commit{}, false
	}
	m.track(*c)
	m.phase = PhaseCommitting

	var commit Commit
	switch m.mode {
	case ModeCreateFromItem:
		commit = m.commitCreate(*c)
	case ModeMoveEvent:
		commit = m.commitMove(*c)
	}
	commit.Mode = m.mode
	commit.Payload = m.payload
	m.reset()
	return commit, true
}

func (m *Machine) commitCreate(c Cell) Commit {
	if d := m.draft; d != nil && d.Anchor.Before(d.Current) {
		start := grid.TimeToTimestamp(d.Day, d.Anchor)
		end := grid.TimeToTimestamp(d.Day, d.Current)
		if end.Sub(start) < model.MinEventDuration {
			end = start.Add(minStretchWindow)
		}
		return Commit{Day: d.Day, Start: start, End: end, NeedsConfirm: true}
	}
	start := fallbackStart(c)
	return Commit{Day: dayOf(c.Day), Start: start, End: start.Add(defaultWindow), NeedsConfirm: true}
}

func (m *Machine) commitMove(c Cell) Commit {
	ev := m.payload.Event
	duration := ev.EndTime.Sub(ev.StartTime)
	if duration < model.MinEventDuration {
		duration = model.MinEventDuration
	}
	var start time.Time
	day := dayOf(c.Day)
	if d := m.draft; d != nil {
		start = grid.TimeToTimestamp(d.Day, d.Anchor)
		day = d.Day
	} else {
		start = fallbackStart(c)
	}
	return Commit{Day: day, Start: start, End: start.Add(duration)}
}

// fallbackStart is the top of the dropped hour, or 09:00 without one.
func fallbackStart(c Cell) time.Time {
	hour := defaultHour
	if c.HasHour {
		hour = grid.CellTime(c.Hour, 0, 1).Hour
	}
	return grid.TimeToTimestamp(c.Day, grid.Clock{Hour: hour})
}

// BeginResize starts dragging the bottom edge of ev from offset y.
func (m *Machine) BeginResize(ev model.CalendarEvent, y float64) error {
	m.reset()
	if ev.EndTime.IsZero() || ev.StartTime.IsZero() {
		return ErrInvalidPayload
	}
	m.phase = PhaseDragging
	m.mode = ModeResizeEvent
	m.payload = Payload{Event: &ev}
	m.resize = resizeState{originY: y, lastY: y}
	return nil
}

// ResizeMove updates the live bottom edge and returns the previewed span.
func (m *Machine) ResizeMove(y float64) (time.Time, time.Time, bool) {
	if m.phase != PhaseDragging || m.mode != ModeResizeEvent {
		return time.Time{}, time.Time{}, false
	}
	m.resize.lastY = y
	start, end := m.resizedSpan()
	return start, end, true
}

// ResizeRelease persists nothing itself; it reports the resized span. An
// unchanged span is treated as abandoned.
func (m *Machine) ResizeRelease(y float64) (Commit, bool) {
	if m.phase != PhaseDragging || m.mode != ModeResizeEvent {
		return Commit{}, false
	}
	m.resize.lastY = y
	m.phase = PhaseCommitting
	ev := m.payload.Event
	start, end := m.resizedSpan()
	commit := Commit{
		Mode:    ModeResizeEvent,
		Day:     dayOf(start),
		Start:   start,
		End:     end,
		Payload: m.payload,
	}
	m.reset()
	if end.Equal(ev.EndTime) {
		return Commit{}, false
	}
	return commit, true
}

func (m *Machine) resizedSpan() (time.Time, time.Time) {
	ev := m.payload.Event
	delta := grid.SnapDelta(m.resize.lastY-m.resize.originY, m.hourHeight)
	end := ev.EndTime.Add(time.Duration(delta) * time.Minute)
	if end.Sub(ev.StartTime) < model.MinEventDuration {
		end = ev.StartTime.Add(model.MinEventDuration)
	}
	return ev.StartTime, end
}

// Preview derives the highlighted span from the draft. It is recomputed on
// every call and never stored.
func (m *Machine) Preview() (time.Time, time.Time, bool) {
	if m.phase != PhaseDragging {
		return time.Time{}, time.Time{}, false
	}
	switch m.mode {
	case ModeResizeEvent:
		start, end := m.resizedSpan()
		return start, end, true
	case ModeMoveEvent:
		if m.draft == nil {
			return time.Time{}, time.Time{}, false
		}
		ev := m.payload.Event
		start := grid.TimeToTimestamp(m.draft.Day, m.draft.Anchor)
		return start, start.Add(ev.EndTime.Sub(ev.StartTime)), true
	case ModeCreateFromItem:
		if m.draft == nil {
			return time.Time{}, time.Time{}, false
		}
		start := grid.TimeToTimestamp(m.draft.Day, m.draft.Anchor)
		end := grid.TimeToTimestamp(m.draft.Day, m.draft.Current)
		if !end.After(start) {
			end = start.Add(grid.SnapMinutes * time.Minute)
		}
		return start, end, true
	}
	return time.Time{}, time.Time{}, false
}

// Cancel abandons whatever is in flight. It is safe to call when idle.
func (m *Machine) Cancel() {
	m.reset()
}

func (m *Machine) reset() {
	m.phase = PhaseIdle
	m.mode = ModeNone
	m.payload = Payload{}
	m.draft = nil
	m.resize = resizeState{}
}

func dayOf(t time.Time) time.Time {
	return model.StartOfDay(t)
}

// ModeFor picks the gesture mode implied by a payload.
func ModeFor(p Payload) Mode {
	switch {
	case p.Event != nil:
		return ModeMoveEvent
	case p.Item != nil:
		return ModeCreateFromItem
	default:
		return ModeNone
	}
}
