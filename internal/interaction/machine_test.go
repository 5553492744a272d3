package interaction

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sandeepkv93/plannerd/internal/aggregate"
	"github.com/sandeepkv93/plannerd/internal/model"
)

const hourHeight = 60

var monday = time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)

func dayN(n int) time.Time { return monday.AddDate(0, 0, n) }

func cell(day time.Time, hour int, offset float64) Cell {
	return Cell{Day: day, Hour: hour, HasHour: true, OffsetY: offset}
}

func itemPayload(title string) Payload {
	return Payload{Item: &aggregate.Item{ID: "1", Title: title, Source: model.SourceWork}}
}

func eventPayload(start, end time.Time) Payload {
	return Payload{Event: &model.CalendarEvent{ID: "ev-1", Title: "Standup", StartTime: start, EndTime: end}}
}

// gridHitTester lays days out as 100px columns and hours as 60px rows.
type gridHitTester struct{}

func (gridHitTester) CellAt(p Point) (Cell, bool) {
	if p.X < 0 || p.X >= 700 || p.Y < 0 || p.Y >= 24*hourHeight {
		return Cell{}, false
	}
	hour := int(p.Y / hourHeight)
	return cell(dayN(int(p.X/100)), hour, p.Y-float64(hour*hourHeight)), true
}

func pointAt(dayIndex, hour int, offset float64) Point {
	return Point{X: float64(dayIndex*100 + 50), Y: float64(hour*hourHeight) + offset}
}

type recordingGhost struct {
	calls []string
}

func (g *recordingGhost) Show(Point) { g.calls = append(g.calls, "show") }
func (g *recordingGhost) Hide() { g.calls = append(g.calls, "hide") }
func (g *recordingGhost) Restore(Point) { g.calls = append(g.calls, "restore") }
func (g *recordingGhost) Remove() { g.calls = append(g.calls, "remove") }

func TestCreateViaStretch(t *testing.T) {
	m := NewMachine(hourHeight)
	p := NewPointerAdapter(m)
	if err := p.DragStart(itemPayload("Write report")); err != nil {
		t.Fatalf("drag start: %v", err)
	}
	p.DragEnter(cell(monday, 9, 20))
	p.DragOver(cell(monday, 10, 0))
	p.DragEnter(cell(monday, 11, 40))
	commit, ok := p.Drop(cell(monday, 11, 40))
	p.DragEnd()
	if !ok {
		t.Fatal("expected commit")
	}
	wantStart := time.Date(2026, 2, 9, 9, 15, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 2, 9, 11, 45, 0, 0, time.UTC)
	if !commit.Start.Equal(wantStart) || !commit.End.Equal(wantEnd) {
		t.Fatalf("unexpected interval %s-%s", commit.Start.Format("15:04"), commit.End.Format("15:04"))
	}
	if got := commit.End.Sub(commit.Start); got != 150*time.Minute {
		t.Fatalf("unexpected width %s", got)
	}
	if !commit.NeedsConfirm || commit.Mode != ModeCreateFromItem {
		t.Fatalf("create should open the dialog: %+v", commit)
	}
	if commit.Payload.Item == nil || commit.Payload.Item.Title != "Write report" {
		t.Fatalf("payload lost: %+v", commit.Payload)
	}
	if m.Phase() != PhaseIdle {
		t.Fatalf("expected idle after commit, got %v", m.Phase())
	}
}

func TestClickOnlyCreateUsesDefaultWindow(t *testing.T) {
	m := NewMachine(hourHeight)
	p := NewPointerAdapter(m)
	tuesday := dayN(1)
	if err := p.DragStart(itemPayload("Call")); err != nil {
		t.Fatalf("drag start: %v", err)
	}
	p.DragEnter(cell(tuesday, 14, 0))
	commit, ok := p.Drop(cell(tuesday, 14, 0))
	if !ok {
		t.Fatal("expected commit")
	}
	if commit.Start.Format("Mon 15:04") != "Tue 14:00" || commit.End.Format("15:04") != "15:00" {
		t.Fatalf("unexpected fallback window %s-%s", commit.Start, commit.End)
	}
}

func TestCreateWithoutHourFallsBackToNine(t *testing.T) {
	m := NewMachine(hourHeight)
	if err := m.Begin(ModeCreateFromItem, itemPayload("Plan")); err != nil {
		t.Fatalf("begin: %v", err)
	}
	commit, ok := m.Release(&Cell{Day: dayN(3)})
	if !ok {
		t.Fatal("expected commit")
	}
	if commit.Start.Format("15:04") != "09:00" || commit.End.Format("15:04") != "10:00" {
		t.Fatalf("unexpected month fallback %s-%s", commit.Start, commit.End)
	}
}

func TestCreateDoesNotReanchorAcrossDays(t *testing.T) {
	m := NewMachine(hourHeight)
	if err := m.Begin(ModeCreateFromItem, itemPayload("Focus")); err != nil {
		t.Fatalf("begin: %v", err)
	}
	m.EnterCell(cell(monday, 9, 0))
	m.EnterCell(cell(monday, 10, 0))
	m.EnterCell(cell(dayN(1), 15, 0))
	d, ok := m.Draft()
	if !ok {
		t.Fatal("expected draft")
	}
	if !d.Day.Equal(monday) || d.Anchor.Hour != 9 || d.Current.Hour != 10 {
		t.Fatalf("draft changed on foreign day: %+v", d)
	}
	commit, _ := m.Release(&Cell{Day: dayN(1), Hour: 15, HasHour: true})
	if !commit.Start.Equal(time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)) || commit.End.Format("15:04") != "10:00" {
		t.Fatalf("unexpected commit %+v", commit)
	}
}

func TestUpwardStretchFallsBack(t *testing.T) {
	m := NewMachine(hourHeight)
	if err := m.Begin(ModeCreateFromItem, itemPayload("Up")); err != nil {
		t.Fatalf("begin: %v", err)
	}
	m.EnterCell(cell(monday, 12, 0))
	commit, ok := m.Release(&Cell{Day: monday, Hour: 10, HasHour: true, OffsetY: 30})
	if !ok {
		t.Fatal("expected commit")
	}
	if commit.Start.Format("15:04") != "10:00" || commit.End.Format("15:04") != "11:00" {
		t.Fatalf("unexpected interval %s-%s", commit.Start, commit.End)
	}
}

func TestMovePreservesDuration(t *testing.T) {
	m := NewMachine(hourHeight)
	p := NewPointerAdapter(m)
	wednesday, thursday := dayN(2), dayN(3)
	start := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	if err := p.DragStart(eventPayload(start, start.Add(90*time.Minute))); err != nil {
		t.Fatalf("drag start: %v", err)
	}
	p.DragEnter(cell(wednesday, 11, 0))
	p.DragEnter(cell(thursday, 15, 30))
	commit, ok := p.Drop(cell(thursday, 15, 30))
	p.DragEnd()
	if !ok {
		t.Fatal("expected commit")
	}
	if commit.Start.Format("Mon 15:04") != "Thu 15:30" || commit.End.Format("15:04") != "17:00" {
		t.Fatalf("unexpected move %s-%s", commit.Start, commit.End)
	}
	if commit.NeedsConfirm {
		t.Fatal("moves persist without confirmation")
	}
}

func TestMoveToMonthCellSnapsToNine(t *testing.T) {
	m := NewMachine(hourHeight)
	start := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	if err := m.Begin(ModeMoveEvent, eventPayload(start, start.Add(45*time.Minute))); err != nil {
		t.Fatalf("begin: %v", err)
	}
	m.EnterCell(cell(dayN(2), 11, 0))
	commit, ok := m.Release(&Cell{Day: dayN(5)})
	if !ok {
		t.Fatal("expected commit")
	}
	if commit.Start.Format("Mon 15:04") != "Sat 09:00" || commit.End.Format("15:04") != "09:45" {
		t.Fatalf("unexpected month move %s-%s", commit.Start, commit.End)
	}
}

func TestResizeClampsToMinimum(t *testing.T) {
	m := NewMachine(hourHeight)
	p := NewPointerAdapter(m)
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	payload := eventPayload(start, start.Add(time.Hour))

	if err := p.ResizeStart(payload, 500); err != nil {
		t.Fatalf("resize start: %v", err)
	}
	p.ResizeMove(520)
	if _, end, ok := m.Preview(); !ok || end.Format("15:04") != "10:15" {
		t.Fatalf("unexpected preview end %s", end)
	}
	commit, ok := p.ResizeEnd(300)
	if !ok {
		t.Fatal("expected resize commit")
	}
	if got := commit.End.Sub(commit.Start); got != 15*time.Minute {
		t.Fatalf("expected clamp to 15m, got %s", got)
	}
	if commit.Mode != ModeResizeEvent || commit.NeedsConfirm {
		t.Fatalf("unexpected resize commit %+v", commit)
	}

	if err := p.ResizeStart(payload, 500); err != nil {
		t.Fatalf("resize start: %v", err)
	}
	if _, ok := p.ResizeEnd(503); ok {
		t.Fatal("unchanged resize should be abandoned")
	}
}

func TestMinimumDurationHolds(t *testing.T) {
	for startHour := 0; startHour < 24; startHour += 5 {
		for endHour := startHour; endHour < 24; endHour += 3 {
			for _, offset := range []float64{0, 10, 25, 59} {
				m := NewMachine(hourHeight)
				_ = m.Begin(ModeCreateFromItem, itemPayload("x"))
				m.EnterCell(cell(monday, startHour, offset))
				commit, ok := m.Release(&Cell{Day: monday, Hour: endHour, HasHour: true, OffsetY: 59 - offset})
				if !ok {
					t.Fatalf("expected commit for %d-%d", startHour, endHour)
				}
				if commit.End.Sub(commit.Start) < 15*time.Minute {
					t.Fatalf("interval shorter than minimum: %s-%s", commit.Start, commit.End)
				}
			}
		}
	}
}

func TestReleaseOutsideGridAbandons(t *testing.T) {
	m := NewMachine(hourHeight)
	p := NewPointerAdapter(m)
	if err := p.DragStart(itemPayload("Nowhere")); err != nil {
		t.Fatalf("drag start: %v", err)
	}
	p.DragEnd()
	if m.Phase() != PhaseIdle {
		t.Fatal("drag end should return to idle")
	}
	if _, ok := p.Drop(cell(monday, 9, 0)); ok {
		t.Fatal("drop after drag end must not commit")
	}

	ghost := &recordingGhost{}
	touch := NewTouchAdapter(m, gridHitTester{}, ghost)
	if err := touch.TouchStart(itemPayload("Nowhere"), Point{X: -10, Y: -10}); err != nil {
		t.Fatalf("touch start: %v", err)
	}
	touch.TouchMove(Point{X: 900, Y: 10})
	if _, ok := touch.TouchEnd(Point{X: 900, Y: 10}); ok {
		t.Fatal("touch released outside the grid must not commit")
	}
	if _, ok := m.Draft(); ok || m.Phase() != PhaseIdle {
		t.Fatal("expected cleared draft")
	}
	if last := ghost.calls[len(ghost.calls)-1]; last != "remove" {
		t.Fatalf("ghost not removed: %v", ghost.calls)
	}
}

func TestBeginRejectsMismatchedPayload(t *testing.T) {
	m := NewMachine(hourHeight)
	if err := m.Begin(ModeMoveEvent, itemPayload("x")); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
	if err := NewPointerAdapter(m).DragStart(Payload{}); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestPointerAndTouchConverge(t *testing.T) {
	offsets := []float64{0, 8, 20, 37, 52}
	for dayIndex := 0; dayIndex < 7; dayIndex += 2 {
		for hour := 0; hour < 23; hour += 4 {
			for _, anchorOff := range offsets {
				for _, releaseOff := range offsets {
					for _, span := range []int{0, 1, 3} {
						endHour := hour + span
						if endHour > 23 {
							endHour = 23
						}
						name := fmt.Sprintf("day%d %02d+%.0f -> %02d+%.0f", dayIndex, hour, anchorOff, endHour, releaseOff)

						pm := NewMachine(hourHeight)
						pointer := NewPointerAdapter(pm)
						_ = pointer.DragStart(itemPayload("x"))
						pointer.DragEnter(cell(dayN(dayIndex), hour, anchorOff))
						pointer.DragOver(cell(dayN(dayIndex), endHour, releaseOff))
						want, wantOK := pointer.Drop(cell(dayN(dayIndex), endHour, releaseOff))
						pointer.DragEnd()

						tm := NewMachine(hourHeight)
						touch := NewTouchAdapter(tm, gridHitTester{}, nil)
						_ = touch.TouchStart(itemPayload("x"), Point{})
						touch.TouchMove(pointAt(dayIndex, hour, anchorOff))
						touch.TouchMove(pointAt(dayIndex, endHour, releaseOff))
						got, gotOK := touch.TouchEnd(pointAt(dayIndex, endHour, releaseOff))

						if wantOK != gotOK || !want.Start.Equal(got.Start) || !want.End.Equal(got.End) || want.Mode != got.Mode {
							t.Fatalf("%s: pointer %v %s-%s, touch %v %s-%s", name,
								wantOK, want.Start.Format("15:04"), want.End.Format("15:04"),
								gotOK, got.Start.Format("15:04"), got.End.Format("15:04"))
						}
					}
				}
			}
		}
	}
}

func TestTouchGhostSequence(t *testing.T) {
	m := NewMachine(hourHeight)
	ghost := &recordingGhost{}
	touch := NewTouchAdapter(m, gridHitTester{}, ghost)
	if err := touch.TouchStart(itemPayload("x"), pointAt(0, 9, 0)); err != nil {
		t.Fatalf("touch start: %v", err)
	}
	touch.TouchMove(pointAt(0, 9, 0))
	if _, ok := touch.TouchEnd(pointAt(0, 9, 0)); !ok {
		t.Fatal("expected commit")
	}
	want := []string{"show", "hide", "restore", "hide", "remove"}
	if fmt.Sprint(ghost.calls) != fmt.Sprint(want) {
		t.Fatalf("unexpected ghost calls %v", ghost.calls)
	}
}
