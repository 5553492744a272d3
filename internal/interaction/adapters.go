package interaction

// PointerAdapter translates native drag-and-drop callbacks into Machine
// messages. It holds no gesture state of its own.
type PointerAdapter struct {
	m *Machine
}

func NewPointerAdapter(m *Machine) *PointerAdapter {
	return &PointerAdapter{m: m}
}

func (a *PointerAdapter) DragStart(p Payload) error {
	return a.m.Begin(ModeFor(p), p)
}

func (a *PointerAdapter) DragEnter(c Cell) { a.m.EnterCell(c) }

func (a *PointerAdapter) DragOver(c Cell) { a.m.MoveInCell(c) }

func (a *PointerAdapter) Drop(c Cell) (Commit, bool) {
	return a.m.Release(&c)
}

// DragEnd always clears, whether or not Drop fired first.
func (a *PointerAdapter) DragEnd() { a.m.Cancel() }

// Resize handles are pointer-only.

func (a *PointerAdapter) ResizeStart(p Payload, y float64) error {
	if p.Event == nil {
		return ErrInvalidPayload
	}
	return a.m.BeginResize(*p.Event, y)
}

func (a *PointerAdapter) ResizeMove(y float64) {
	a.m.ResizeMove(y)
}

func (a *PointerAdapter) ResizeEnd(y float64) (Commit, bool) {
	return a.m.ResizeRelease(y)
}

// Point is a raw touch position in host coordinates.
type Point struct {
	X float64
	Y float64
}

// HitTester finds the grid cell under a raw point.
type HitTester interface {
	CellAt(p Point) (Cell, bool)
}

// Ghost is the floating drag image that follows a finger. It must be hidden
// while hit-testing so it does not cover the cell underneath.
type Ghost interface {
	Show(p Point)
	Hide()
	Restore(p Point)
	Remove()
}

type noGhost struct{}

func (noGhost) Show(Point) {}
func (noGhost) Hide() {}
func (noGhost) Restore(Point) {}
func (noGhost) Remove() {}

// TouchAdapter synthesizes drag gestures from touch events. There is no
// touch resize handle; resizing is pointer-only.
type TouchAdapter struct {
	m      *Machine
	hit    HitTester
	ghost  Ghost
	active bool
}

func NewTouchAdapter(m *Machine, hit HitTester, ghost Ghost) *TouchAdapter {
	if ghost == nil {
		ghost = noGhost{}
	}
	return &TouchAdapter{m: m, hit: hit, ghost: ghost}
}

func (a *TouchAdapter) TouchStart(p Payload, at Point) error {
	if err := a.m.Begin(ModeFor(p), p); err != nil {
		return err
	}
	a.active = true
	a.ghost.Show(at)
	return nil
}

func (a *TouchAdapter) TouchMove(at Point) {
	if !a.active {
		return
	}
	a.ghost.Hide()
	cell, ok := a.hit.CellAt(at)
	a.ghost.Restore(at)
	if ok {
		a.m.MoveInCell(cell)
	}
}

// TouchEnd hit-tests the release point and hands it to the same commit
// path a pointer drop uses.
func (a *TouchAdapter) TouchEnd(at Point) (Commit, bool) {
	if !a.active {
		return Commit{}, false
	}
	a.ghost.Hide()
	cell, ok := a.hit.CellAt(at)
	a.finish()
	if !ok {
		return a.m.Release(nil)
	}
	return a.m.Release(&cell)
}

func (a *TouchAdapter) TouchCancel() {
	a.finish()
	a.m.Cancel()
}

func (a *TouchAdapter) finish() {
	a.active = false
	a.ghost.Remove()
}
