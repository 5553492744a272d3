package aggregate

import (
	"sync"
	"time"

	"github.com/sandeepkv93/plannerd/internal/model"
)

// Projector caches the merged list and rebuilds it only after one of the
// backing collections changes.
type Projector struct {
	mu       sync.Mutex
	in       Inputs
	mode     SortMode
	revision uint64
	built    uint64
	cached   []Item
	builds   int
}

func NewProjector(mode SortMode) *Projector {
	if mode == "" {
		mode = SortPolicy
	}
	return &Projector{mode: mode, revision: 1}
}

func (p *Projector) SetWork(tasks []model.Task) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.in.Work = tasks
	p.revision++
}

func (p *Projector) SetPersonal(tasks []model.Task) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.in.Personal = tasks
	p.revision++
}

func (p *Projector) SetProjects(projects []model.Project, tasks []model.ProjectTask) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.in.Projects = projects
	p.in.ProjectTasks = tasks
	p.revision++
}

func (p *Projector) SetRecurring(tasks []model.RecurringTask) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.in.Recurring = tasks
	p.revision++
}

// SetToday moves the reference day. Same-day updates keep the cache.
func (p *Projector) SetToday(today time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.in.Today.IsZero() && model.SameDay(p.in.Today, today) {
		return
	}
	p.in.Today = today
	p.revision++
}

func (p *Projector) SetSortMode(mode SortMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if mode == p.mode {
		return
	}
	p.mode = mode
	p.revision++
}

func (p *Projector) SortMode() SortMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Items returns a copy of the current projection.
func (p *Projector) Items() []Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.built != p.revision {
		p.cached = Build(p.in, p.mode)
		p.built = p.revision
		p.builds++
	}
	out := make([]Item, len(p.cached))
	copy(out, p.cached)
	return out
}

// Find looks an item up by its composite key.
func (p *Projector) Find(key string) (Item, bool) {
	for _, item := range p.Items() {
		if item.Key() == key {
			return item, true
		}
	}
	return Item{}, false
}
