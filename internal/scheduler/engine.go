// Package scheduler fires in-app alerts shortly before calendar events
// start.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrEngineStopped      = errors.New("scheduler: engine stopped")
)

// Alert announces an upcoming event. ID is the event id; scheduling an ID
// again replaces the pending alert.
type Alert struct {
	ID        string
	Title     string
	StartsAt  time.Time
	TriggerAt time.Time
}

type queueItem struct {
	alert   Alert
	version uint64
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].alert.TriggerAt.Before(pq[j].alert.TriggerAt)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	live    map[string]uint64
	version uint64
	out     chan Alert
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
	now     func() time.Time
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(priorityQueue, 0),
		live:   make(map[string]uint64),
		out:    make(chan Alert, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		now:    time.Now,
	}
}

func (e *Engine) C() <-chan Alert {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule queues a, replacing any pending alert with the same ID.
func (e *Engine) Schedule(a Alert) error {
	if a.TriggerAt.IsZero() {
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}
	e.push(a)
	e.signalWakeup()
	return nil
}

// Replace drops every pending alert and queues alerts instead.
func (e *Engine) Replace(alerts []Alert) error {
	for _, a := range alerts {
		if a.TriggerAt.IsZero() {
			return ErrInvalidTriggerTime
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}
	e.queue = e.queue[:0]
	e.live = make(map[string]uint64, len(alerts))
	for _, a := range alerts {
		e.push(a)
	}
	e.signalWakeup()
	return nil
}

func (e *Engine) Cancel(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.live, id)
}

// Pending counts alerts that have not fired or been replaced.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.live)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

// push must be called with mu held.
func (e *Engine) push(a Alert) {
	e.version++
	e.live[a.ID] = e.version
	heap.Push(&e.queue, queueItem{alert: a, version: e.version})
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := next.TriggerAt.Sub(e.now())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, a := range e.popDue(e.now()) {
				select {
				case e.out <- a:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// peek returns the earliest live alert, discarding stale heads.
func (e *Engine) peek() (Alert, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) > 0 {
		head := e.queue[0]
		if e.live[head.alert.ID] == head.version {
			return head.alert, true
		}
		heap.Pop(&e.queue)
	}
	return Alert{}, false
}

func (e *Engine) popDue(now time.Time) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Alert, 0)
	for len(e.queue) > 0 {
		head := e.queue[0]
		if head.alert.TriggerAt.After(now) {
			break
		}
		heap.Pop(&e.queue)
		if e.live[head.alert.ID] != head.version {
			continue
		}
		delete(e.live, head.alert.ID)
		out = append(out, head.alert)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
