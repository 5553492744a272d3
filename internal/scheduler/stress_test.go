package scheduler

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestEngineConcurrentRescheduleKeepsOneAlertPerID(t *testing.T) {
	engine := NewEngine(64)
	engine.Start()
	defer engine.Stop()

	const workers = 8
	const rounds = 150
	ids := make([]string, 20)
	for i := range ids {
		ids[i] = fmt.Sprintf("ev-%02d", i)
	}

	// Far triggers keep everything pending while the workers race.
	far := time.Now().UTC().Add(time.Hour)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if i%25 == 0 {
					batch := make([]Alert, 0, len(ids))
					for j, id := range ids {
						batch = append(batch, Alert{
							ID:        id,
							Title:     fmt.Sprintf("replace-w%d-%d", w, i),
							TriggerAt: far.Add(time.Duration(j) * time.Second),
						})
					}
					if err := engine.Replace(batch); err != nil {
						t.Errorf("replace: %v", err)
						return
					}
					continue
				}
				id := ids[(w*7+i)%len(ids)]
				if err := engine.Schedule(Alert{
					ID:        id,
					Title:     fmt.Sprintf("schedule-w%d-%d", w, i),
					TriggerAt: far.Add(time.Duration(i) * time.Millisecond),
				}); err != nil {
					t.Errorf("schedule %s: %v", id, err)
					return
				}
				_ = engine.Pending()
			}
		}(w)
	}
	wg.Wait()

	if got := engine.Pending(); got != len(ids) {
		t.Fatalf("expected %d pending alerts after concurrent reschedule, got %d", len(ids), got)
	}

	soon := time.Now().UTC().Add(30 * time.Millisecond)
	want := make(map[string]Alert, len(ids))
	for i, id := range ids {
		a := Alert{
			ID:        id,
			Title:     "final-" + id,
			StartsAt:  soon.Add(time.Minute),
			TriggerAt: soon.Add(time.Duration(i) * time.Millisecond),
		}
		want[id] = a
		if err := engine.Schedule(a); err != nil {
			t.Fatalf("final schedule %s: %v", id, err)
		}
	}
	if got := engine.Pending(); got != len(ids) {
		t.Fatalf("expected %d pending alerts after final schedule, got %d", len(ids), got)
	}

	delivered := make(map[string]Alert, len(ids))
	for len(delivered) < len(ids) {
		a := waitAlert(t, engine.C(), 2*time.Second)
		if _, dup := delivered[a.ID]; dup {
			t.Fatalf("alert %s delivered twice", a.ID)
		}
		delivered[a.ID] = a
	}
	for id, w := range want {
		got := delivered[id]
		if got.Title != w.Title || !got.TriggerAt.Equal(w.TriggerAt) {
			t.Fatalf("stale alert for %s: got %+v want %+v", id, got, w)
		}
	}

	select {
	case extra := <-engine.C():
		t.Fatalf("unexpected extra alert: %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
	if got := engine.Pending(); got != 0 {
		t.Fatalf("expected nothing pending after delivery, got %d", got)
	}
	if engine.Dropped() != 0 {
		t.Fatalf("expected zero drops with active consumer, got %d", engine.Dropped())
	}
}
