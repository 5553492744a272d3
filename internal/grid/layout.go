package grid

import (
	"sort"
	"time"
)

type Span struct {
	ID    string
	Start time.Time
	End   time.Time
}

// Placement positions one span inside its overlap cluster. Lanes is the
// cluster width, so the span occupies 1/Lanes of the column at Lane.
type Placement struct {
	ID    string
	Lane  int
	Lanes int
}

// Layout assigns lanes to spans. The result is index-aligned with spans.
// Spans that only touch (one ends when the next starts) share a lane.
func Layout(spans []Span) []Placement {
	out := make([]Placement, len(spans))
	if len(spans) == 0 {
		return out
	}
	order := make([]int, len(spans))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := spans[order[a]], spans[order[b]]
		if !sa.Start.Equal(sb.Start) {
			return sa.Start.Before(sb.Start)
		}
		return sa.End.After(sb.End)
	})

	var (
		cluster    []int
		laneEnds   []time.Time
		clusterEnd time.Time
	)
	flush := func() {
		for _, idx := range cluster {
			out[idx].Lanes = len(laneEnds)
		}
		cluster = cluster[:0]
		laneEnds = laneEnds[:0]
	}

	for _, idx := range order {
		s := spans[idx]
		end := s.End
		if !end.After(s.Start) {
			end = s.Start
		}
		if len(cluster) > 0 && !s.Start.Before(clusterEnd) {
			flush()
		}
		lane := -1
		for i, laneEnd := range laneEnds {
			if !laneEnd.After(s.Start) {
				lane = i
				break
			}
		}
		if lane < 0 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, end)
		} else {
			laneEnds[lane] = end
		}
		if len(cluster) == 0 || end.After(clusterEnd) {
			clusterEnd = end
		}
		cluster = append(cluster, idx)
		out[idx] = Placement{ID: s.ID, Lane: lane}
	}
	flush()
	return out
}
