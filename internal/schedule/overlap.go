package schedule

import (
	"math"
	"sort"
)

// touchEpsilon is the floating-point tolerance used when deciding whether
// two emitted segments touch.
const touchEpsilon = 1e-6

// ComputeOverlaps sweeps each weekday's busy spans and returns the segments
// during which at least two spans are simultaneously active, sorted by start
// hour. A span ending at the exact instant another begins does not overlap
// it: intervals are half-open, so end points are processed before start
// points at the same timestamp. Consecutive segments that touch and carry an
// identical participant set are merged into one.
func ComputeOverlaps(spansByDay map[Weekday][]BusySpan) map[Weekday][]OverlapSegment {
	result := make(map[Weekday][]OverlapSegment, len(spansByDay))
	for day, spans := range spansByDay {
		if segs := sweepDay(day, spans); len(segs) > 0 {
			result[day] = segs
		}
	}
	return result
}

// point is one boundary of a busy span on the sweep line.
type point struct {
	t    float64
	end  bool
	span int // index into the day's span slice
}

func sweepDay(day Weekday, spans []BusySpan) []OverlapSegment {
	points := make([]point, 0, len(spans)*2)
	for i, s := range spans {
		points = append(points, point{t: s.StartHour, span: i})
		points = append(points, point{t: s.EndHour, end: true, span: i})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].t != points[j].t {
			return points[i].t < points[j].t
		}
		return points[i].end && !points[j].end
	})

	// active holds a count per span so that re-entry bookkeeping stays
	// correct even if a span were registered more than once.
	active := make(map[int]int)
	var segments []OverlapSegment
	var last float64
	started := false

	for _, p := range points {
		if started && p.t > last && len(active) >= 2 {
			segments = append(segments, OverlapSegment{
				Day:          day,
				StartHour:    last,
				EndHour:      p.t,
				Participants: activeSpans(active, spans),
			})
		}
		if p.end {
			active[p.span]--
			if active[p.span] <= 0 {
				delete(active, p.span)
			}
		} else {
			active[p.span]++
		}
		last = p.t
		started = true
	}

	return mergeTouching(segments)
}

// activeSpans snapshots the currently active spans in span order.
func activeSpans(active map[int]int, spans []BusySpan) []BusySpan {
	idx := make([]int, 0, len(active))
	for i := range active {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	out := make([]BusySpan, 0, len(idx))
	for _, i := range idx {
		out = append(out, spans[i])
	}
	return out
}

// mergeTouching collapses consecutive segments whose boundaries touch and
// whose participant sets are identical, so that one logical overlap is not
// reported as several adjacent blocks.
func mergeTouching(segments []OverlapSegment) []OverlapSegment {
	if len(segments) == 0 {
		return segments
	}

	out := make([]OverlapSegment, 0, len(segments))
	cur := segments[0]
	for _, seg := range segments[1:] {
		touching := seg.StartHour <= cur.EndHour || math.Abs(seg.StartHour-cur.EndHour) < touchEpsilon
		if touching && sameParticipants(cur.Participants, seg.Participants) {
			if seg.EndHour > cur.EndHour {
				cur.EndHour = seg.EndHour
			}
		} else {
			out = append(out, cur)
			cur = seg
		}
	}
	return append(out, cur)
}

// sameParticipants reports whether a and b contain the same spans, compared
// by person and span boundaries.
func sameParticipants(a, b []BusySpan) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if y.Person == x.Person && y.StartHour == x.StartHour && y.EndHour == x.EndHour {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
