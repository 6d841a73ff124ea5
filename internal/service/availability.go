package service

import (
	"fmt"
	"sort"
)

// interval is a half-open [start,end) minute range within one day.
type interval struct {
	start int
	end   int
}

func (iv interval) length() int {
	return iv.end - iv.start
}

func (iv interval) overlaps(other interval) bool {
	return iv.start < other.end && other.start < iv.end
}

// mergeIntervals unions a set of ranges into a sorted, non-overlapping list.
// Overlapping blocked time is treated conservatively: the union is busy.
func mergeIntervals(items []interval) []interval {
	if len(items) == 0 {
		return nil
	}
	sorted := make([]interval, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].start == sorted[j].start {
			return sorted[i].end < sorted[j].end
		}
		return sorted[i].start < sorted[j].start
	})

	merged := []interval{sorted[0]}
	for _, item := range sorted[1:] {
		last := &merged[len(merged)-1]
		if item.start <= last.end {
			if item.end > last.end {
				last.end = item.end
			}
			continue
		}
		merged = append(merged, item)
	}
	return merged
}

// subtractIntervals removes merged busy ranges from the window, returning the
// ordered free remainder.
func subtractIntervals(window interval, busy []interval) []interval {
	free := make([]interval, 0, len(busy)+1)
	cursor := window.start
	for _, b := range busy {
		if b.end <= window.start || b.start >= window.end {
			continue
		}
		if b.start > cursor {
			free = append(free, interval{start: cursor, end: min(b.start, window.end)})
		}
		if b.end > cursor {
			cursor = b.end
		}
	}
	if cursor < window.end {
		free = append(free, interval{start: cursor, end: window.end})
	}
	return free
}

// intersectIntervals computes the common free time of two sorted interval
// lists, used for sessions that must fit every participant simultaneously.
func intersectIntervals(a, b []interval) []interval {
	var out []interval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := max(a[i].start, b[j].start)
		end := min(a[i].end, b[j].end)
		if start < end {
			out = append(out, interval{start: start, end: end})
		}
		if a[i].end < b[j].end {
			i++
		} else {
			j++
		}
	}
	return out
}

// occupancy tracks one student's busy time per working day. Blocked input,
// fixed blocks and committed sessions all funnel through here so free-interval
// queries always reflect the current engine state.
type occupancy struct {
	week *WorkingWeek
	busy map[string][]interval
}

func newOccupancy(week *WorkingWeek) *occupancy {
	return &occupancy{week: week, busy: make(map[string][]interval, len(week.Days))}
}

// Block marks [start,end) busy on the given day. The range is clipped to the
// working window and expanded outward to grid boundaries; ranges entirely
// outside the window are ignored.
func (o *occupancy) Block(day string, start, end int) {
	if !o.week.HasDay(day) {
		return
	}
	start = o.week.snapDown(max(start, o.week.Start))
	end = o.week.snapUp(min(end, o.week.End))
	if start >= end {
		return
	}
	o.busy[day] = mergeIntervals(append(o.busy[day], interval{start: start, end: end}))
}

// FreeIntervals returns the ordered free sub-intervals remaining on a day.
// A fully booked day yields an empty slice, not an error.
func (o *occupancy) FreeIntervals(day string) []interval {
	if !o.week.HasDay(day) {
		return nil
	}
	return subtractIntervals(interval{start: o.week.Start, end: o.week.End}, o.busy[day])
}

// Reserve commits [start,end) on the given day. Committing over an occupied
// range is an engine defect, not an input problem, and fails hard.
func (o *occupancy) Reserve(day string, start, end int) error {
	for _, b := range o.busy[day] {
		if b.overlaps(interval{start: start, end: end}) {
			return fmt.Errorf("slot %s %s-%s already occupied", day, FormatClock(start), FormatClock(end))
		}
	}
	o.busy[day] = mergeIntervals(append(o.busy[day], interval{start: start, end: end}))
	return nil
}
