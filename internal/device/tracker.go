package device

import (
	"sort"
	"time"

	"github.com/phinze/gamepads/internal/widget"
)

// Tracker turns successive snapshots of the pointers currently held into
// pointer events. Hosts that poll input state, like the ebiten window, feed
// it one snapshot per tick.
type Tracker struct {
	last map[widget.PointerID]widget.Point
}

// Diff compares held against the previous snapshot. It returns ups for
// pointers that disappeared, then downs for new pointers, then moves for
// pointers whose position changed, each group in pointer ID order.
func (t *Tracker) Diff(held map[widget.PointerID]widget.Point, now time.Time) []widget.PointerEvent {
	var ups, downs, moves []widget.PointerEvent

	for id, pos := range t.last {
		if _, ok := held[id]; !ok {
			ups = append(ups, widget.PointerEvent{Type: widget.PointerUp, ID: id, Pos: pos, Time: now})
		}
	}
	for id, pos := range held {
		prev, ok := t.last[id]
		switch {
		case !ok:
			downs = append(downs, widget.PointerEvent{Type: widget.PointerDown, ID: id, Pos: pos, Time: now})
		case prev != pos:
			moves = append(moves, widget.PointerEvent{Type: widget.PointerMove, ID: id, Pos: pos, Time: now})
		}
	}

	next := make(map[widget.PointerID]widget.Point, len(held))
	for id, pos := range held {
		next[id] = pos
	}
	t.last = next

	events := make([]widget.PointerEvent, 0, len(ups)+len(downs)+len(moves))
	for _, group := range [][]widget.PointerEvent{ups, downs, moves} {
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		events = append(events, group...)
	}
	return events
}

// Reset forgets all held pointers and returns ups for them, so widgets do
// not keep a pointer claimed after the host loses input focus.
func (t *Tracker) Reset(now time.Time) []widget.PointerEvent {
	return t.Diff(nil, now)
}
