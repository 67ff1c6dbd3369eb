package device

import (
	"image"
	"time"

	"github.com/phinze/gamepads/internal/widget"
)

// LongTouchHold is the hold time reported for a long strip touch.
const LongTouchHold = 500 * time.Millisecond

func toPoint(p image.Point) widget.Point {
	return widget.Point{X: float64(p.X), Y: float64(p.Y)}
}

// TapEvents expands a touch strip tap into a pointer down and up at p.
// The strip reports taps only after the finger lifted, so the down is
// back-dated from now by the hold time.
func TapEvents(id widget.PointerID, t TouchStripTouchType, p image.Point, now time.Time) []widget.PointerEvent {
	hold := time.Duration(0)
	if t == TOUCH_STRIP_TOUCH_TYPE_LONG {
		hold = LongTouchHold
	}
	pos := toPoint(p)
	return []widget.PointerEvent{
		{Type: widget.PointerDown, ID: id, Pos: pos, Time: now.Add(-hold)},
		{Type: widget.PointerUp, ID: id, Pos: pos, Time: now},
	}
}

// SwipeEvents expands a touch strip swipe into a pointer down at origin,
// a move to dest and an up at dest.
func SwipeEvents(id widget.PointerID, origin, dest image.Point, now time.Time) []widget.PointerEvent {
	from, to := toPoint(origin), toPoint(dest)
	return []widget.PointerEvent{
		{Type: widget.PointerDown, ID: id, Pos: from, Time: now},
		{Type: widget.PointerMove, ID: id, Pos: to, Time: now},
		{Type: widget.PointerUp, ID: id, Pos: to, Time: now},
	}
}
