package device

import (
	"testing"
	"time"

	"github.com/phinze/gamepads/internal/widget"
)

func TestTrackerDiff(t *testing.T) {
	var tr Tracker
	p := func(x, y float64) widget.Point { return widget.Point{X: x, Y: y} }

	type want struct {
		typ widget.PointerEventType
		id  widget.PointerID
		pos widget.Point
	}
	steps := []struct {
		name string
		held map[widget.PointerID]widget.Point
		want []want
	}{
		{"mouse down", map[widget.PointerID]widget.Point{0: p(10, 10)}, []want{
			{widget.PointerDown, 0, p(10, 10)},
		}},
		{"idle", map[widget.PointerID]widget.Point{0: p(10, 10)}, nil},
		{"drag and second touch", map[widget.PointerID]widget.Point{0: p(20, 10), 2: p(500, 300)}, []want{
			{widget.PointerDown, 2, p(500, 300)},
			{widget.PointerMove, 0, p(20, 10)},
		}},
		{"mouse lifted", map[widget.PointerID]widget.Point{2: p(500, 300)}, []want{
			{widget.PointerUp, 0, p(20, 10)},
		}},
	}

	for _, step := range steps {
		got := tr.Diff(step.held, time.Time{})
		if len(got) != len(step.want) {
			t.Fatalf("%s: got %d events %+v, want %d", step.name, len(got), got, len(step.want))
		}
		for i, w := range step.want {
			if got[i].Type != w.typ || got[i].ID != w.id || got[i].Pos != w.pos {
				t.Errorf("%s event %d: got %v %d %v, want %v %d %v",
					step.name, i, got[i].Type, got[i].ID, got[i].Pos, w.typ, w.id, w.pos)
			}
		}
	}

	ups := tr.Reset(time.Time{})
	if len(ups) != 1 || ups[0].Type != widget.PointerUp || ups[0].ID != 2 {
		t.Errorf("Reset: got %+v, want one up for pointer 2", ups)
	}
	if more := tr.Reset(time.Time{}); len(more) != 0 {
		t.Errorf("second Reset: got %+v, want none", more)
	}
}
