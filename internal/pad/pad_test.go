package pad

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/phinze/gamepads/internal/widget"
	"github.com/phinze/gamepads/internal/widgets/button"
	"github.com/phinze/gamepads/internal/widgets/gesture"
)

func TestNewLayouts(t *testing.T) {
	tests := []struct {
		layout   Layout
		sticks   []widget.Sector
		buttons  int
		gestures []widget.Sector
	}{
		{SingleStick, []widget.Sector{widget.All}, 0, nil},
		{DoubleStick, []widget.Sector{widget.HalfLeft, widget.HalfRight}, 0, nil},
		{StickButton, []widget.Sector{widget.HalfLeft}, 3, nil},
		{CornerSticks, []widget.Sector{widget.BottomLeft, widget.TopLeft, widget.TopRight, widget.BottomRight}, 0, nil},
		{GestureOnly, nil, 0, []widget.Sector{widget.All}},
		{GestureButton, nil, 3, []widget.Sector{widget.HalfLeft}},
	}

	for _, tt := range tests {
		t.Run(tt.layout.String(), func(t *testing.T) {
			p, err := New(tt.layout, Options{ButtonPad: ThreeFan})
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			if len(p.Sticks) != len(tt.sticks) {
				t.Fatalf("sticks: got %d, want %d", len(p.Sticks), len(tt.sticks))
			}
			for i, s := range tt.sticks {
				if got := p.Stick(i).Sector(); got != s {
					t.Errorf("stick %d sector: got %v, want %v", i, got, s)
				}
			}
			if len(p.Buttons) != tt.buttons {
				t.Errorf("buttons: got %d, want %d", len(p.Buttons), tt.buttons)
			}
			if len(p.Gestures) != len(tt.gestures) {
				t.Fatalf("gestures: got %d, want %d", len(p.Gestures), len(tt.gestures))
			}
			for i, s := range tt.gestures {
				g := p.Gesture(i)
				if g.Sector() != s {
					t.Errorf("gesture %d sector: got %v, want %v", i, g.Sector(), s)
				}
				if g.Mode() != gesture.Swipe {
					t.Errorf("gesture %d mode: got %v, want swipe", i, g.Mode())
				}
			}

			want := len(tt.sticks) + tt.buttons + len(tt.gestures)
			if got := len(p.Widgets()); got != want {
				t.Errorf("widgets: got %d, want %d", got, want)
			}
		})
	}
}

func TestNewWidgetIDs(t *testing.T) {
	p, err := New(StickButton, Options{ButtonPad: TwoInlineX})
	if err != nil {
		t.Fatal(err)
	}

	var ids []string
	for _, w := range p.Widgets() {
		ids = append(ids, w.ID())
	}
	want := []string{"button1", "button2", "stick1"}
	if len(ids) != len(want) {
		t.Fatalf("ids: got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("id %d: got %q, want %q", i, ids[i], want[i])
		}
	}

	g, err := New(GestureOnly, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if id := g.Gesture(0).ID(); id != "swipe1" {
		t.Errorf("gesture id: got %q, want swipe1", id)
	}
}

func TestNewRejectsUnknown(t *testing.T) {
	if _, err := New(Layout(99), Options{}); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("unknown layout: got %v, want ErrUnknownLayout", err)
	}
	if _, err := New(StickButton, Options{}); !errors.Is(err, ErrUnknownButtonPad) {
		t.Errorf("missing button pad: got %v, want ErrUnknownButtonPad", err)
	}
	if _, err := New(GestureButton, Options{ButtonPad: ButtonPadType(42)}); !errors.Is(err, ErrUnknownButtonPad) {
		t.Errorf("unknown button pad: got %v, want ErrUnknownButtonPad", err)
	}
	// Layouts without buttons ignore the pad type.
	if _, err := New(DoubleStick, Options{ButtonPad: ButtonPadType(42)}); err != nil {
		t.Errorf("double stick with bad pad: %v", err)
	}
}

func TestNewPropagatesWidgetErrors(t *testing.T) {
	_, err := New(GestureOnly, Options{SwipeThreshold: -5})
	if !errors.Is(err, widget.ErrInvalidConfig) {
		t.Errorf("negative threshold: got %v, want ErrInvalidConfig", err)
	}
	_, err = New(StickButton, Options{ButtonPad: OneFixed, Cooldown: -time.Second})
	if !errors.Is(err, widget.ErrInvalidConfig) {
		t.Errorf("negative cooldown: got %v, want ErrInvalidConfig", err)
	}
}

func TestOptionsApplied(t *testing.T) {
	c := clockwork.NewFakeClockAt(time.Time{})
	p, err := New(StickButton, Options{
		ButtonPad:  OneFixed,
		ButtonType: button.Single,
		Cooldown:   time.Second,
		Clock:      c,
	})
	if err != nil {
		t.Fatal(err)
	}

	b := p.Button(0)
	if b.Type() != button.Single {
		t.Errorf("button type: got %v, want single", b.Type())
	}

	fired := 0
	b.SetOnPressed(func() { fired++ })
	b.Press()
	b.Release()
	b.Press()
	b.Release()
	b.Update()
	if fired != 1 {
		t.Errorf("fired inside cooldown: got %d, want 1", fired)
	}
	c.Advance(2 * time.Second)
	b.Update()
	if fired != 2 {
		t.Errorf("fired after cooldown: got %d, want 2", fired)
	}

	if s := p.Stick(0).Settings(); s.MaxDistance != 60 || !s.Analog {
		t.Errorf("default stick settings not applied: %+v", s)
	}
}

func TestGestureModeAndSector(t *testing.T) {
	p, err := New(GestureButton, Options{
		ButtonPad:     OneFixed,
		GestureMode:   gesture.Tap,
		GestureSector: widget.HalfBottom,
	})
	if err != nil {
		t.Fatal(err)
	}
	g := p.Gesture(0)
	if g.Mode() != gesture.Tap || g.Sector() != widget.HalfBottom {
		t.Errorf("gesture: got %v in %v, want tap in half-bottom", g.Mode(), g.Sector())
	}
	if g.ID() != "tap1" {
		t.Errorf("gesture id: got %q, want tap1", g.ID())
	}
}

func TestReplaceGestures(t *testing.T) {
	p, err := New(GestureButton, Options{ButtonPad: OneFixed})
	if err != nil {
		t.Fatal(err)
	}
	before := p.Gesture(0)

	old, err := p.ReplaceGestures(Options{GestureMode: gesture.Tap})
	if err != nil {
		t.Fatal(err)
	}
	if len(old) != 1 || old[0] != before {
		t.Fatalf("replaced: got %v, want the original recognizer", old)
	}
	g := p.Gesture(0)
	if g.Mode() != gesture.Tap || g.Sector() != widget.HalfLeft {
		t.Errorf("rebuilt gesture: got %v in %v, want tap in half-left", g.Mode(), g.Sector())
	}

	if _, err := p.ReplaceGestures(Options{GestureSector: widget.Sector(77)}); !errors.Is(err, widget.ErrInvalidConfig) {
		t.Errorf("bad sector: got %v, want ErrInvalidConfig", err)
	}
	if p.Gesture(0) != g {
		t.Error("failed rebuild replaced the recognizers")
	}

	sticks, err := New(SingleStick, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if old, err := sticks.ReplaceGestures(Options{GestureMode: gesture.Tap}); err != nil || old != nil || len(sticks.Gestures) != 0 {
		t.Errorf("stick layout: got %v, %v, %d gestures", old, err, len(sticks.Gestures))
	}
}

func TestAccessorsOutOfRange(t *testing.T) {
	p, err := New(SingleStick, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if p.Stick(1) != nil || p.Stick(-1) != nil {
		t.Error("Stick out of range returned a widget")
	}
	if p.Button(0) != nil {
		t.Error("Button(0) on a stick-only pad returned a widget")
	}
	if p.Gesture(0) != nil {
		t.Error("Gesture(0) on a stick-only pad returned a widget")
	}
}

func TestButtonPadCount(t *testing.T) {
	tests := map[ButtonPadType]int{
		OneFixed: 1, TwoInlineX: 2, TwoInlineY: 2, ThreeInlineX: 3, ThreeInlineY: 3, ThreeFan: 3,
		FourStack: 4, FourInlineX: 4, FourInlineY: 4, FourFan: 4, FiveFan: 5, ButtonPadType(0): 0,
	}
	for typ, want := range tests {
		if got := typ.Count(); got != want {
			t.Errorf("%v.Count(): got %d, want %d", typ, got, want)
		}
	}
}

func TestParse(t *testing.T) {
	for _, l := range Layouts() {
		got, err := ParseLayout(l.String())
		if err != nil || got != l {
			t.Errorf("ParseLayout(%q): got %v, %v", l.String(), got, err)
		}
	}
	if got, err := ParseLayout("Corner_Sticks"); err != nil || got != CornerSticks {
		t.Errorf("ParseLayout(Corner_Sticks): got %v, %v", got, err)
	}
	if _, err := ParseLayout("triple-stick"); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("ParseLayout(triple-stick): got %v, want ErrUnknownLayout", err)
	}

	for _, b := range ButtonPads() {
		got, err := ParseButtonPad(b.String())
		if err != nil || got != b {
			t.Errorf("ParseButtonPad(%q): got %v, %v", b.String(), got, err)
		}
	}
	if _, err := ParseButtonPad("six-fan"); !errors.Is(err, ErrUnknownButtonPad) {
		t.Errorf("ParseButtonPad(six-fan): got %v, want ErrUnknownButtonPad", err)
	}
}

func TestArrangeInline(t *testing.T) {
	screen := widget.FixedScreen{Width: 800, Height: 600}

	tests := []struct {
		pad  ButtonPadType
		want []widget.Rect
	}{
		{OneFixed, []widget.Rect{widget.RectAt(690, 490, 100, 100)}},
		{TwoInlineX, []widget.Rect{
			widget.RectAt(690, 490, 100, 100),
			widget.RectAt(580, 490, 100, 100),
		}},
		{ThreeInlineY, []widget.Rect{
			widget.RectAt(690, 490, 100, 100),
			widget.RectAt(690, 380, 100, 100),
			widget.RectAt(690, 270, 100, 100),
		}},
		{FourStack, []widget.Rect{
			widget.RectAt(690, 490, 100, 100),
			widget.RectAt(690, 380, 100, 100),
			widget.RectAt(580, 490, 100, 100),
			widget.RectAt(580, 380, 100, 100),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.pad.String(), func(t *testing.T) {
			p, err := New(StickButton, Options{ButtonPad: tt.pad})
			if err != nil {
				t.Fatal(err)
			}
			p.Arrange(screen)
			for i, want := range tt.want {
				if got := p.Button(i).Bounds(); got != want {
					t.Errorf("button %d bounds: got %+v, want %+v", i+1, got, want)
				}
			}
		})
	}
}

func TestArrangeFan(t *testing.T) {
	p, err := New(GestureButton, Options{ButtonPad: FiveFan})
	if err != nil {
		t.Fatal(err)
	}
	p.Arrange(widget.FixedScreen{Width: 800, Height: 600})

	// The hub button sits at the arc centre, scaled up.
	if got, want := p.Button(0).Bounds(), widget.RectAt(650, 450, 120, 120); got != want {
		t.Errorf("hub bounds: got %+v, want %+v", got, want)
	}

	// The first arc button starts at 175 degrees from the centre (770, 570).
	b := p.Button(1).Bounds()
	if math.Abs(b.Max.X-620.57) > 0.01 || math.Abs(b.Max.Y-583.07) > 0.01 {
		t.Errorf("arc start corner: got %+v, want about (620.57, 583.07)", b.Max)
	}
	if math.Abs(b.Dx()-70) > 1e-9 {
		t.Errorf("arc button width: got %v, want 70", b.Dx())
	}

	for i, btn := range p.Buttons {
		if btn.Bounds().Empty() {
			t.Errorf("button %d has empty bounds", i+1)
		}
	}
}
