package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/phinze/gamepads/internal/device"
	"github.com/phinze/gamepads/internal/widget"
	"github.com/phinze/gamepads/internal/widgets/gesture"
	"github.com/phinze/gamepads/internal/widgets/joystick"
)

var screen = widget.FixedScreen{Width: 800, Height: 600}

// recorder logs every call it receives into a shared journal.
type recorder struct {
	widget.BaseWidget
	journal *[]string
	initErr error
	failOn  widget.PointerEventType
	stopped bool
}

func newRecorder(id string, journal *[]string) *recorder {
	return &recorder{BaseWidget: widget.NewBaseWidget(id), journal: journal}
}

func (r *recorder) Init(ctx context.Context, s widget.Screen) error {
	if r.initErr != nil {
		return r.initErr
	}
	return r.BaseWidget.Init(ctx, s)
}

func (r *recorder) Stop() error {
	r.stopped = true
	return r.BaseWidget.Stop()
}

func (r *recorder) log(ev widget.PointerEvent) error {
	*r.journal = append(*r.journal, fmt.Sprintf("%s %s %d (%v,%v)", r.ID(), ev.Type, ev.ID, ev.Pos.X, ev.Pos.Y))
	if ev.Type == r.failOn {
		return errors.New("boom")
	}
	return nil
}

func (r *recorder) HandlePointerDown(ev widget.PointerEvent) error { return r.log(ev) }
func (r *recorder) HandlePointerMove(ev widget.PointerEvent) error { return r.log(ev) }
func (r *recorder) HandlePointerUp(ev widget.PointerEvent) error   { return r.log(ev) }

func (r *recorder) Update() error {
	*r.journal = append(*r.journal, r.ID()+" update")
	return nil
}

// scriptedSurface is an in-memory device.Surface driven by the test.
type scriptedSurface struct {
	mu       sync.Mutex
	handlers []device.PointerHandler
}

func (s *scriptedSurface) Open() error                 { return nil }
func (s *scriptedSurface) Close() error                { return nil }
func (s *scriptedSurface) IsOpen() bool                { return true }
func (s *scriptedSurface) GetModelName() string        { return "scripted" }
func (s *scriptedSurface) Size() (float64, float64)    { return screen.Size() }
func (s *scriptedSurface) Listen(errCh chan error) error { return nil }

func (s *scriptedSurface) AddPointerHandler(fn device.PointerHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, fn)
	return nil
}

func (s *scriptedSurface) emit(typ widget.PointerEventType, id widget.PointerID, x, y float64) {
	s.mu.Lock()
	handlers := s.handlers
	s.mu.Unlock()
	for _, h := range handlers {
		h(s, widget.PointerEvent{Type: typ, ID: id, Pos: widget.Point{X: x, Y: y}})
	}
}

func started(t *testing.T, ws ...widget.Widget) *Coordinator {
	t.Helper()
	c := New(screen)
	for _, w := range ws {
		if err := c.Register(w); err != nil {
			t.Fatalf("Register(%s): %v", w.ID(), err)
		}
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { c.Stop() })
	return c
}

func equalJournal(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("journal:\n got %q\nwant %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("journal[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFrameDeliversEventsThenUpdates(t *testing.T) {
	var journal []string
	c := started(t, newRecorder("a", &journal), newRecorder("b", &journal))

	c.Post(widget.PointerEvent{Type: widget.PointerDown, ID: 1, Pos: widget.Point{X: 10, Y: 20}})
	c.Post(widget.PointerEvent{Type: widget.PointerMove, ID: 1, Pos: widget.Point{X: 30, Y: 20}})
	c.Frame()

	equalJournal(t, journal, []string{
		"a down 1 (10,20)",
		"b down 1 (10,20)",
		"a move 1 (30,20)",
		"b move 1 (30,20)",
		"a update",
		"b update",
	})
}

func TestFrameBeforeStartKeepsEvents(t *testing.T) {
	var journal []string
	c := New(screen)
	c.Register(newRecorder("a", &journal))

	c.Post(widget.PointerEvent{Type: widget.PointerDown, ID: 4, Pos: widget.Point{X: 1, Y: 1}})
	c.Frame()
	if len(journal) != 0 {
		t.Fatalf("frame before start delivered %q", journal)
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer c.Stop()
	c.Frame()
	equalJournal(t, journal, []string{"a down 4 (1,1)", "a update"})
}

func TestFailedWidgetIsSkipped(t *testing.T) {
	var journal []string
	bad := newRecorder("bad", &journal)
	bad.initErr = errors.New("no screen")
	c := started(t, bad, newRecorder("good", &journal))

	c.Post(widget.PointerEvent{Type: widget.PointerDown, ID: 1})
	c.Frame()

	equalJournal(t, journal, []string{"good down 1 (0,0)", "good update"})
}

func TestHandlerErrorDoesNotStopFrame(t *testing.T) {
	var journal []string
	flaky := newRecorder("flaky", &journal)
	flaky.failOn = widget.PointerDown
	c := started(t, flaky, newRecorder("next", &journal))

	c.Post(widget.PointerEvent{Type: widget.PointerDown, ID: 2, Pos: widget.Point{X: 5, Y: 5}})
	c.Frame()

	equalJournal(t, journal, []string{
		"flaky down 2 (5,5)",
		"next down 2 (5,5)",
		"flaky update",
		"next update",
	})
}

func TestUpWithoutPositionUsesLastKnown(t *testing.T) {
	g, err := gesture.New("swipe1", widget.All, gesture.Swipe)
	if err != nil {
		t.Fatal(err)
	}
	var swiped []gesture.Direction
	for _, d := range []gesture.Direction{gesture.Up, gesture.Down, gesture.Left, gesture.Right} {
		d := d
		g.SetSwipeCallback(d, func() { swiped = append(swiped, d) })
	}
	c := started(t, g)

	c.Post(widget.PointerEvent{Type: widget.PointerDown, ID: 9, Pos: widget.Point{X: 500, Y: 300}})
	c.Post(widget.PointerEvent{Type: widget.PointerMove, ID: 9, Pos: widget.Point{X: 200, Y: 320}})
	c.Post(widget.PointerEvent{Type: widget.PointerUp, ID: 9})
	c.Frame()

	if len(swiped) != 1 || swiped[0] != gesture.Left {
		t.Errorf("swipes: got %v, want [left]", swiped)
	}
	if n := c.ActivePointers(); n != 0 {
		t.Errorf("active pointers after up: got %d, want 0", n)
	}
}

func TestAttachedSurfaceDrivesJoystick(t *testing.T) {
	j, err := joystick.New("stick1", widget.HalfLeft, joystick.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	c := started(t, j)

	s := &scriptedSurface{}
	if err := c.Attach(s); err != nil {
		t.Fatal(err)
	}

	s.emit(widget.PointerDown, 1, 100, 300)
	c.Frame()
	if got := j.Speed(); got != (widget.Vector{}) {
		t.Errorf("speed after down: got %v, want zero", got)
	}
	if c.ActivePointers() != 1 {
		t.Errorf("active pointers: got %d, want 1", c.ActivePointers())
	}

	s.emit(widget.PointerMove, 1, 200, 300)
	c.Frame()
	if got, want := j.Speed(), (widget.Vector{X: 200}); got != want {
		t.Errorf("speed after drag: got %v, want %v", got, want)
	}
	if cur := j.Cursors(); !cur.Right || cur.Left || cur.Up || cur.Down {
		t.Errorf("cursors after drag: got %+v, want right only", cur)
	}

	s.emit(widget.PointerUp, 1, 200, 300)
	c.Frame()
	if j.ReceivingInput() {
		t.Error("joystick still receiving input after up")
	}
}

func TestRegisterAndUnregister(t *testing.T) {
	var journal []string
	a := newRecorder("a", &journal)
	c := started(t, a)

	if err := c.Register(newRecorder("a", &journal)); err == nil {
		t.Error("duplicate Register succeeded")
	}

	late := newRecorder("late", &journal)
	if err := c.Register(late); err != nil {
		t.Fatal(err)
	}
	if late.Screen() == nil {
		t.Error("widget registered after Start was not initialized")
	}

	if !c.Unregister("a") {
		t.Fatal("Unregister(a) returned false")
	}
	if !a.stopped {
		t.Error("unregistered widget was not stopped")
	}
	if c.Unregister("a") {
		t.Error("second Unregister(a) returned true")
	}

	c.Frame()
	equalJournal(t, journal, []string{"late update"})
	if got := len(c.Widgets()); got != 1 {
		t.Errorf("widgets: got %d, want 1", got)
	}
}

func TestStopStopsWidgets(t *testing.T) {
	var journal []string
	a := newRecorder("a", &journal)
	c := New(screen)
	c.Register(a)
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(context.Background()); err == nil {
		t.Error("second Start succeeded")
	}

	c.Stop()
	if !a.stopped {
		t.Error("widget not stopped")
	}
	select {
	case <-a.Context().Done():
	default:
		t.Error("widget context not cancelled")
	}
}

func TestRunFramesUntilCancelled(t *testing.T) {
	var mu sync.Mutex
	updates := 0
	c := started(t, &counter{BaseWidget: widget.NewBaseWidget("n"), mu: &mu, n: &updates})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, time.Millisecond) }()

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := updates
		mu.Unlock()
		if n >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("only %d frames ran", n)
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run: %v", err)
	}
}

type counter struct {
	widget.BaseWidget
	mu *sync.Mutex
	n  *int
}

func (c *counter) Update() error {
	c.mu.Lock()
	*c.n++
	c.mu.Unlock()
	return nil
}
