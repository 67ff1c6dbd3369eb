// Package coordinator manages widget lifecycle and routes pointer events to widgets.
package coordinator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/phinze/gamepads/internal/device"
	"github.com/phinze/gamepads/internal/widget"
)

// DefaultFrameInterval is the frame period used by Run when none is given.
const DefaultFrameInterval = time.Second / 60

// Coordinator queues pointer events from any goroutine and delivers them to
// its widgets on the frame goroutine, followed by one Update per widget.
type Coordinator struct {
	screen  widget.Screen
	widgets []widget.Widget
	ids     map[string]widget.Widget

	// Track widgets that failed to initialize
	failedWidgets map[widget.Widget]bool

	// Last known position of every active pointer
	positions map[widget.PointerID]widget.Point

	// Event queue, filled by Post and drained by Frame
	queueMu sync.Mutex
	queue   []widget.PointerEvent

	// Lifecycle
	ctx     context.Context
	cancel  context.CancelFunc
	started bool

	// frameMu serializes Frame with Register, Unregister and Stop.
	frameMu sync.Mutex
}

// New creates a new Coordinator for widgets living on screen.
func New(screen widget.Screen) *Coordinator {
	return &Coordinator{
		screen:        screen,
		ids:           make(map[string]widget.Widget),
		failedWidgets: make(map[widget.Widget]bool),
		positions:     make(map[widget.PointerID]widget.Point),
	}
}

// Register adds a widget. Widgets registered after Start are initialized
// immediately. Widget IDs must be unique.
func (c *Coordinator) Register(w widget.Widget) error {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()

	if _, dup := c.ids[w.ID()]; dup {
		return fmt.Errorf("widget %s already registered", w.ID())
	}
	c.ids[w.ID()] = w
	c.widgets = append(c.widgets, w)

	if c.started {
		c.initWidget(w)
	}
	return nil
}

// Unregister stops and removes the widget with the given ID. It reports
// whether such a widget was registered.
func (c *Coordinator) Unregister(id string) bool {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()

	w, ok := c.ids[id]
	if !ok {
		return false
	}
	delete(c.ids, id)
	delete(c.failedWidgets, w)
	for i, existing := range c.widgets {
		if existing == w {
			c.widgets = append(c.widgets[:i:i], c.widgets[i+1:]...)
			break
		}
	}
	if err := w.Stop(); err != nil {
		log.Printf("Widget %s failed to stop: %v", id, err)
	}
	return true
}

// Widgets returns the registered widgets in registration order.
func (c *Coordinator) Widgets() []widget.Widget {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()
	return append([]widget.Widget(nil), c.widgets...)
}

// Start initializes all widgets. A widget that fails to initialize is
// logged and skipped for the rest of the session.
func (c *Coordinator) Start(ctx context.Context) error {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()

	if c.started {
		return fmt.Errorf("coordinator already started")
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.started = true

	for _, w := range c.widgets {
		c.initWidget(w)
	}
	return nil
}

func (c *Coordinator) initWidget(w widget.Widget) {
	if err := w.Init(c.ctx, c.screen); err != nil {
		log.Printf("Widget %s failed to initialize: %v (skipping)", w.ID(), err)
		c.failedWidgets[w] = true
	}
}

// Attach subscribes the coordinator to a surface's pointer events.
func (c *Coordinator) Attach(s device.Surface) error {
	return s.AddPointerHandler(func(_ device.Surface, ev widget.PointerEvent) error {
		c.Post(ev)
		return nil
	})
}

// Post queues a pointer event for the next frame. It is safe to call from
// any goroutine.
func (c *Coordinator) Post(ev widget.PointerEvent) {
	c.queueMu.Lock()
	c.queue = append(c.queue, ev)
	c.queueMu.Unlock()
}

// Frame delivers every queued event in arrival order and then updates all
// widgets. Handler errors are logged and do not stop the frame. Before
// Start, events stay queued.
func (c *Coordinator) Frame() {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()

	if !c.started {
		return
	}

	c.queueMu.Lock()
	events := c.queue
	c.queue = nil
	c.queueMu.Unlock()

	for _, ev := range events {
		c.dispatch(ev)
	}

	for _, w := range c.widgets {
		if c.failedWidgets[w] {
			continue
		}
		if err := w.Update(); err != nil {
			log.Printf("Widget %s update failed: %v", w.ID(), err)
		}
	}
}

func (c *Coordinator) dispatch(ev widget.PointerEvent) {
	switch ev.Type {
	case widget.PointerDown, widget.PointerMove:
		c.positions[ev.ID] = ev.Pos
	case widget.PointerUp:
		// Hosts that cannot report where a pointer was lifted send a zero
		// position; use the last one seen.
		if last, ok := c.positions[ev.ID]; ok && ev.Pos == (widget.Point{}) {
			ev.Pos = last
		}
		delete(c.positions, ev.ID)
	}

	for _, w := range c.widgets {
		if c.failedWidgets[w] {
			continue
		}
		var err error
		switch ev.Type {
		case widget.PointerDown:
			err = w.HandlePointerDown(ev)
		case widget.PointerMove:
			err = w.HandlePointerMove(ev)
		case widget.PointerUp:
			err = w.HandlePointerUp(ev)
		default:
			err = fmt.Errorf("unknown pointer event type %d", ev.Type)
		}
		if err != nil {
			log.Printf("Widget %s failed to handle pointer %s: %v", w.ID(), ev.Type, err)
		}
	}
}

// ActivePointers returns the number of pointers currently down.
func (c *Coordinator) ActivePointers() int {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()
	return len(c.positions)
}

// Run calls Frame on a ticker until ctx is cancelled. It is the frame
// loop for hosts without their own, such as the deck and remote bridges.
func (c *Coordinator) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Frame()
		}
	}
}

// Stop gracefully shuts down all widgets.
func (c *Coordinator) Stop() error {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	for _, w := range c.widgets {
		if err := w.Stop(); err != nil {
			log.Printf("Widget %s failed to stop: %v", w.ID(), err)
		}
	}
	c.started = false
	return nil
}

// Screen returns the screen widgets are laid out on.
func (c *Coordinator) Screen() widget.Screen {
	return c.screen
}
