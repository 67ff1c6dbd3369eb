// Package gesture recognizes single-pointer taps and four-way swipes.
package gesture

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/phinze/gamepads/internal/widget"
)

// DefaultThreshold is the minimum swipe length in pixels.
const DefaultThreshold = 100

// Mode selects what a gesture reports.
type Mode uint8

const (
	// Tap reports touch-down and release with the hold duration.
	Tap Mode = iota + 1
	// Swipe reports one of four directions on release.
	Swipe
)

func (m Mode) String() string {
	switch m {
	case Tap:
		return "tap"
	case Swipe:
		return "swipe"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode parses "tap" (or "touch") and "swipe".
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tap", "touch":
		return Tap, nil
	case "swipe":
		return Swipe, nil
	}
	return 0, fmt.Errorf("%w: unknown gesture mode %q", widget.ErrInvalidConfig, name)
}

// Direction is a swipe direction.
type Direction uint8

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Swipes holds the direction flags of the last classified swipe.
type Swipes struct {
	Up, Down, Left, Right bool
}

// Option configures a Gesture.
type Option func(*Gesture)

// WithThreshold sets the minimum swipe length.
func WithThreshold(px float64) Option {
	return func(g *Gesture) { g.threshold = px }
}

// WithClock replaces the real clock, mainly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(g *Gesture) { g.clock = c }
}

// OnTouchDown sets the tap-mode callback run when a pointer lands.
func OnTouchDown(fn func()) Option {
	return func(g *Gesture) { g.onTouchDown = fn }
}

// OnRelease sets the tap-mode callback run with the hold duration.
func OnRelease(fn func(time.Duration)) Option {
	return func(g *Gesture) { g.onRelease = fn }
}

// OnSwipe sets the callback for one swipe direction.
func OnSwipe(dir Direction, fn func()) Option {
	return func(g *Gesture) { g.onSwipe[dir] = fn }
}

// Gesture tracks one pointer inside its sector from down to up.
type Gesture struct {
	widget.BaseWidget
	sector widget.Sector
	mode   Mode
	clock  clockwork.Clock

	mu          sync.Mutex
	threshold   float64
	claim       widget.Claim
	anchor      widget.Point
	pos         widget.Point
	start       time.Time
	swipes      Swipes
	onTouchDown func()
	onRelease   func(time.Duration)
	onSwipe     map[Direction]func()
}

// New creates a gesture recognizer for the given sector.
func New(id string, sector widget.Sector, mode Mode, opts ...Option) (*Gesture, error) {
	g := &Gesture{
		BaseWidget: widget.NewBaseWidget(id),
		sector:     sector,
		mode:       mode,
		clock:      clockwork.NewRealClock(),
		threshold:  DefaultThreshold,
		onSwipe:    make(map[Direction]func()),
	}
	for _, opt := range opts {
		opt(g)
	}

	if sector < widget.HalfLeft || sector > widget.All {
		return nil, fmt.Errorf("gesture %s: %w: unknown sector %d", id, widget.ErrInvalidConfig, sector)
	}
	if mode != Tap && mode != Swipe {
		return nil, fmt.Errorf("gesture %s: %w: unknown mode %d", id, widget.ErrInvalidConfig, mode)
	}
	if err := validThreshold(g.threshold); err != nil {
		return nil, fmt.Errorf("gesture %s: %w", id, err)
	}
	return g, nil
}

func validThreshold(px float64) error {
	if !(px > 0) || math.IsInf(px, 0) {
		return fmt.Errorf("%w: swipe threshold must be a positive number, got %v", widget.ErrInvalidConfig, px)
	}
	return nil
}

// Mode returns the recognizer's mode.
func (g *Gesture) Mode() Mode {
	return g.mode
}

// Sector returns the region this recognizer claims pointers in.
func (g *Gesture) Sector() widget.Sector {
	return g.sector
}

// Threshold returns the minimum swipe length.
func (g *Gesture) Threshold() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.threshold
}

// SetThreshold changes the minimum swipe length.
func (g *Gesture) SetThreshold(px float64) error {
	if err := validThreshold(px); err != nil {
		return fmt.Errorf("gesture %s: %w", g.ID(), err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.threshold = px
	return nil
}

// SetSwipeCallback rebinds the callback for one direction.
func (g *Gesture) SetSwipeCallback(dir Direction, fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onSwipe[dir] = fn
}

// SetOnTouchDown rebinds the tap-mode touch-down callback.
func (g *Gesture) SetOnTouchDown(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onTouchDown = fn
}

// SetOnRelease rebinds the tap-mode release callback.
func (g *Gesture) SetOnRelease(fn func(time.Duration)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onRelease = fn
}

// HandlePointerDown starts tracking a pointer that lands in the sector.
func (g *Gesture) HandlePointerDown(ev widget.PointerEvent) error {
	if !g.Enabled() {
		return nil
	}

	g.mu.Lock()
	if g.claim.Held() || !g.InSector(g.sector, ev.Pos) {
		g.mu.Unlock()
		return nil
	}
	g.claim.Take(ev.ID)
	g.anchor = ev.Pos
	g.pos = ev.Pos
	g.start = g.clock.Now()

	var cb func()
	if g.mode == Tap {
		cb = g.onTouchDown
	}
	g.mu.Unlock()

	if cb != nil {
		cb()
	}
	return nil
}

// HandlePointerMove follows the tracked pointer.
func (g *Gesture) HandlePointerMove(ev widget.PointerEvent) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.claim.Holds(ev.ID) {
		g.pos = ev.Pos
	}
	return nil
}

// HandlePointerUp finishes the gesture if ev is the tracked pointer.
func (g *Gesture) HandlePointerUp(ev widget.PointerEvent) error {
	g.mu.Lock()
	if !g.claim.Release(ev.ID) {
		g.mu.Unlock()
		return nil
	}
	g.pos = ev.Pos
	elapsed := g.clock.Now().Sub(g.start)

	if g.mode == Tap {
		cb := g.onRelease
		g.mu.Unlock()
		if cb != nil {
			cb(elapsed)
		}
		return nil
	}

	dir := g.classifyLocked()
	cb := g.onSwipe[dir]
	g.mu.Unlock()

	if dir != 0 && cb != nil {
		cb()
	}
	return nil
}

// classifyLocked turns the finished pointer path into a swipe direction.
// Short paths are discarded and leave the previous flags untouched.
func (g *Gesture) classifyLocked() Direction {
	d := g.pos.Sub(g.anchor)
	if d.Len() < g.threshold {
		return 0
	}

	deg := d.Snap().Degrees()
	g.swipes = Swipes{
		Up:    deg == -90,
		Down:  deg == 90,
		Left:  deg == 180,
		Right: deg == 0,
	}

	switch {
	case g.swipes.Up:
		return Up
	case g.swipes.Down:
		return Down
	case g.swipes.Left:
		return Left
	case g.swipes.Right:
		return Right
	}
	return 0
}

// Swipes returns the flags of the last classified swipe.
func (g *Gesture) Swipes() Swipes {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.swipes
}

// Pressed reports whether a pointer is being tracked.
func (g *Gesture) Pressed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.claim.Held()
}
