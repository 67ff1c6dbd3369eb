// Package button implements a touch press-button with turbo and cooldown
// behaviour.
package button

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/phinze/gamepads/internal/widget"
)

// TurboDelay is how long a delayed-turbo button must be held before it
// starts auto-repeating.
const TurboDelay = 300 * time.Millisecond

// Type selects how a button reacts to being held.
type Type uint8

const (
	// Single fires once per press.
	Single Type = iota + 1
	// Turbo fires every frame while held.
	Turbo
	// DelayedTurbo starts firing every frame after TurboDelay.
	DelayedTurbo
	// SingleThenTurbo fires once on press, then behaves like DelayedTurbo.
	SingleThenTurbo
	// Custom never fires; callers poll Pressed.
	Custom
)

var typeNames = map[Type]string{
	Single:          "single",
	Turbo:           "turbo",
	DelayedTurbo:    "delayed-turbo",
	SingleThenTurbo: "single-then-turbo",
	Custom:          "custom",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// ParseType parses a button type name such as "single" or "delayed-turbo".
func ParseType(name string) (Type, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for t, tn := range typeNames {
		if tn == n {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown button type %q", widget.ErrInvalidConfig, name)
}

// State is the observable phase of a button.
type State uint8

const (
	Idle State = iota
	Pressed
	TurboFiring
	CooldownLocked
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pressed:
		return "pressed"
	case TurboFiring:
		return "turbo"
	case CooldownLocked:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Option configures a Button.
type Option func(*Button)

// WithCallback sets the function run each time the button fires.
func WithCallback(fn func()) Option {
	return func(b *Button) { b.onPressed = fn }
}

// WithBounds sets the screen area in which the button claims pointers.
func WithBounds(r widget.Rect) Option {
	return func(b *Button) { b.bounds = r }
}

// WithClock replaces the real clock, mainly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(b *Button) { b.clock = c }
}

// WithCooldown makes every firing lock the button for d.
func WithCooldown(d time.Duration) Option {
	return func(b *Button) { b.cooldown = d }
}

// Button is a pressable control. It is pressed either by a pointer landing in
// its bounds or directly through Press and Release.
type Button struct {
	widget.BaseWidget
	typ   Type
	clock clockwork.Clock

	mu        sync.Mutex
	bounds    widget.Rect
	onPressed func()
	claim     widget.Claim
	held      bool
	pressed   bool
	deferred  bool
	turbo     clockwork.Timer
	cooldown  time.Duration
	lastFire  time.Time
	hasFired  bool
}

// New creates a button of the given type.
func New(id string, typ Type, opts ...Option) (*Button, error) {
	b := &Button{
		BaseWidget: widget.NewBaseWidget(id),
		typ:        typ,
		clock:      clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if _, ok := typeNames[typ]; !ok {
		return nil, fmt.Errorf("button %s: %w: unknown type %d", id, widget.ErrInvalidConfig, typ)
	}
	if b.cooldown < 0 {
		return nil, fmt.Errorf("button %s: %w: negative cooldown %v", id, widget.ErrInvalidConfig, b.cooldown)
	}
	return b, nil
}

// Type returns the press type.
func (b *Button) Type() Type {
	return b.typ
}

// Bounds returns the area the button claims pointers in.
func (b *Button) Bounds() widget.Rect {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bounds
}

// SetBounds moves the button's hit area.
func (b *Button) SetBounds(r widget.Rect) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bounds = r
}

// SetOnPressed rebinds the activation callback.
func (b *Button) SetOnPressed(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onPressed = fn
}

// EnableCooldown makes every subsequent firing lock the button for d.
// A zero duration disables the cooldown.
func (b *Button) EnableCooldown(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("button %s: %w: negative cooldown %v", b.ID(), widget.ErrInvalidConfig, d)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cooldown = d
	return nil
}

// Press starts a press. Pressing a held button does nothing.
func (b *Button) Press() {
	b.mu.Lock()
	if b.held {
		b.mu.Unlock()
		return
	}
	b.held = true

	var fire func()
	switch b.typ {
	case Single:
		fire = b.fireLocked()
	case Turbo, Custom:
		b.pressed = true
	case DelayedTurbo:
		b.scheduleTurboLocked()
	case SingleThenTurbo:
		fire = b.fireLocked()
		b.scheduleTurboLocked()
	}
	b.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// Release ends the press and cancels a pending turbo start. A press still
// waiting out its cooldown fires once the window elapses; a turbo repeat does
// not. Releasing an idle button does nothing.
func (b *Button) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.held {
		return
	}
	// A turbo repeat held back by the cooldown ends with the hold.
	if b.pressed {
		b.deferred = false
	}
	b.held = false
	b.pressed = false
	b.stopTurboLocked()
}

// Update fires the callback for a turbo-firing button or a press that was
// waiting out its cooldown.
func (b *Button) Update() error {
	b.mu.Lock()
	b.pollTurboLocked()
	var fire func()
	switch {
	case b.pressed && b.typ != Custom:
		fire = b.fireLocked()
	case b.deferred && !b.coolingLocked():
		fire = b.fireLocked()
	}
	b.mu.Unlock()

	if fire != nil {
		fire()
	}
	return nil
}

// HandlePointerDown presses the button when a pointer lands in its bounds.
func (b *Button) HandlePointerDown(ev widget.PointerEvent) error {
	if !b.Enabled() {
		return nil
	}

	b.mu.Lock()
	// A button already held through Press keeps its hold; the pointer is not
	// claimed so its up cannot end that hold.
	if b.held || b.bounds.Empty() || !b.bounds.Contains(ev.Pos) || !b.claim.Take(ev.ID) {
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	b.Press()
	return nil
}

// HandlePointerUp releases the button when its pointer is lifted.
func (b *Button) HandlePointerUp(ev widget.PointerEvent) error {
	b.mu.Lock()
	released := b.claim.Release(ev.ID)
	b.mu.Unlock()

	if released {
		b.Release()
	}
	return nil
}

// Stop releases the button, cancels any pending turbo start and drops a
// deferred firing.
func (b *Button) Stop() error {
	b.Release()
	b.mu.Lock()
	b.deferred = false
	b.mu.Unlock()
	return b.BaseWidget.Stop()
}

// Pressed reports the pressed flag: set while a Turbo or Custom button is
// held, and once the turbo delay has elapsed for the delayed types.
func (b *Button) Pressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pollTurboLocked()
	return b.pressed
}

// Held reports whether the button is currently being pressed.
func (b *Button) Held() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.held
}

// State returns the button's current phase.
func (b *Button) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pollTurboLocked()

	switch {
	case !b.held && b.deferred:
		return CooldownLocked
	case !b.held:
		return Idle
	case b.coolingLocked() && (b.deferred || (b.pressed && b.typ != Custom)):
		return CooldownLocked
	case b.pressed && b.typ != Custom:
		return TurboFiring
	default:
		return Pressed
	}
}

// CooldownProgress returns how far the current cooldown window has elapsed,
// clamped to [0, 1]. It is 1 when no window is open.
func (b *Button) CooldownProgress() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cooldown <= 0 || !b.hasFired {
		return 1
	}
	p := float64(b.clock.Now().Sub(b.lastFire)) / float64(b.cooldown)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// fireLocked records a firing and returns the callback to run once the lock
// is released. Inside a cooldown window the firing is deferred instead.
func (b *Button) fireLocked() func() {
	if b.coolingLocked() {
		b.deferred = true
		return nil
	}
	b.deferred = false
	b.lastFire = b.clock.Now()
	b.hasFired = true
	if b.onPressed == nil {
		return func() {}
	}
	return b.onPressed
}

func (b *Button) coolingLocked() bool {
	return b.cooldown > 0 && b.hasFired && b.clock.Now().Sub(b.lastFire) < b.cooldown
}

func (b *Button) scheduleTurboLocked() {
	b.stopTurboLocked()
	b.turbo = b.clock.NewTimer(TurboDelay)
}

func (b *Button) stopTurboLocked() {
	if b.turbo != nil {
		b.turbo.Stop()
		b.turbo = nil
	}
}

// pollTurboLocked starts turbo firing once the delay timer has expired.
func (b *Button) pollTurboLocked() {
	if b.turbo == nil {
		return
	}
	select {
	case <-b.turbo.Chan():
		b.turbo = nil
		if b.held {
			b.pressed = true
		}
	default:
	}
}
