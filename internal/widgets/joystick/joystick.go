// Package joystick implements a floating touch joystick.
package joystick

import (
	"fmt"
	"math"
	"sync"

	"github.com/phinze/gamepads/internal/widget"
)

// Cursors holds the four directional flags of a stick.
type Cursors struct {
	Up, Down, Left, Right bool
}

// Any reports whether any direction is active.
func (c Cursors) Any() bool {
	return c.Up || c.Down || c.Left || c.Right
}

// Joystick claims one pointer inside its sector and turns the pointer's
// displacement from an anchor into cursor flags and a speed vector.
type Joystick struct {
	widget.BaseWidget
	sector widget.Sector

	mu       sync.RWMutex
	settings Settings
	claim    widget.Claim
	anchor   widget.Point
	pos      widget.Point
	delta    widget.Vector
	cursors  Cursors
	speed    widget.Vector
}

// New creates a joystick that claims pointers in the given sector.
func New(id string, sector widget.Sector, settings Settings) (*Joystick, error) {
	if sector < widget.HalfLeft || sector > widget.All {
		return nil, fmt.Errorf("joystick %s: %w: unknown sector %d", id, widget.ErrInvalidConfig, sector)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("joystick %s: %w", id, err)
	}
	return &Joystick{
		BaseWidget: widget.NewBaseWidget(id),
		sector:     sector,
		settings:   settings,
	}, nil
}

// Sector returns the region this stick claims pointers in.
func (j *Joystick) Sector() widget.Sector {
	return j.sector
}

// Settings returns the current settings.
func (j *Joystick) Settings() Settings {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.settings
}

// UpdateSettings validates and applies new settings. They take effect on the
// next frame.
func (j *Joystick) UpdateSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("joystick %s: %w", j.ID(), err)
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.settings = s
	return nil
}

// HandlePointerDown claims the pointer if the stick is free and the pointer
// is inside the stick's sector.
func (j *Joystick) HandlePointerDown(ev widget.PointerEvent) error {
	if !j.Enabled() {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.claim.Held() || !j.InSector(j.sector, ev.Pos) {
		return nil
	}

	j.claim.Take(ev.ID)
	j.anchor = ev.Pos
	j.pos = ev.Pos
	j.reset()
	return nil
}

// HandlePointerMove tracks the claimed pointer.
func (j *Joystick) HandlePointerMove(ev widget.PointerEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.claim.Holds(ev.ID) {
		j.pos = ev.Pos
	}
	return nil
}

// HandlePointerUp releases the stick if ev is the claimed pointer.
func (j *Joystick) HandlePointerUp(ev widget.PointerEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.claim.Release(ev.ID) {
		j.reset()
	}
	return nil
}

// Update recomputes the reading from the claimed pointer.
func (j *Joystick) Update() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.claim.Held() {
		return nil
	}
	if j.settings.SingleDirection {
		j.setSingleDirection()
	} else {
		j.setDirection()
	}
	return nil
}

func (j *Joystick) setDirection() {
	s := j.settings
	d := j.pos.Sub(j.anchor)
	r := d.Len()

	if !s.Analog && r < s.MaxDistance {
		j.reset()
		j.delta = d
		return
	}

	// Digital mode is always at full throw past the dead zone.
	full := math.Max(r, s.MaxDistance)
	if !s.Analog {
		full = r
	}
	j.speed = scaleSpeed(d, s.TopSpeed, full)
	if r > s.MaxDistance {
		d = j.clamp(d)
	}

	j.cursors = Cursors{
		Up:    d.Y < 0,
		Down:  d.Y > 0,
		Left:  d.X < 0,
		Right: d.X > 0,
	}
	j.delta = d
}

func (j *Joystick) setSingleDirection() {
	s := j.settings
	d := j.pos.Sub(j.anchor)
	r := d.Len()

	if r < s.MaxDistance {
		j.reset()
		j.delta = d
		return
	}

	// The tracked pointer snaps onto the dominant axis through the anchor.
	d = d.Snap()
	if d.X == 0 {
		j.pos.X = j.anchor.X
	} else {
		j.pos.Y = j.anchor.Y
	}

	angle := d.Angle()
	j.speed = scaleSpeed(d, s.TopSpeed, d.Len())
	if r > s.MaxDistance {
		d = j.clamp(d)
	}

	deg := angle * 180 / math.Pi
	j.cursors = Cursors{
		Up:    deg == -90,
		Down:  deg == 90,
		Left:  deg == 180,
		Right: deg == 0,
	}
	j.delta = d
}

// clamp scales d to MaxDistance and, in float mode, drags the anchor so the
// pointer stays exactly that far away.
func (j *Joystick) clamp(d widget.Vector) widget.Vector {
	k := j.settings.MaxDistance / d.Len()
	d = widget.Vector{X: d.X * k, Y: d.Y * k}
	if j.settings.Float {
		j.anchor = widget.Point{X: j.pos.X - d.X, Y: j.pos.Y - d.Y}
	}
	return d
}

func (j *Joystick) reset() {
	j.cursors = Cursors{}
	j.speed = widget.Vector{}
	j.delta = widget.Vector{}
}

// Cursors returns the directional flags of the current frame.
func (j *Joystick) Cursors() Cursors {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.cursors
}

// Speed returns the speed vector of the current frame.
func (j *Joystick) Speed() widget.Vector {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.speed
}

// ReceivingInput reports whether any cursor flag is set.
func (j *Joystick) ReceivingInput() bool {
	return j.Cursors().Any()
}

// Claimed reports whether the stick currently owns a pointer.
func (j *Joystick) Claimed() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.claim.Held()
}

// Anchor returns the stick's base position and whether the stick is claimed.
func (j *Joystick) Anchor() (widget.Point, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.anchor, j.claim.Held()
}

// Knob returns where the stick's knob is drawn: the anchor plus the clamped
// displacement of the last frame.
func (j *Joystick) Knob() widget.Point {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.anchor.Add(j.delta)
}

// scaleSpeed returns d scaled to topSpeed*|d|/full. Scaling each
// component by the same factor keeps |speed| <= topSpeed when |d| <= full,
// and axis-aligned readings exact.
func scaleSpeed(d widget.Vector, topSpeed, full float64) widget.Vector {
	return widget.Vector{X: topSpeed * d.X / full, Y: topSpeed * d.Y / full}
}
