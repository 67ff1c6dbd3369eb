// Package pad assembles joysticks, buttons and gesture recognizers into the
// named controller layouts.
package pad

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/phinze/gamepads/internal/widget"
	"github.com/phinze/gamepads/internal/widgets/button"
	"github.com/phinze/gamepads/internal/widgets/gesture"
	"github.com/phinze/gamepads/internal/widgets/joystick"
)

var (
	// ErrUnknownLayout is returned for a layout outside the catalog.
	ErrUnknownLayout = errors.New("unknown layout")
	// ErrUnknownButtonPad is returned for a button pad outside the catalog.
	ErrUnknownButtonPad = errors.New("unknown button pad")
)

// DefaultButtonSize is the edge length of a pad button in pixels.
const DefaultButtonSize = 100

// Options tunes the widgets a layout creates. The zero value gives default
// sticks, single-then-turbo buttons and swipe recognizers with a 100px
// threshold in the layout's own sector.
type Options struct {
	ButtonPad      ButtonPadType
	ButtonSize     float64
	Stick          joystick.Settings
	ButtonType     button.Type
	Cooldown       time.Duration
	SwipeThreshold float64
	GestureMode    gesture.Mode
	// GestureSector overrides the sector the layout puts its recognizer in.
	GestureSector widget.Sector
	Clock         clockwork.Clock
}

func (o Options) withDefaults() Options {
	if o.Stick == (joystick.Settings{}) {
		o.Stick = joystick.DefaultSettings()
	}
	if o.ButtonType == 0 {
		o.ButtonType = button.SingleThenTurbo
	}
	if o.ButtonSize == 0 {
		o.ButtonSize = DefaultButtonSize
	}
	if o.SwipeThreshold == 0 {
		o.SwipeThreshold = gesture.DefaultThreshold
	}
	if o.GestureMode == 0 {
		o.GestureMode = gesture.Swipe
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	return o
}

// Pad is a set of widgets built from a Layout.
type Pad struct {
	Layout     Layout
	ButtonPad  ButtonPadType
	ButtonSize float64

	Sticks   []*joystick.Joystick
	Buttons  []*button.Button
	Gestures []*gesture.Gesture
}

// New builds the widgets for layout. Callbacks are attached afterwards
// through the returned members.
func New(layout Layout, opts Options) (*Pad, error) {
	opts = opts.withDefaults()
	p := &Pad{Layout: layout, ButtonSize: opts.ButtonSize}

	var err error
	switch layout {
	case SingleStick:
		err = p.addSticks(opts, widget.All)
	case DoubleStick:
		err = p.addSticks(opts, widget.HalfLeft, widget.HalfRight)
	case StickButton:
		if err = p.addSticks(opts, widget.HalfLeft); err == nil {
			err = p.addButtons(opts)
		}
	case CornerSticks:
		err = p.addSticks(opts, widget.BottomLeft, widget.TopLeft, widget.TopRight, widget.BottomRight)
	case GestureOnly:
		p.Gestures, err = newGestures(opts, widget.All)
	case GestureButton:
		if p.Gestures, err = newGestures(opts, widget.HalfLeft); err == nil {
			err = p.addButtons(opts)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownLayout, layout)
	}
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", layout, err)
	}
	return p, nil
}

func (p *Pad) addSticks(opts Options, sectors ...widget.Sector) error {
	for i, s := range sectors {
		j, err := joystick.New(fmt.Sprintf("stick%d", i+1), s, opts.Stick)
		if err != nil {
			return err
		}
		p.Sticks = append(p.Sticks, j)
	}
	return nil
}

func (p *Pad) addButtons(opts Options) error {
	n := opts.ButtonPad.Count()
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrUnknownButtonPad, opts.ButtonPad)
	}
	p.ButtonPad = opts.ButtonPad

	for i := 0; i < n; i++ {
		b, err := button.New(fmt.Sprintf("button%d", i+1), opts.ButtonType,
			button.WithClock(opts.Clock),
			button.WithCooldown(opts.Cooldown),
		)
		if err != nil {
			return err
		}
		p.Buttons = append(p.Buttons, b)
	}
	return nil
}

func newGestures(opts Options, sectors ...widget.Sector) ([]*gesture.Gesture, error) {
	gs := make([]*gesture.Gesture, 0, len(sectors))
	for i, s := range sectors {
		if opts.GestureSector != 0 {
			s = opts.GestureSector
		}
		g, err := gesture.New(fmt.Sprintf("%s%d", opts.GestureMode, i+1), s, opts.GestureMode,
			gesture.WithClock(opts.Clock),
			gesture.WithThreshold(opts.SwipeThreshold),
		)
		if err != nil {
			return nil, err
		}
		gs = append(gs, g)
	}
	return gs, nil
}

// ReplaceGestures rebuilds the gesture recognizers with the mode and sector
// in opts and returns the recognizers they replace. The caller stops the old
// ones. A layout without gestures is left untouched.
func (p *Pad) ReplaceGestures(opts Options) ([]*gesture.Gesture, error) {
	if len(p.Gestures) == 0 {
		return nil, nil
	}
	sectors := []widget.Sector{widget.All}
	if p.Layout == GestureButton {
		sectors = []widget.Sector{widget.HalfLeft}
	}
	gs, err := newGestures(opts.withDefaults(), sectors...)
	if err != nil {
		return nil, fmt.Errorf("rebuilding %s gestures: %w", p.Layout, err)
	}
	old := p.Gestures
	p.Gestures = gs
	return old, nil
}

// Stick returns the i-th joystick (0-based), or nil.
func (p *Pad) Stick(i int) *joystick.Joystick {
	if i < 0 || i >= len(p.Sticks) {
		return nil
	}
	return p.Sticks[i]
}

// Button returns the i-th button (0-based), or nil.
func (p *Pad) Button(i int) *button.Button {
	if i < 0 || i >= len(p.Buttons) {
		return nil
	}
	return p.Buttons[i]
}

// Gesture returns the i-th gesture recognizer (0-based), or nil.
func (p *Pad) Gesture(i int) *gesture.Gesture {
	if i < 0 || i >= len(p.Gestures) {
		return nil
	}
	return p.Gestures[i]
}

// Widgets returns every widget of the pad: buttons first so a touch on a
// button is offered to it before the stick behind it.
func (p *Pad) Widgets() []widget.Widget {
	ws := make([]widget.Widget, 0, len(p.Sticks)+len(p.Buttons)+len(p.Gestures))
	for _, b := range p.Buttons {
		ws = append(ws, b)
	}
	for _, j := range p.Sticks {
		ws = append(ws, j)
	}
	for _, g := range p.Gestures {
		ws = append(ws, g)
	}
	return ws
}
