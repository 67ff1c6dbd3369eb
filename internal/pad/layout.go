package pad

import (
	"fmt"
	"strings"
)

// Layout names a fixed arrangement of widgets.
type Layout uint8

const (
	// SingleStick is one joystick covering the whole screen.
	SingleStick Layout = iota + 1
	// DoubleStick is one joystick per screen half.
	DoubleStick
	// StickButton is a left-half joystick and a button pad.
	StickButton
	// CornerSticks is one joystick per quadrant.
	CornerSticks
	// GestureOnly is a single swipe recognizer covering the whole screen.
	GestureOnly
	// GestureButton is a left-half swipe recognizer and a button pad.
	GestureButton
)

var layoutNames = map[Layout]string{
	SingleStick:   "single-stick",
	DoubleStick:   "double-stick",
	StickButton:   "stick-button",
	CornerSticks:  "corner-sticks",
	GestureOnly:   "gesture-only",
	GestureButton: "gesture-button",
}

// Layouts lists the catalog in declaration order.
func Layouts() []Layout {
	return []Layout{SingleStick, DoubleStick, StickButton, CornerSticks, GestureOnly, GestureButton}
}

func (l Layout) String() string {
	if name, ok := layoutNames[l]; ok {
		return name
	}
	return fmt.Sprintf("layout(%d)", uint8(l))
}

// UsesButtons reports whether the layout includes a button pad.
func (l Layout) UsesButtons() bool {
	return l == StickButton || l == GestureButton
}

// ParseLayout parses a layout name such as "double-stick".
func ParseLayout(name string) (Layout, error) {
	n := normalize(name)
	for l, ln := range layoutNames {
		if ln == n {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
}

// ButtonPadType names an arrangement of one to five buttons.
type ButtonPadType uint8

const (
	OneFixed ButtonPadType = iota + 1
	TwoInlineX
	TwoInlineY
	ThreeInlineX
	ThreeInlineY
	ThreeFan
	FourStack
	FourInlineX
	FourInlineY
	FourFan
	FiveFan
)

var buttonPadNames = map[ButtonPadType]string{
	OneFixed:     "one-fixed",
	TwoInlineX:   "two-inline-x",
	TwoInlineY:   "two-inline-y",
	ThreeInlineX: "three-inline-x",
	ThreeInlineY: "three-inline-y",
	ThreeFan:     "three-fan",
	FourStack:    "four-stack",
	FourInlineX:  "four-inline-x",
	FourInlineY:  "four-inline-y",
	FourFan:      "four-fan",
	FiveFan:      "five-fan",
}

// ButtonPads lists the button pad catalog in declaration order.
func ButtonPads() []ButtonPadType {
	return []ButtonPadType{OneFixed, TwoInlineX, TwoInlineY, ThreeInlineX, ThreeInlineY, ThreeFan,
		FourStack, FourInlineX, FourInlineY, FourFan, FiveFan}
}

func (t ButtonPadType) String() string {
	if name, ok := buttonPadNames[t]; ok {
		return name
	}
	return fmt.Sprintf("buttonpad(%d)", uint8(t))
}

// Count returns how many buttons the pad has, or 0 for an unknown pad.
func (t ButtonPadType) Count() int {
	switch t {
	case OneFixed:
		return 1
	case TwoInlineX, TwoInlineY:
		return 2
	case ThreeInlineX, ThreeInlineY, ThreeFan:
		return 3
	case FourStack, FourInlineX, FourInlineY, FourFan:
		return 4
	case FiveFan:
		return 5
	}
	return 0
}

// ParseButtonPad parses a button pad name such as "three-fan".
func ParseButtonPad(name string) (ButtonPadType, error) {
	n := normalize(name)
	for t, tn := range buttonPadNames {
		if tn == n {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownButtonPad, name)
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}
