package widget

import "time"

// PointerID identifies one active touch (or the mouse) for its whole lifetime.
type PointerID int

// PointerEventType indicates the kind of pointer notification.
type PointerEventType uint8

const (
	// PointerDown indicates a new pointer touched the screen.
	PointerDown PointerEventType = iota + 1
	// PointerMove indicates an active pointer changed position.
	PointerMove
	// PointerUp indicates a pointer was lifted.
	PointerUp
)

func (t PointerEventType) String() string {
	switch t {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// PointerEvent is a single pointer notification from a host device.
type PointerEvent struct {
	// Type indicates what happened to the pointer.
	Type PointerEventType

	// ID is stable from the pointer's down event to its up event.
	ID PointerID

	// Pos is the pointer position in screen space.
	Pos Point

	// Time is when the host observed the event. Zero if the host does not
	// timestamp events.
	Time time.Time
}
