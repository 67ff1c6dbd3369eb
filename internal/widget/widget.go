// Package widget defines the interface for on-screen input widgets.
package widget

import (
	"context"
	"errors"
)

// ErrInvalidConfig is wrapped by constructors that reject a widget configuration.
var ErrInvalidConfig = errors.New("invalid widget configuration")

// Widget is an updatable, event-subscribing input control. Every widget sees
// every pointer event and decides for itself whether to claim it.
type Widget interface {
	// ID returns a unique identifier for this widget instance.
	ID() string

	// Init binds the widget to the screen it lives on.
	// The context should be used for cancellation and lifecycle management.
	Init(ctx context.Context, screen Screen) error

	// Stop shuts the widget down, cancelling anything it scheduled.
	Stop() error

	// HandlePointerDown offers a new pointer to the widget.
	HandlePointerDown(ev PointerEvent) error

	// HandlePointerMove reports the current position of an active pointer.
	HandlePointerMove(ev PointerEvent) error

	// HandlePointerUp reports that a pointer was lifted.
	HandlePointerUp(ev PointerEvent) error

	// Update is called once per frame after the frame's pointer events.
	Update() error
}
