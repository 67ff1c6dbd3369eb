// Package device defines the input surfaces that feed pointer events to
// widgets, and the Stream Deck hardware adapter.
package device

import (
	"image"
	"time"

	"github.com/phinze/gamepads/internal/widget"
)

// Surface is a source of pointer events. The emulator window, the Stream
// Deck touch strip and the remote browser bridge all implement it.
type Surface interface {
	// Lifecycle
	Open() error
	Close() error
	IsOpen() bool

	// Device info
	GetModelName() string
	Size() (width, height float64)

	// Event handlers
	AddPointerHandler(fn PointerHandler) error

	// Event loop
	Listen(errCh chan error) error
}

// Deck is a Surface that also has physical keys with displays.
type Deck interface {
	Surface

	GetKeyCount() byte
	GetKeyImageRectangle() (image.Rectangle, error)
	GetTouchStripImageRectangle() (image.Rectangle, error)

	// Display
	SetBrightness(perc byte) error
	SetKeyImage(key KeyID, img image.Image) error
	SetTouchStripImage(img image.Image) error
	ClearKey(key KeyID) error

	AddKeyHandler(key KeyID, fn KeyHandler) error
}

// KeyID identifies a physical key on the Stream Deck.
type KeyID byte

// Key IDs for Stream Deck Plus (8 keys)
const (
	KEY_1 KeyID = iota + 1
	KEY_2
	KEY_3
	KEY_4
	KEY_5
	KEY_6
	KEY_7
	KEY_8
)

// Key represents a physical key and provides methods for handlers.
type Key interface {
	GetID() KeyID
	WaitForRelease() time.Duration
}

// TouchStripTouchType represents the type of touch on the strip.
type TouchStripTouchType byte

// Touch strip touch types
const (
	TOUCH_STRIP_TOUCH_TYPE_SHORT TouchStripTouchType = iota + 1
	TOUCH_STRIP_TOUCH_TYPE_LONG
)

type (
	// PointerHandler is called for every pointer event a surface produces.
	PointerHandler func(s Surface, ev widget.PointerEvent) error

	// KeyHandler is called when a key is pressed.
	KeyHandler func(d Deck, k Key) error
)
