package device

import (
	"image"
	"sync"
	"time"

	"rafaelmartins.com/p/streamdeck"

	"github.com/phinze/gamepads/internal/widget"
)

// HardwareDevice wraps a streamdeck.Device. Keys stay keys; the touch strip
// becomes a pointer surface.
type HardwareDevice struct {
	dev *streamdeck.Device

	mu        sync.Mutex
	handlers  []PointerHandler
	hooked    bool
	nextPoint widget.PointerID
}

// NewHardware creates a new hardware device wrapper.
func NewHardware(dev *streamdeck.Device) *HardwareDevice {
	return &HardwareDevice{dev: dev}
}

// Open opens the device for use.
func (h *HardwareDevice) Open() error {
	return h.dev.Open()
}

// Close closes the device.
func (h *HardwareDevice) Close() error {
	return h.dev.Close()
}

// IsOpen returns whether the device is open.
func (h *HardwareDevice) IsOpen() bool {
	return h.dev.IsOpen()
}

// GetModelName returns the device model name.
func (h *HardwareDevice) GetModelName() string {
	return h.dev.GetModelName()
}

// Size returns the touch strip dimensions, or zero on models without one.
func (h *HardwareDevice) Size() (float64, float64) {
	if !h.dev.GetTouchStripSupported() {
		return 0, 0
	}
	r, err := h.dev.GetTouchStripImageRectangle()
	if err != nil {
		return 0, 0
	}
	return float64(r.Dx()), float64(r.Dy())
}

// GetKeyCount returns the number of keys on the device.
func (h *HardwareDevice) GetKeyCount() byte {
	return h.dev.GetKeyCount()
}

// GetKeyImageRectangle returns the dimensions for key images.
func (h *HardwareDevice) GetKeyImageRectangle() (image.Rectangle, error) {
	return h.dev.GetKeyImageRectangle()
}

// GetTouchStripImageRectangle returns the dimensions for the touch strip image.
func (h *HardwareDevice) GetTouchStripImageRectangle() (image.Rectangle, error) {
	return h.dev.GetTouchStripImageRectangle()
}

// SetBrightness sets the device brightness.
func (h *HardwareDevice) SetBrightness(perc byte) error {
	return h.dev.SetBrightness(perc)
}

// SetKeyImage sets the image for a key.
func (h *HardwareDevice) SetKeyImage(key KeyID, img image.Image) error {
	return h.dev.SetKeyImage(streamdeck.KeyID(key), img)
}

// SetTouchStripImage sets the touch strip image.
func (h *HardwareDevice) SetTouchStripImage(img image.Image) error {
	return h.dev.SetTouchStripImage(img)
}

// ClearKey clears a key's image.
func (h *HardwareDevice) ClearKey(key KeyID) error {
	return h.dev.ClearKey(streamdeck.KeyID(key))
}

// hardwareKey wraps streamdeck.Key to implement the Key interface.
type hardwareKey struct {
	key *streamdeck.Key
}

func (k *hardwareKey) GetID() KeyID {
	return KeyID(k.key.GetID())
}

func (k *hardwareKey) WaitForRelease() time.Duration {
	return k.key.WaitForRelease()
}

// AddKeyHandler adds a handler for a key press.
func (h *HardwareDevice) AddKeyHandler(key KeyID, fn KeyHandler) error {
	return h.dev.AddKeyHandler(streamdeck.KeyID(key), func(d *streamdeck.Device, k *streamdeck.Key) error {
		return fn(h, &hardwareKey{key: k})
	})
}

// AddPointerHandler adds a handler for pointer events synthesized from
// touch strip taps and swipes. Each tap or swipe uses a fresh pointer ID.
func (h *HardwareDevice) AddPointerHandler(fn PointerHandler) error {
	h.mu.Lock()
	h.handlers = append(h.handlers, fn)
	hooked := h.hooked
	h.hooked = true
	h.mu.Unlock()

	if hooked || !h.dev.GetTouchStripSupported() {
		return nil
	}

	err := h.dev.AddTouchStripTouchHandler(func(d *streamdeck.Device, t streamdeck.TouchStripTouchType, p image.Point) error {
		return h.dispatch(TapEvents(h.pointerID(), TouchStripTouchType(t), p, time.Now()))
	})
	if err != nil {
		return err
	}
	return h.dev.AddTouchStripSwipeHandler(func(d *streamdeck.Device, origin, destination image.Point) error {
		return h.dispatch(SwipeEvents(h.pointerID(), origin, destination, time.Now()))
	})
}

func (h *HardwareDevice) pointerID() widget.PointerID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextPoint++
	return h.nextPoint
}

func (h *HardwareDevice) dispatch(events []widget.PointerEvent) error {
	h.mu.Lock()
	handlers := append([]PointerHandler(nil), h.handlers...)
	h.mu.Unlock()

	for _, ev := range events {
		for _, fn := range handlers {
			if err := fn(h, ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Listen starts the device event loop.
func (h *HardwareDevice) Listen(errCh chan error) error {
	return h.dev.Listen(errCh)
}

// Underlying returns the underlying streamdeck.Device for direct access when needed.
func (h *HardwareDevice) Underlying() *streamdeck.Device {
	return h.dev
}
