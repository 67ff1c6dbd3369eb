// Package hotplug signals when a Stream Deck is plugged in, so the deck host
// can stop waiting without polling the USB bus.
package hotplug

// ElgatoVendorID is the USB vendor ID of every Stream Deck model.
const ElgatoVendorID uint16 = 0x0fd9

// Supported reports whether arrivals are delivered on this platform. Where
// they are not, Arrivals returns a channel that never fires and callers
// fall back to polling.
func Supported() bool {
	return supported
}
