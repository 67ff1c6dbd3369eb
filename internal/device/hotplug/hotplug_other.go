//go:build !darwin

package hotplug

import "context"

const supported = false

// Arrivals returns a channel that never fires.
func Arrivals(ctx context.Context, vendorIDs ...uint16) <-chan struct{} {
	return make(chan struct{})
}
