package hotplug

import (
	"context"
	"log"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

const supported = true

type (
	cfAllocatorRef   uintptr
	cfNumberRef      uintptr
	cfIndex          int64
	cfRunLoopRef     uintptr
	cfStringRef      uintptr
	cfTypeRef        uintptr
	cfStringEncoding uint32

	hidDeviceRef  uintptr
	hidManagerRef uintptr
	ioReturn      int32
)

const (
	cfNumberSInt16Type   cfIndex          = 2
	cfStringEncodingUTF8 cfStringEncoding = 0x08000100
	ioReturnSuccess      ioReturn         = 0
)

var (
	cfNumberGetValue        func(number cfNumberRef, theType cfIndex, valuePtr unsafe.Pointer) bool
	cfRelease               func(cf cfTypeRef)
	cfRunLoopGetCurrent     func() cfRunLoopRef
	cfRunLoopRun            func()
	cfRunLoopStop           func(rl cfRunLoopRef)
	cfStringCreateWithBytes func(alloc cfAllocatorRef, bytes []byte, n cfIndex, enc cfStringEncoding, external bool) cfStringRef

	hidDeviceGetProperty       func(device hidDeviceRef, key cfStringRef) cfTypeRef
	hidManagerCreate           func(alloc cfAllocatorRef, options uint32) hidManagerRef
	hidManagerOpen             func(mgr hidManagerRef, options uint32) ioReturn
	hidManagerClose            func(mgr hidManagerRef, options uint32) ioReturn
	hidManagerSetDeviceMatch   func(mgr hidManagerRef, matching uintptr)
	hidManagerRegisterMatching func(mgr hidManagerRef, callback uintptr, context unsafe.Pointer)
	hidManagerSchedule         func(mgr hidManagerRef, rl cfRunLoopRef, mode cfStringRef)

	runLoopDefaultMode uintptr
)

// loadFrameworks binds CoreFoundation and IOKit on first use.
var loadFrameworks = sync.OnceValue(func() error {
	cf, err := purego.Dlopen("/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return err
	}
	purego.RegisterLibFunc(&cfNumberGetValue, cf, "CFNumberGetValue")
	purego.RegisterLibFunc(&cfRelease, cf, "CFRelease")
	purego.RegisterLibFunc(&cfRunLoopGetCurrent, cf, "CFRunLoopGetCurrent")
	purego.RegisterLibFunc(&cfRunLoopRun, cf, "CFRunLoopRun")
	purego.RegisterLibFunc(&cfRunLoopStop, cf, "CFRunLoopStop")
	purego.RegisterLibFunc(&cfStringCreateWithBytes, cf, "CFStringCreateWithBytes")
	if runLoopDefaultMode, err = purego.Dlsym(cf, "kCFRunLoopDefaultMode"); err != nil {
		return err
	}

	iokit, err := purego.Dlopen("/System/Library/Frameworks/IOKit.framework/IOKit", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return err
	}
	purego.RegisterLibFunc(&hidDeviceGetProperty, iokit, "IOHIDDeviceGetProperty")
	purego.RegisterLibFunc(&hidManagerCreate, iokit, "IOHIDManagerCreate")
	purego.RegisterLibFunc(&hidManagerOpen, iokit, "IOHIDManagerOpen")
	purego.RegisterLibFunc(&hidManagerClose, iokit, "IOHIDManagerClose")
	purego.RegisterLibFunc(&hidManagerSetDeviceMatch, iokit, "IOHIDManagerSetDeviceMatching")
	purego.RegisterLibFunc(&hidManagerRegisterMatching, iokit, "IOHIDManagerRegisterDeviceMatchingCallback")
	purego.RegisterLibFunc(&hidManagerSchedule, iokit, "IOHIDManagerScheduleWithRunLoop")
	return nil
})

// The IOKit callback carries no Go state, so subscribers live here.
var (
	subsMu sync.Mutex
	subs   = map[*subscriber]struct{}{}
)

type subscriber struct {
	ch      chan struct{}
	vendors map[uint16]bool
}

var matchCallback = sync.OnceValue(func() uintptr {
	return purego.NewCallback(func(_ unsafe.Pointer, _ ioReturn, _ uintptr, device hidDeviceRef) {
		vid, ok := vendorID(device)
		if !ok {
			return
		}
		subsMu.Lock()
		defer subsMu.Unlock()
		for s := range subs {
			if len(s.vendors) > 0 && !s.vendors[vid] {
				continue
			}
			select {
			case s.ch <- struct{}{}:
			default:
			}
		}
	})
})

func vendorID(device hidDeviceRef) (uint16, bool) {
	key := []byte("VendorID")
	skey := cfStringCreateWithBytes(0, key, cfIndex(len(key)), cfStringEncodingUTF8, false)
	if skey == 0 {
		return 0, false
	}
	defer cfRelease(cfTypeRef(skey))

	prop := hidDeviceGetProperty(device, skey)
	if prop == 0 {
		return 0, false
	}
	var vid uint16
	if !cfNumberGetValue(cfNumberRef(prop), cfNumberSInt16Type, unsafe.Pointer(&vid)) {
		return 0, false
	}
	return vid, true
}

// Arrivals returns a channel that receives a signal each time a HID device
// from one of vendorIDs appears, or any HID device when none are given.
// Signals coalesce while unread. Watching stops when ctx is done.
func Arrivals(ctx context.Context, vendorIDs ...uint16) <-chan struct{} {
	s := &subscriber{ch: make(chan struct{}, 1), vendors: make(map[uint16]bool)}
	for _, v := range vendorIDs {
		s.vendors[v] = true
	}

	if err := loadFrameworks(); err != nil {
		log.Printf("Hotplug unavailable: %v", err)
		return s.ch
	}

	go func() {
		// IOKit delivers callbacks on the run loop of the thread that scheduled them.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		mgr := hidManagerCreate(0, 0)
		if rv := hidManagerOpen(mgr, 0); rv != ioReturnSuccess {
			log.Printf("Hotplug: opening HID manager failed: 0x%08x", rv)
			cfRelease(cfTypeRef(mgr))
			return
		}
		defer func() {
			hidManagerClose(mgr, 0)
			cfRelease(cfTypeRef(mgr))
		}()

		subsMu.Lock()
		subs[s] = struct{}{}
		subsMu.Unlock()
		defer func() {
			subsMu.Lock()
			delete(subs, s)
			subsMu.Unlock()
		}()

		// Match every HID device; vendors are filtered in the callback.
		hidManagerSetDeviceMatch(mgr, 0)
		rl := cfRunLoopGetCurrent()
		hidManagerSchedule(mgr, rl, **(**cfStringRef)(unsafe.Pointer(&runLoopDefaultMode)))
		hidManagerRegisterMatching(mgr, matchCallback(), nil)

		if ctx.Err() != nil {
			return
		}
		go func() {
			<-ctx.Done()
			cfRunLoopStop(rl)
		}()
		cfRunLoopRun()
	}()

	return s.ch
}
