package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
	"github.com/spf13/cobra"
	"rafaelmartins.com/p/streamdeck"

	"github.com/phinze/gamepads/internal/config"
	"github.com/phinze/gamepads/internal/coordinator"
	"github.com/phinze/gamepads/internal/device"
	"github.com/phinze/gamepads/internal/device/hotplug"
	"github.com/phinze/gamepads/internal/render"
	"github.com/phinze/gamepads/internal/widget"
	"github.com/phinze/gamepads/internal/widgets/button"
	"github.com/phinze/gamepads/internal/widgets/gesture"
)

const (
	probeTimeout  = 5 * time.Second
	pollInterval  = 2 * time.Second
	redrawPeriod  = 50 * time.Millisecond
	summaryPeriod = 2 * time.Second
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Play with Stream Deck keys as buttons and the touch strip as a swipe pad",
	RunE:  runDeck,
}

func runDeck(cmd *cobra.Command, args []string) error {
	log.Println("=== Gamepads Stream Deck ===")
	log.Println("Press Ctrl+C to exit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	// Wake and USB arrival both mean "probe now".
	sleepCh := notifier.GetInstance().Start()
	wakeCh := make(chan struct{}, 1)
	go func() {
		for activity := range sleepCh {
			if activity.Type == notifier.Awake {
				log.Println("System wake detected")
				select {
				case wakeCh <- struct{}{}:
				default:
				}
			}
		}
	}()
	arrivals := hotplug.Arrivals(ctx, hotplug.ElgatoVendorID)

	for {
		dev := waitForHardwareDevice(ctx, wakeCh, arrivals)
		if dev == nil {
			return nil
		}

		// A device may show up just as shutdown is requested.
		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			dev.Close()
			return nil
		default:
		}

		// A wake from before the device was found must not tear it down.
	drainWake:
		for {
			select {
			case <-wakeCh:
			default:
				break drainWake
			}
		}

		// USB enumeration may still be settling after the open succeeds.
		time.Sleep(500 * time.Millisecond)

		if err := runWithDevice(ctx, cfg, dev, wakeCh); err != nil {
			dev.Close()
			return err
		}

		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			return nil
		default:
			log.Println("Waiting for device reconnect...")
		}
	}
}

// probeDevice opens the first Stream Deck, giving up after timeout. The
// USB stack can hang enumeration after sleep.
func probeDevice(timeout time.Duration) *device.HardwareDevice {
	found := make(chan *streamdeck.Device, 1)
	go func() {
		dev, err := streamdeck.GetDevice("")
		if err != nil {
			found <- nil
			return
		}
		if err := dev.Open(); err != nil {
			found <- nil
			return
		}
		found <- dev
	}()

	select {
	case dev := <-found:
		if dev == nil {
			return nil
		}
		return device.NewHardware(dev)
	case <-time.After(timeout):
		log.Println("Device detection timed out")
		return nil
	}
}

// waitForHardwareDevice probes until a Stream Deck opens or ctx is done.
// It polls, and also probes right away on wake or USB arrival.
func waitForHardwareDevice(ctx context.Context, wakeCh, arrivals <-chan struct{}) *device.HardwareDevice {
	if dev := probeDevice(probeTimeout); dev != nil {
		return dev
	}
	log.Println("Waiting for device...")

	for {
		attempts := 1
		select {
		case <-ctx.Done():
			return nil
		case <-wakeCh:
			// Devices take a few seconds to enumerate after wake.
			log.Println("Wake signal received, probing for device...")
			attempts = 10
		case <-arrivals:
			log.Println("Stream Deck plugged in, probing...")
			attempts = 3
		case <-time.After(pollInterval):
		}

		for i := 0; i < attempts; i++ {
			if dev := probeDevice(probeTimeout); dev != nil {
				log.Println("Device connected!")
				return dev
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(500 * time.Millisecond):
			}
		}
	}
}

// runWithDevice plays on dev until it disconnects, the system wakes or ctx
// is done. Keys press the layout's buttons and the touch strip is one
// swipe recognizer. Sticks need a continuous drag, which the strip cannot
// report, so stick layouts only get the strip.
func runWithDevice(ctx context.Context, cfg *config.Config, dev device.Deck, wakeCh <-chan struct{}) error {
	log.Printf("Connected to: %s", dev.GetModelName())

	dev.SetBrightness(byte(cfg.Deck.Brightness))
	keyCount := dev.GetKeyCount()
	for k := device.KEY_1; k < device.KEY_1+device.KeyID(keyCount); k++ {
		dev.ClearKey(k)
	}

	t := newTally()
	p, err := buildPad(cfg, t)
	if err != nil {
		return err
	}
	if len(p.Sticks) > 0 {
		log.Printf("Layout %s: sticks are not available on the deck", p.Layout)
	}
	strip, err := gesture.New("strip", widget.All, gesture.Swipe, gesture.WithThreshold(cfg.Gesture.Threshold))
	if err != nil {
		return err
	}
	t.attachGesture(strip)

	coord := coordinator.New(dev)
	buttons := p.Buttons
	if len(buttons) > int(keyCount) {
		log.Printf("Only %d of %d buttons fit on the keys", keyCount, len(buttons))
		buttons = buttons[:keyCount]
	}
	for i, b := range buttons {
		if err := coord.Register(b); err != nil {
			return err
		}
		if err := dev.AddKeyHandler(device.KEY_1+device.KeyID(i), holdButton(b)); err != nil {
			return fmt.Errorf("binding key %d: %w", i+1, err)
		}
	}
	if err := coord.Register(strip); err != nil {
		return err
	}
	if err := coord.Attach(dev); err != nil {
		return err
	}

	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	if err := coord.Start(runCtx); err != nil {
		return err
	}

	handlerErrs := make(chan error, 8)
	listenDone := make(chan error, 1)
	go func() {
		listenDone <- dev.Listen(handlerErrs)
	}()
	go func() {
		for {
			select {
			case <-runCtx.Done():
				return
			case err := <-handlerErrs:
				log.Printf("Device handler error: %v", err)
			}
		}
	}()
	go coord.Run(runCtx, coordinator.DefaultFrameInterval)
	go redrawLoop(runCtx, dev, buttons, strip)
	go t.logEvery(summaryPeriod, runCtx.Done())

	log.Printf("Ready! %d buttons on keys, swipe on the strip", len(buttons))

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-listenDone:
		if err != nil {
			log.Printf("Device disconnected: %v", err)
		}
	case <-wakeCh:
		log.Println("Reconnecting device after wake...")
	}

	runCancel()

	done := make(chan struct{})
	go func() {
		coord.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		log.Println("Cleanup timed out")
	}

	// The HID layer may still deliver callbacks right after close.
	time.Sleep(200 * time.Millisecond)

	closeDone := make(chan struct{})
	go func() {
		dev.Close()
		close(closeDone)
	}()

	// Close can block forever on a wedged device.
	select {
	case <-ctx.Done():
		log.Println("Exiting...")
		os.Exit(0)
	case <-closeDone:
	case <-time.After(3 * time.Second):
		log.Println("Device close timed out")
	}
	return nil
}

// holdButton presses b for as long as the key is held.
func holdButton(b *button.Button) device.KeyHandler {
	return func(d device.Deck, k device.Key) error {
		b.Press()
		k.WaitForRelease()
		b.Release()
		return nil
	}
}

// keyLook is what a key image depends on.
type keyLook struct {
	state    button.State
	cooldown int // percent
}

// redrawLoop repaints keys and the strip whenever their look changes.
func redrawLoop(ctx context.Context, dev device.Deck, buttons []*button.Button, strip *gesture.Gesture) {
	r, err := render.New()
	if err != nil {
		log.Printf("Renderer unavailable: %v", err)
		return
	}

	keySize := 0
	if rect, err := dev.GetKeyImageRectangle(); err == nil {
		keySize = rect.Dx()
	}
	stripRect, err := dev.GetTouchStripImageRectangle()
	hasStrip := err == nil && !stripRect.Empty()

	if keySize > 0 {
		for k := len(buttons); k < int(dev.GetKeyCount()); k++ {
			if err := dev.SetKeyImage(device.KEY_1+device.KeyID(k), render.BlankKey(keySize)); err != nil {
				log.Printf("Key %d image: %v", k+1, err)
			}
		}
	}

	looks := make([]keyLook, len(buttons))
	drawn := make([]bool, len(buttons))
	stripDrawn := false
	var lastSwipe gesture.Direction

	ticker := time.NewTicker(redrawPeriod)
	defer ticker.Stop()
	for {
		if keySize > 0 {
			for i, b := range buttons {
				look := keyLook{state: b.State(), cooldown: int(b.CooldownProgress() * 100)}
				if drawn[i] && look == looks[i] {
					continue
				}
				looks[i], drawn[i] = look, true
				img := r.ButtonKey(b, fmt.Sprint(i+1), keySize)
				if err := dev.SetKeyImage(device.KEY_1+device.KeyID(i), img); err != nil {
					log.Printf("Key %d image: %v", i+1, err)
				}
			}
		}
		if hasStrip {
			if dir := render.LastSwipe(strip.Swipes()); !stripDrawn || dir != lastSwipe {
				lastSwipe, stripDrawn = dir, true
				if err := dev.SetTouchStripImage(r.Strip(stripRect, strip)); err != nil {
					log.Printf("Strip image: %v", err)
				}
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
