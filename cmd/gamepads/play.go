package main

import (
	"fmt"
	"image"
	"log"

	"github.com/spf13/cobra"

	"github.com/phinze/gamepads/internal/config"
	"github.com/phinze/gamepads/internal/coordinator"
	"github.com/phinze/gamepads/internal/device/emulator"
	"github.com/phinze/gamepads/internal/pad"
	"github.com/phinze/gamepads/internal/render"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open a window and try a layout with the mouse or a touch screen",
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	log.Println("=== Gamepads Emulator ===")
	log.Println("Close window or press Ctrl+C to exit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	t := newTally()
	p, err := buildPad(cfg, t)
	if err != nil {
		return err
	}
	r, err := render.New()
	if err != nil {
		return err
	}

	emu := emulator.New(cfg.Screen.Width, cfg.Screen.Height)
	if err := emu.Open(); err != nil {
		return fmt.Errorf("opening emulator: %w", err)
	}
	emu.SetTitle("gamepads: " + p.Layout.String())
	p.Arrange(emu)

	coord := coordinator.New(emu)
	for _, w := range p.Widgets() {
		if err := coord.Register(w); err != nil {
			return err
		}
	}
	if err := coord.Attach(emu); err != nil {
		return err
	}
	if err := coord.Start(ctx); err != nil {
		return err
	}
	defer coord.Stop()

	// Reloaded configs are applied on the frame goroutine, between frames.
	reloads := make(chan *config.Config, 1)
	if updates, err := config.Watch(ctx, configPath); err != nil {
		log.Printf("Warning: live reload disabled: %v", err)
	} else {
		go func() {
			for cfg := range updates {
				select {
				case <-reloads:
				default:
				}
				reloads <- cfg
			}
		}()
	}

	emu.OnFrame(func() {
		select {
		case next := <-reloads:
			applyConfig(p, coord, t, next)
		default:
		}
		coord.Frame()
	})
	emu.SetOverlay(func(dst *image.RGBA) {
		r.Overlay(dst, p)
	})
	emu.SetStatus(func() string {
		return fmt.Sprintf("%s | pointers: %d | %s", p.Layout, coord.ActivePointers(), t)
	})

	go func() {
		<-ctx.Done()
		emu.Close()
	}()

	// Run GUI on main thread (required for macOS)
	if err := emu.RunGUI(); err != nil {
		return fmt.Errorf("emulator GUI: %w", err)
	}
	return nil
}

// applyConfig retunes the live widgets. Layout changes need a restart; a
// new gesture mode or sector swaps in fresh recognizers.
func applyConfig(p *pad.Pad, coord *coordinator.Coordinator, t *tally, cfg *config.Config) {
	if l, err := pad.ParseLayout(cfg.Layout); err == nil && layoutName == "" && l != p.Layout {
		log.Printf("Layout changed to %s; restart to apply", l)
	}
	for _, j := range p.Sticks {
		if err := j.UpdateSettings(cfg.StickSettings()); err != nil {
			log.Printf("Stick %s: %v", j.ID(), err)
		}
	}
	for _, b := range p.Buttons {
		if err := b.EnableCooldown(cfg.Button.Cooldown); err != nil {
			log.Printf("Button %s: %v", b.ID(), err)
		}
	}
	if err := replaceGestures(p, coord, t, cfg); err != nil {
		log.Printf("Gestures: %v", err)
	}
	for _, g := range p.Gestures {
		if err := g.SetThreshold(cfg.Gesture.Threshold); err != nil {
			log.Printf("Gesture %s: %v", g.ID(), err)
		}
	}
	log.Println("Config reloaded")
}

// replaceGestures rebuilds the pad's recognizers when the configured mode or
// sector differs from the live ones.
func replaceGestures(p *pad.Pad, coord *coordinator.Coordinator, t *tally, cfg *config.Config) error {
	g := p.Gesture(0)
	if g == nil {
		return nil
	}
	mode, sector, err := cfg.GestureTarget()
	if err != nil {
		return err
	}
	if mode == g.Mode() && (sector == 0 || sector == g.Sector()) {
		return nil
	}

	old, err := p.ReplaceGestures(pad.Options{
		GestureMode:    mode,
		GestureSector:  sector,
		SwipeThreshold: cfg.Gesture.Threshold,
	})
	if err != nil {
		return err
	}
	for _, g := range old {
		coord.Unregister(g.ID())
	}
	for _, g := range p.Gestures {
		t.attachGesture(g)
		if err := coord.Register(g); err != nil {
			return err
		}
	}
	log.Printf("Gestures now %s in %s", mode, p.Gesture(0).Sector())
	return nil
}
