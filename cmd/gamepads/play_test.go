package main

import (
	"context"
	"testing"

	"github.com/phinze/gamepads/internal/config"
	"github.com/phinze/gamepads/internal/coordinator"
	"github.com/phinze/gamepads/internal/pad"
	"github.com/phinze/gamepads/internal/widget"
	"github.com/phinze/gamepads/internal/widgets/gesture"
)

func TestReloadSwapsGestureMode(t *testing.T) {
	cfg := config.Default()
	cfg.Layout = pad.GestureOnly.String()

	tl := newTally()
	p, err := buildPad(cfg, tl)
	if err != nil {
		t.Fatal(err)
	}
	coord := coordinator.New(widget.FixedScreen{Width: 800, Height: 600})
	for _, w := range p.Widgets() {
		if err := coord.Register(w); err != nil {
			t.Fatal(err)
		}
	}
	if err := coord.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer coord.Stop()

	cfg.Gesture.Mode = "tap"
	applyConfig(p, coord, tl, cfg)

	ws := coord.Widgets()
	if len(ws) != 1 || ws[0].ID() != "tap1" {
		t.Fatalf("registered widgets after reload: %v", ws)
	}
	if p.Gesture(0).Mode() != gesture.Tap {
		t.Fatalf("pad gesture mode: got %v, want tap", p.Gesture(0).Mode())
	}

	coord.Post(widget.PointerEvent{Type: widget.PointerDown, ID: 1, Pos: widget.Point{X: 100, Y: 100}})
	coord.Post(widget.PointerEvent{Type: widget.PointerUp, ID: 1, Pos: widget.Point{X: 100, Y: 100}})
	coord.Frame()

	if got, want := tl.String(), "tap1:1"; got != want {
		t.Errorf("summary: got %q, want %q", got, want)
	}

	// Reapplying the same config keeps the live recognizer.
	live := p.Gesture(0)
	applyConfig(p, coord, tl, cfg)
	if p.Gesture(0) != live {
		t.Error("unchanged config rebuilt the gestures")
	}
}
