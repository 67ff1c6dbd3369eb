package main

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/phinze/gamepads/internal/pad"
	"github.com/phinze/gamepads/internal/widgets/gesture"
)

// tally counts button firings and taps, and logs swipes. Turbo buttons fire every
// frame, so firings are summarised instead of logged one by one.
type tally struct {
	mu     sync.Mutex
	fires  map[string]int
	swipes map[string]gesture.Direction
	dirty  bool
}

func newTally() *tally {
	return &tally{
		fires:  make(map[string]int),
		swipes: make(map[string]gesture.Direction),
	}
}

func (t *tally) attach(p *pad.Pad) {
	for _, b := range p.Buttons {
		id := b.ID()
		b.SetOnPressed(func() { t.fire(id) })
	}
	for _, g := range p.Gestures {
		t.attachGesture(g)
	}
}

func (t *tally) attachGesture(g *gesture.Gesture) {
	id := g.ID()
	if g.Mode() == gesture.Tap {
		g.SetOnTouchDown(func() { t.fire(id) })
		g.SetOnRelease(func(held time.Duration) {
			log.Printf("Tap on %s held %v", id, held.Round(time.Millisecond))
		})
		return
	}
	for _, dir := range []gesture.Direction{gesture.Up, gesture.Down, gesture.Left, gesture.Right} {
		g.SetSwipeCallback(dir, func() { t.swipe(id, dir) })
	}
}

func (t *tally) fire(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fires[id]++
	t.dirty = true
}

func (t *tally) swipe(id string, dir gesture.Direction) {
	t.mu.Lock()
	t.swipes[id] = dir
	t.mu.Unlock()
	log.Printf("Swipe %s on %s", dir, id)
}

// String summarises firings, such as "button1:3 button2:12".
func (t *tally) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	parts := make([]string, 0, len(t.fires)+len(t.swipes))
	for id, n := range t.fires {
		parts = append(parts, fmt.Sprintf("%s:%d", id, n))
	}
	for id, dir := range t.swipes {
		parts = append(parts, fmt.Sprintf("%s:%s", id, dir))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

// logEvery logs the summary on each tick that saw a firing, until done closes.
func (t *tally) logEvery(interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			t.mu.Lock()
			dirty := t.dirty
			t.dirty = false
			t.mu.Unlock()
			if dirty {
				log.Printf("Fired: %s", t)
			}
		}
	}
}
