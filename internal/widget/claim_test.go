package widget

import (
	"context"
	"sync"
	"testing"
)

func TestClaimSinglePointer(t *testing.T) {
	var c Claim

	if !c.Take(1) {
		t.Fatal("Take(1) on empty claim failed")
	}
	if c.Take(2) {
		t.Error("Take(2) succeeded while 1 is held")
	}
	if c.Release(2) {
		t.Error("Release(2) released a claim held by 1")
	}
	if !c.Holds(1) {
		t.Error("claim on 1 was lost")
	}
	if !c.Release(1) {
		t.Error("Release(1) failed")
	}
	if c.Held() {
		t.Error("claim still held after release")
	}
	if !c.Take(2) {
		t.Error("Take(2) after release failed")
	}
}

func TestBaseWidgetInSector(t *testing.T) {
	b := NewBaseWidget("w")

	if !b.InSector(All, Point{5, 5}) {
		t.Error("All should match before Init")
	}
	if b.InSector(HalfLeft, Point{5, 5}) {
		t.Error("HalfLeft matched before Init")
	}

	if err := b.Init(context.Background(), FixedScreen{Width: 100, Height: 100}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !b.InSector(HalfLeft, Point{5, 5}) {
		t.Error("HalfLeft should match (5,5) on a 100x100 screen")
	}
	if b.InSector(HalfRight, Point{5, 5}) {
		t.Error("HalfRight matched (5,5) on a 100x100 screen")
	}
}

func TestBaseWidgetEnableDisable(t *testing.T) {
	b := NewBaseWidget("w")
	if !b.Enabled() {
		t.Fatal("new widget should be enabled")
	}
	b.Disable()
	if b.Enabled() {
		t.Error("Disable had no effect")
	}
	b.Enable()
	if !b.Enabled() {
		t.Error("Enable had no effect")
	}
}

func TestBaseWidgetEnableFromOtherGoroutine(t *testing.T) {
	b := NewBaseWidget("w")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			b.Disable()
			b.Enable()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = b.Enabled()
		}
	}()
	wg.Wait()

	if !b.Enabled() {
		t.Error("widget left disabled after a final Enable")
	}
}

func TestBaseWidgetStopCancelsContext(t *testing.T) {
	b := NewBaseWidget("w")
	if err := b.Init(context.Background(), FixedScreen{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	b.Stop()
	select {
	case <-b.Context().Done():
	default:
		t.Error("context not cancelled by Stop")
	}
}
