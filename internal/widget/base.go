package widget

import (
	"context"
	"sync/atomic"
)

// BaseWidget provides default no-op implementations of the Widget interface.
// Embed this in widget implementations to only override the methods needed.
type BaseWidget struct {
	id       string
	screen   Screen
	ctx      context.Context
	cancel   context.CancelFunc
	disabled atomic.Bool
}

// NewBaseWidget creates a BaseWidget with the given ID.
func NewBaseWidget(id string) BaseWidget {
	return BaseWidget{id: id}
}

// ID returns the widget's identifier.
func (b *BaseWidget) ID() string {
	return b.id
}

// Init stores the context and screen for the widget.
// Override this to perform widget-specific initialization, but call the base
// implementation to ensure the screen and context are properly stored.
func (b *BaseWidget) Init(ctx context.Context, screen Screen) error {
	b.ctx, b.cancel = context.WithCancel(ctx)
	b.screen = screen
	return nil
}

// Stop cancels the widget's context.
func (b *BaseWidget) Stop() error {
	if b.cancel != nil {
		b.cancel()
	}
	return nil
}

// HandlePointerDown is a no-op by default.
func (b *BaseWidget) HandlePointerDown(ev PointerEvent) error {
	return nil
}

// HandlePointerMove is a no-op by default.
func (b *BaseWidget) HandlePointerMove(ev PointerEvent) error {
	return nil
}

// HandlePointerUp is a no-op by default.
func (b *BaseWidget) HandlePointerUp(ev PointerEvent) error {
	return nil
}

// Update is a no-op by default.
func (b *BaseWidget) Update() error {
	return nil
}

// Enable lets the widget claim new pointers again. It is safe to call from
// any goroutine.
func (b *BaseWidget) Enable() {
	b.disabled.Store(false)
}

// Disable stops the widget from claiming new pointers. A pointer that is
// already claimed is still released normally.
func (b *BaseWidget) Disable() {
	b.disabled.Store(true)
}

// Enabled reports whether the widget accepts new pointers.
func (b *BaseWidget) Enabled() bool {
	return !b.disabled.Load()
}

// Screen returns the screen the widget was initialized with.
func (b *BaseWidget) Screen() Screen {
	return b.screen
}

// Context returns the widget's context.
func (b *BaseWidget) Context() context.Context {
	return b.ctx
}

// InSector reports whether p falls inside sector s of the widget's screen.
// Before Init only All matches.
func (b *BaseWidget) InSector(s Sector, p Point) bool {
	if b.screen == nil {
		return s == All
	}
	w, h := b.screen.Size()
	return s.Owns(p, w, h)
}
