// Package emulator provides a desktop window that acts as a touch screen.
package emulator

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phinze/gamepads/internal/device"
	"github.com/phinze/gamepads/internal/widget"
)

// MousePointer is the pointer ID used for the left mouse button. Touches
// use their ebiten touch ID plus one.
const MousePointer widget.PointerID = 0

const (
	defaultWidth  = 960
	defaultHeight = 540
)

// Emulator implements device.Surface using Ebitengine. The mouse and any
// touches on the window become pointer events.
type Emulator struct {
	mu sync.RWMutex

	// State
	open          bool
	width, height int
	title         string
	overlay       func(dst *image.RGBA)
	frame         func()
	status        func() string

	// Handlers
	pointerHandlers []device.PointerHandler

	// Ebitengine state
	game       *emulatorGame
	stopCh     chan struct{}
	errorCh    chan error
	listenDone chan struct{}

	// Input state (managed by game loop)
	tracker device.Tracker
	canvas  *image.RGBA
}

// New creates a new emulator window of the given size. A zero size uses 960x540.
func New(width, height int) *Emulator {
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}
	return &Emulator{
		width:  width,
		height: height,
		title:  "gamepads",
		stopCh: make(chan struct{}),
		canvas: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// SetTitle sets the window title. Call before RunGUI.
func (e *Emulator) SetTitle(title string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.title = title
}

// OnFrame sets the function called once per tick after that tick's pointer
// events were dispatched. Hosts pass coordinator.Frame.
func (e *Emulator) OnFrame(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frame = fn
}

// SetOverlay sets the function that paints widgets onto the window each tick.
func (e *Emulator) SetOverlay(fn func(dst *image.RGBA)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.overlay = fn
}

// SetStatus sets the function whose result is printed in the window corner.
func (e *Emulator) SetStatus(fn func() string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = fn
}

// Open initializes the emulator.
func (e *Emulator) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.open {
		return fmt.Errorf("emulator: device is already open")
	}

	e.open = true
	e.stopCh = make(chan struct{})
	return nil
}

// Close shuts down the emulator.
func (e *Emulator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return fmt.Errorf("emulator: device is not open")
	}

	e.open = false

	// Signal the game loop to stop
	close(e.stopCh)

	return nil
}

// IsOpen returns whether the emulator is open.
func (e *Emulator) IsOpen() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.open
}

// GetModelName returns the emulated model name.
func (e *Emulator) GetModelName() string {
	return "Touch Screen (Emulator)"
}

// Size returns the window's logical size.
func (e *Emulator) Size() (float64, float64) {
	return float64(e.width), float64(e.height)
}

// AddPointerHandler registers a pointer event handler. Handlers run on the
// game loop goroutine.
func (e *Emulator) AddPointerHandler(fn device.PointerHandler) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pointerHandlers = append(e.pointerHandlers, fn)
	return nil
}

// Listen blocks until the emulator is closed.
// For the emulator, the actual event loop runs via RunGUI() which must be called from main.
func (e *Emulator) Listen(errCh chan error) error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return fmt.Errorf("emulator: device is not open")
	}
	e.errorCh = errCh
	if e.listenDone == nil {
		e.listenDone = make(chan struct{})
	}
	done := e.listenDone
	e.mu.Unlock()

	// Block until GUI is closed
	<-done
	return nil
}

// RunGUI starts the Ebitengine GUI loop. This MUST be called from the main goroutine
// on macOS due to Cocoa threading requirements. This method blocks until the window is closed.
func (e *Emulator) RunGUI() error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return fmt.Errorf("emulator: device is not open")
	}
	if e.listenDone == nil {
		e.listenDone = make(chan struct{})
	}
	e.game = &emulatorGame{emu: e}
	title := e.title
	e.mu.Unlock()

	ebiten.SetWindowSize(e.width, e.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	// Run the game loop (this blocks until the window is closed)
	err := ebiten.RunGame(e.game)

	// Signal Listen() to unblock
	close(e.listenDone)
	return err
}

// emulatorGame implements ebiten.Game for the emulator.
type emulatorGame struct {
	emu *Emulator
}

func (g *emulatorGame) Update() error {
	// Check for stop signal
	select {
	case <-g.emu.stopCh:
		return ebiten.Termination
	default:
	}

	g.handleInput()

	g.emu.mu.RLock()
	frame := g.emu.frame
	g.emu.mu.RUnlock()
	if frame != nil {
		frame()
	}
	return nil
}

func (g *emulatorGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{30, 30, 30, 255})

	g.emu.mu.RLock()
	overlay, status := g.emu.overlay, g.emu.status
	g.emu.mu.RUnlock()

	if overlay != nil {
		canvas := g.emu.canvas
		for i := range canvas.Pix {
			canvas.Pix[i] = 0
		}
		overlay(canvas)
		screen.DrawImage(ebiten.NewImageFromImage(canvas), &ebiten.DrawImageOptions{})
	}

	if status != nil {
		ebitenutil.DebugPrintAt(screen, status(), 8, 8)
	}
	ebitenutil.DebugPrintAt(screen, "Click or touch to play | Esc releases all pointers", 8, g.emu.height-18)
}

func (g *emulatorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.emu.width, g.emu.height
}

// handleInput snapshots every held pointer and dispatches the difference
// from the previous tick.
func (g *emulatorGame) handleInput() {
	now := time.Now()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || !ebiten.IsFocused() {
		g.dispatch(g.emu.tracker.Reset(now))
		return
	}

	held := make(map[widget.PointerID]widget.Point)
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		held[MousePointer] = widget.Point{X: float64(mx), Y: float64(my)}
	}
	for _, id := range ebiten.AppendTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		held[widget.PointerID(id)+1] = widget.Point{X: float64(tx), Y: float64(ty)}
	}

	g.dispatch(g.emu.tracker.Diff(held, now))
}

func (g *emulatorGame) dispatch(events []widget.PointerEvent) {
	if len(events) == 0 {
		return
	}

	g.emu.mu.RLock()
	handlers := g.emu.pointerHandlers
	errCh := g.emu.errorCh
	g.emu.mu.RUnlock()

	for _, ev := range events {
		for _, h := range handlers {
			if err := h(g.emu, ev); err != nil && errCh != nil {
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}
}
