package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/phinze/gamepads/internal/pad"
	"github.com/phinze/gamepads/internal/widget"
	"github.com/phinze/gamepads/internal/widgets/button"
	"github.com/phinze/gamepads/internal/widgets/gesture"
	"github.com/phinze/gamepads/internal/widgets/joystick"
)

func pt(p widget.Point) image.Point {
	return image.Point{X: int(p.X + 0.5), Y: int(p.Y + 0.5)}
}

// Overlay paints every widget of p onto dst, which covers the whole screen.
func (r *Renderer) Overlay(dst *image.RGBA, p *pad.Pad) {
	for _, j := range p.Sticks {
		r.drawStick(dst, j)
	}
	for i, b := range p.Buttons {
		r.drawButton(dst, b, fmt.Sprint(i+1))
	}
	for _, g := range p.Gestures {
		r.drawSwipe(dst, g)
	}
}

func (r *Renderer) drawStick(dst *image.RGBA, j *joystick.Joystick) {
	anchor, claimed := j.Anchor()
	if !claimed {
		return
	}
	radius := int(j.Settings().MaxDistance)
	base := pt(anchor)
	Disc(dst, base, radius, ColorStickBase)
	Ring(dst, base, radius, 2, ColorStickKnob)

	knobColor := color.Color(ColorStickKnob)
	if j.ReceivingInput() {
		knobColor = ColorAccent
	}
	Disc(dst, pt(j.Knob()), radius/2, knobColor)
}

func (r *Renderer) drawButton(dst *image.RGBA, b *button.Button, label string) {
	bounds := b.Bounds()
	if bounds.Empty() {
		return
	}
	size := int(min(bounds.Dx(), bounds.Dy()))
	c := pt(bounds.Center())

	icon := Icon(iconButtonSVG, size, buttonColor(b.State()))
	paste(dst, icon, c)
	Pie(dst, c, size/2, 1-b.CooldownProgress(), ColorCooldown)
	r.DrawTextCentered(dst, label, c.X, c.Y+7, false, ColorWhite)
}

func buttonColor(s button.State) color.Color {
	switch s {
	case button.Pressed, button.TurboFiring:
		return ColorAccent
	case button.CooldownLocked:
		return ColorCooldown
	}
	return ColorGray
}

func (r *Renderer) drawSwipe(dst *image.RGBA, g *gesture.Gesture) {
	dir := LastSwipe(g.Swipes())
	if dir == 0 {
		return
	}
	const size = 64
	b := dst.Bounds()
	paste(dst, Icon(ArrowIcon(dir), size, ColorAccent), image.Point{X: b.Min.X + size, Y: b.Min.Y + size})
}

// LastSwipe returns the direction set in s, or 0 when none is.
func LastSwipe(s gesture.Swipes) gesture.Direction {
	switch {
	case s.Up:
		return gesture.Up
	case s.Down:
		return gesture.Down
	case s.Left:
		return gesture.Left
	case s.Right:
		return gesture.Right
	}
	return 0
}

// ButtonKey renders a button as a key image of the given size.
func (r *Renderer) ButtonKey(b *button.Button, label string, size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fill(img, img.Bounds(), ColorKeyBg)

	c := image.Point{X: size / 2, Y: size / 2}
	iconSize := size * 3 / 4
	paste(img, Icon(iconButtonSVG, iconSize, buttonColor(b.State())), c)
	Pie(img, c, iconSize/2, 1-b.CooldownProgress(), ColorCooldown)
	r.DrawTextCentered(img, label, c.X, c.Y+7, false, ColorWhite)
	return img
}

// BlankKey renders an unused key.
func BlankKey(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fill(img, img.Bounds(), color.Black)
	return img
}

// Strip renders the touch strip for a swipe recognizer: a hint on the left
// and the last swipe direction on the right.
func (r *Renderer) Strip(rect image.Rectangle, g *gesture.Gesture) image.Image {
	img := image.NewRGBA(rect)
	fill(img, rect, ColorBackground)
	h := rect.Dy()

	iconSize := h * 7 / 10
	paste(img, Icon(iconHandSVG, iconSize, ColorGray), image.Point{X: rect.Min.X + h/2, Y: rect.Min.Y + h/2})
	r.DrawText(img, "Swipe to move", rect.Min.X+h, rect.Min.Y+h/2+7, false, ColorGray)

	if g == nil {
		return img
	}
	dir := LastSwipe(g.Swipes())
	if dir == 0 {
		return img
	}
	paste(img, Icon(ArrowIcon(dir), iconSize, ColorAccent), image.Point{X: rect.Max.X - h/2, Y: rect.Min.Y + h/2})
	r.DrawText(img, dir.String(), rect.Max.X-h-60, rect.Min.Y+h/2+7, false, ColorWhite)
	return img
}
