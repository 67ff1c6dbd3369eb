package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Disc draws a filled circle blended over dst.
func Disc(dst draw.Image, c image.Point, radius int, col color.Color) {
	Pie(dst, c, radius, 1, col)
}

// Ring draws a circle outline of the given thickness.
func Ring(dst draw.Image, c image.Point, radius, thickness int, col color.Color) {
	inner := float64(radius - thickness)
	outer := float64(radius)
	paint(dst, c, radius, col, func(dx, dy float64) bool {
		d := math.Hypot(dx, dy)
		return d <= outer && d > inner
	})
}

// Pie draws the part of a disc covered by fraction, sweeping clockwise
// from twelve o'clock. A fraction of 1 or more draws the whole disc and 0
// or less draws nothing. Buttons use it to show the cooldown left.
func Pie(dst draw.Image, c image.Point, radius int, fraction float64, col color.Color) {
	if fraction <= 0 || radius <= 0 {
		return
	}
	full := fraction >= 1
	sweep := fraction * 2 * math.Pi
	r := float64(radius)
	paint(dst, c, radius, col, func(dx, dy float64) bool {
		if math.Hypot(dx, dy) > r {
			return false
		}
		return full || clockAngle(dx, dy) < sweep
	})
}

// paint blends col over every pixel within radius of c for which inside
// reports true.
func paint(dst draw.Image, c image.Point, radius int, col color.Color, inside func(dx, dy float64) bool) {
	b := image.Rect(c.X-radius, c.Y-radius, c.X+radius+1, c.Y+radius+1).Intersect(dst.Bounds())
	if b.Empty() {
		return
	}
	mask := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if inside(float64(x-c.X), float64(y-c.Y)) {
				mask.SetAlpha(x, y, color.Alpha{A: 255})
			}
		}
	}
	draw.DrawMask(dst, b, image.NewUniform(col), image.Point{}, mask, b.Min, draw.Over)
}

// clockAngle returns the clockwise angle from twelve o'clock in [0, 2π)
// for screen coordinates, where y grows downwards.
func clockAngle(dx, dy float64) float64 {
	a := math.Atan2(dx, -dy)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
