package widget

import "math"

// Point is a position in screen space.
type Point struct {
	X, Y float64
}

// Sub returns p-q.
func (p Point) Sub(q Point) Vector {
	return Vector{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p translated by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Vector is a displacement or speed in screen space.
type Vector struct {
	X, Y float64
}

// Len returns the Euclidean length of v.
func (v Vector) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Angle returns atan2(v.Y, v.X) in radians.
func (v Vector) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Rect is an axis-aligned rectangle. Min is inclusive, Max is exclusive.
type Rect struct {
	Min, Max Point
}

// RectAt returns the rectangle with top-left corner (x, y) and the given size.
func RectAt(x, y, w, h float64) Rect {
	return Rect{Min: Point{X: x, Y: y}, Max: Point{X: x + w, Y: y + h}}
}

// Empty reports whether r contains no points.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return r.Min.X <= p.X && p.X < r.Max.X && r.Min.Y <= p.Y && p.Y < r.Max.Y
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Dx returns the width of r.
func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }

// Dy returns the height of r.
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Screen reports the current size of the surface widgets live on.
type Screen interface {
	Size() (width, height float64)
}

// FixedScreen is a Screen with a constant size.
type FixedScreen struct {
	Width, Height float64
}

// Size returns the fixed dimensions.
func (s FixedScreen) Size() (float64, float64) {
	return s.Width, s.Height
}

// Degrees returns the angle of v in degrees, in (-180, 180].
func (v Vector) Degrees() float64 {
	return v.Angle() * 180 / math.Pi
}

// Snap keeps the dominant axis of v and zeroes the other. When both axes
// have the same magnitude the Y axis is kept.
func (v Vector) Snap() Vector {
	if math.Abs(v.X) > math.Abs(v.Y) {
		return Vector{X: v.X}
	}
	return Vector{Y: v.Y}
}
