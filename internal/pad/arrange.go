package pad

import (
	"math"

	"github.com/phinze/gamepads/internal/widget"
)

// Padding is the gap between buttons and from the screen edge.
const Padding = 10

const (
	fanStart     = 175.0
	fanSmall     = 0.7
	fanLarge     = 1.2
	fanRadiusMul = 1.5
)

// Arrange gives each button of the pad its hit bounds for the given screen.
// Buttons are anchored by their bottom-right corner, the first one nearest
// the bottom-right of the screen.
func (p *Pad) Arrange(screen widget.Screen) {
	if len(p.Buttons) == 0 {
		return
	}
	w, h := screen.Size()
	for i, r := range p.layoutButtons(w, h) {
		if i < len(p.Buttons) {
			p.Buttons[i].SetBounds(r)
		}
	}
}

func (p *Pad) layoutButtons(w, h float64) []widget.Rect {
	s := p.ButtonSize
	step := s + Padding
	right, bottom := w-Padding, h-Padding

	at := func(x, y, scale float64) widget.Rect {
		size := s * scale
		return widget.RectAt(x-size, y-size, size, size)
	}

	var rects []widget.Rect
	switch p.ButtonPad {
	case OneFixed, TwoInlineX, ThreeInlineX, FourInlineX:
		for i := 0; i < p.ButtonPad.Count(); i++ {
			rects = append(rects, at(right-float64(i)*step, bottom, 1))
		}
	case TwoInlineY, ThreeInlineY, FourInlineY:
		for i := 0; i < p.ButtonPad.Count(); i++ {
			rects = append(rects, at(right, bottom-float64(i)*step, 1))
		}
	case FourStack:
		rects = append(rects,
			at(right, bottom, 1),
			at(right, bottom-step, 1),
			at(right-step, bottom, 1),
			at(right-step, bottom-step, 1),
		)
	case ThreeFan, FourFan, FiveFan:
		cx, cy := w-3*Padding, h-3*Padding
		radius := s * fanRadiusMul

		arc := 3
		angleStep := 50.0
		switch p.ButtonPad {
		case FourFan:
			rects = append(rects, at(cx-Padding, cy-Padding, fanLarge))
		case FiveFan:
			rects = append(rects, at(cx, cy, fanLarge))
			arc = 4
			angleStep = 100.0 / 3
		}
		for i := 0; i < arc; i++ {
			rad := (fanStart + float64(i)*angleStep) * math.Pi / 180
			rects = append(rects, at(cx+math.Cos(rad)*radius, cy+math.Sin(rad)*radius, fanSmall))
		}
	}
	return rects
}
