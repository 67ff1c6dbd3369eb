package widget

import (
	"fmt"
	"strings"
)

// Sector is a named region of the screen used to decide which widget may
// claim a touch.
type Sector uint8

const (
	HalfLeft Sector = iota + 1
	HalfTop
	HalfRight
	HalfBottom
	TopLeft
	TopRight
	BottomRight
	BottomLeft
	All
)

var sectorNames = map[Sector]string{
	HalfLeft:    "half-left",
	HalfTop:     "half-top",
	HalfRight:   "half-right",
	HalfBottom:  "half-bottom",
	TopLeft:     "top-left",
	TopRight:    "top-right",
	BottomRight: "bottom-right",
	BottomLeft:  "bottom-left",
	All:         "all",
}

func (s Sector) String() string {
	if name, ok := sectorNames[s]; ok {
		return name
	}
	return fmt.Sprintf("sector(%d)", uint8(s))
}

// ParseSector parses a sector name such as "half-left", "left", "top-right" or "all".
func ParseSector(name string) (Sector, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	switch n {
	case "left", "left-half":
		return HalfLeft, nil
	case "right", "right-half":
		return HalfRight, nil
	case "top", "top-half":
		return HalfTop, nil
	case "bottom", "bottom-half":
		return HalfBottom, nil
	case "whole-screen", "whole":
		return All, nil
	}
	for s, sn := range sectorNames {
		if sn == n {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown sector %q", ErrInvalidConfig, name)
}

// Owns reports whether p lies in sector s of a width x height screen.
// Points exactly on a split line belong to neither half.
func (s Sector) Owns(p Point, width, height float64) bool {
	bottom := p.Y > height/2
	top := p.Y < height/2
	right := p.X > width/2
	left := p.X < width/2

	switch s {
	case All:
		return true
	case HalfLeft:
		return left
	case HalfRight:
		return right
	case HalfTop:
		return top
	case HalfBottom:
		return bottom
	case TopLeft:
		return top && left
	case TopRight:
		return top && right
	case BottomRight:
		return bottom && right
	case BottomLeft:
		return bottom && left
	}
	return false
}
