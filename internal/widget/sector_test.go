package widget

import (
	"errors"
	"testing"
)

var allSectors = []Sector{HalfLeft, HalfTop, HalfRight, HalfBottom, TopLeft, TopRight, BottomRight, BottomLeft, All}

func TestSectorOwns(t *testing.T) {
	const w, h = 800, 600

	tests := []struct {
		name string
		p    Point
		want []Sector
	}{
		{"top left", Point{100, 100}, []Sector{HalfLeft, HalfTop, TopLeft, All}},
		{"top right", Point{700, 100}, []Sector{HalfRight, HalfTop, TopRight, All}},
		{"bottom right", Point{700, 500}, []Sector{HalfRight, HalfBottom, BottomRight, All}},
		{"bottom left", Point{100, 500}, []Sector{HalfLeft, HalfBottom, BottomLeft, All}},
		{"vertical split top", Point{400, 100}, []Sector{HalfTop, All}},
		{"horizontal split right", Point{700, 300}, []Sector{HalfRight, All}},
		{"center", Point{400, 300}, []Sector{All}},
		{"off screen", Point{-50, 900}, []Sector{HalfLeft, HalfBottom, BottomLeft, All}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := make(map[Sector]bool)
			for _, s := range tt.want {
				want[s] = true
			}
			for _, s := range allSectors {
				if got := s.Owns(tt.p, w, h); got != want[s] {
					t.Errorf("%v.Owns(%v): got %v, want %v", s, tt.p, got, want[s])
				}
			}
		})
	}
}

func TestSectorUnknownOwnsNothing(t *testing.T) {
	if Sector(0).Owns(Point{1, 1}, 10, 10) {
		t.Error("zero sector owns a point")
	}
	if Sector(42).Owns(Point{1, 1}, 10, 10) {
		t.Error("out-of-range sector owns a point")
	}
}

func TestParseSector(t *testing.T) {
	tests := []struct {
		in   string
		want Sector
	}{
		{"half-left", HalfLeft},
		{"left", HalfLeft},
		{"HALF_RIGHT", HalfRight},
		{"top", HalfTop},
		{"bottom-half", HalfBottom},
		{"top-left", TopLeft},
		{"bottom_right", BottomRight},
		{"all", All},
		{"whole-screen", All},
	}
	for _, tt := range tests {
		got, err := ParseSector(tt.in)
		if err != nil {
			t.Errorf("ParseSector(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSector(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseSector("middle"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParseSector(middle): got %v, want ErrInvalidConfig", err)
	}
}

func TestSectorStringRoundTrip(t *testing.T) {
	for _, s := range allSectors {
		got, err := ParseSector(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSector(%q): got %v, %v", s.String(), got, err)
		}
	}
}
