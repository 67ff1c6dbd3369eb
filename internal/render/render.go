// Package render draws widget imagery: overlays for the emulator window and
// key and strip images for the Stream Deck.
package render

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/phinze/gamepads/internal/widgets/gesture"
)

// Icons
//
//go:embed icons/arrow-up.svg
var iconArrowUpSVG string

//go:embed icons/arrow-down.svg
var iconArrowDownSVG string

//go:embed icons/arrow-left.svg
var iconArrowLeftSVG string

//go:embed icons/arrow-right.svg
var iconArrowRightSVG string

//go:embed icons/button.svg
var iconButtonSVG string

//go:embed icons/stick.svg
var iconStickSVG string

//go:embed icons/hand.svg
var iconHandSVG string

// Colors
var (
	ColorBackground = color.RGBA{25, 25, 25, 255}
	ColorKeyBg      = color.RGBA{40, 40, 40, 255}
	ColorWhite      = color.RGBA{255, 255, 255, 255}
	ColorGray       = color.RGBA{160, 160, 160, 255}
	ColorAccent     = color.RGBA{255, 200, 50, 255}  // Gold for active controls
	ColorCooldown   = color.RGBA{100, 149, 237, 200} // Cornflower blue pie
	ColorStickBase  = color.RGBA{255, 255, 255, 60}
	ColorStickKnob  = color.RGBA{255, 255, 255, 140}
)

// Renderer holds the font faces used for labels.
type Renderer struct {
	labelFace font.Face
	smallFace font.Face
}

// New parses the bundled fonts.
func New() (*Renderer, error) {
	tt, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	r := &Renderer{}
	r.labelFace, err = opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    20,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create label face: %w", err)
	}

	r.smallFace, err = opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create small face: %w", err)
	}
	return r, nil
}

// ArrowIcon returns the SVG for a swipe direction, or "" for none.
func ArrowIcon(dir gesture.Direction) string {
	switch dir {
	case gesture.Up:
		return iconArrowUpSVG
	case gesture.Down:
		return iconArrowDownSVG
	case gesture.Left:
		return iconArrowLeftSVG
	case gesture.Right:
		return iconArrowRightSVG
	}
	return ""
}

// Icon renders an SVG string to a square image of the given size. The
// SVG's currentColor is replaced with col.
func Icon(svgContent string, size int, col color.Color) image.Image {
	r, g, b, _ := col.RGBA()
	hexColor := fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
	svgContent = strings.ReplaceAll(svgContent, "currentColor", hexColor)

	img := image.NewRGBA(image.Rect(0, 0, size, size))

	icon, err := oksvg.ReadIconStream(strings.NewReader(svgContent))
	if err != nil {
		log.Printf("Failed to parse SVG: %v", err)
		return img
	}

	icon.SetTarget(0, 0, float64(size), float64(size))

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img
}

// DrawText draws text with its baseline starting at (x, y).
func (r *Renderer) DrawText(img draw.Image, text string, x, y int, small bool, col color.Color) {
	face := r.labelFace
	if small {
		face = r.smallFace
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// DrawTextCentered draws text horizontally centred on cx.
func (r *Renderer) DrawTextCentered(img draw.Image, text string, cx, y int, small bool, col color.Color) {
	face := r.labelFace
	if small {
		face = r.smallFace
	}
	w := font.MeasureString(face, text).Ceil()
	r.DrawText(img, text, cx-w/2, y, small, col)
}

// Scale resizes src to w x h. Key images are drawn at the emulator's
// resolution and scaled to the hardware key size.
func Scale(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// fill paints rect with a solid color.
func fill(img draw.Image, rect image.Rectangle, col color.Color) {
	draw.Draw(img, rect, &image.Uniform{col}, image.Point{}, draw.Src)
}

// paste draws src centred on c.
func paste(dst draw.Image, src image.Image, c image.Point) {
	b := src.Bounds()
	at := image.Rect(c.X-b.Dx()/2, c.Y-b.Dy()/2, c.X-b.Dx()/2+b.Dx(), c.Y-b.Dy()/2+b.Dy())
	draw.Draw(dst, at, src, b.Min, draw.Over)
}
