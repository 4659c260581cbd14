// Package palette models the engine's fixed 256-entry indexed colour table and
// the colour matching queries the sprite importer runs against it.
package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // PNG decoder registration
	"os"

	_ "golang.org/x/image/bmp" // BMP decoder registration
)

// Size is the number of entries in every palette.
const Size = 256

// Palette errors.
var (
	ErrUnknownPreset    = errors.New("unknown palette preset")
	ErrInvalidImageSize = errors.New("palette image must contain exactly 256 pixels")
)

// Color is one palette entry.
type Color struct {
	R, G, B uint8
}

// RGBA returns the entry as an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Pixel is a working colour. Channels are wider than a byte so that diffused
// quantization error can push them outside 0..255 without wrapping.
type Pixel struct {
	R, G, B, A int16
}

// Transparent reports whether the pixel is treated as fully transparent.
func (p Pixel) Transparent() bool {
	return p.A < 128
}

// Palette is an immutable 256-colour table. Position is meaning: the index
// ranges returned by Classify are fixed regardless of the colours stored.
type Palette struct {
	colors [Size]Color
}

// New returns a palette holding the given colours.
func New(colors [Size]Color) *Palette {
	return &Palette{colors: colors}
}

// Default returns the built-in engine palette.
func Default() *Palette {
	return New(defaultColors)
}

// Green returns the test palette where entry i is (0, i, 0).
func Green() *Palette {
	var colors [Size]Color
	for i := range colors {
		colors[i] = Color{G: uint8(i)}
	}
	return New(colors)
}

// Preset returns a named palette.
func Preset(name string) (*Palette, error) {
	switch name {
	case "", "default":
		return Default(), nil
	case "green":
		return Green(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
}

// FromImage builds a palette from an image holding exactly 256 pixels, read in
// raster order. Alpha is ignored.
func FromImage(img image.Image) (*Palette, error) {
	b := img.Bounds()
	if b.Dx()*b.Dy() != Size {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidImageSize, b.Dx(), b.Dy())
	}

	var colors [Size]Color
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			colors[i] = Color{R: c.R, G: c.G, B: c.B}
			i++
		}
	}
	return New(colors), nil
}

// LoadFile reads a palette from a PNG or BMP image of 256 pixels.
func LoadFile(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening palette image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding palette image %s: %w", path, err)
	}
	return FromImage(img)
}

// At returns entry i.
func (p *Palette) At(i uint8) Color {
	return p.colors[i]
}

// Colors returns a copy of all entries.
func (p *Palette) Colors() [Size]Color {
	return p.colors
}

// ColorPalette converts the table for use with image.Paletted.
func (p *Palette) ColorPalette() color.Palette {
	out := make(color.Palette, Size)
	for i, c := range p.colors {
		out[i] = c.RGBA()
	}
	return out
}

// ExactIndex returns the first entry whose RGB equals the pixel. Transparent
// pixels never match; transparency is the absence of an index.
func (p *Palette) ExactIndex(px Pixel) (uint8, bool) {
	if px.Transparent() {
		return 0, false
	}
	for i, c := range p.colors {
		if int16(c.R) == px.R && int16(c.G) == px.G && int16(c.B) == px.B {
			return uint8(i), true
		}
	}
	return 0, false
}

// InPalette reports whether the pixel needs no quantization: it is either
// transparent or has an exact entry.
func (p *Palette) InPalette(px Pixel) bool {
	if px.Transparent() {
		return true
	}
	_, ok := p.ExactIndex(px)
	return ok
}

// ClosestIndex returns the entry eligible under policy with the smallest
// squared RGB distance to the pixel. Ties go to the lowest index.
func (p *Palette) ClosestIndex(px Pixel, policy Policy) uint8 {
	best := -1
	bestDist := 0
	for i, c := range p.colors {
		if !policy.Changeable(uint8(i)) {
			continue
		}
		dr := int(px.R) - int(c.R)
		dg := int(px.G) - int(c.G)
		db := int(px.B) - int(c.B)
		dist := dr*dr + dg*dg + db*db
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return uint8(best)
}
