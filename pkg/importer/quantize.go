package importer

import (
	"github.com/Faultbox/g1kit/pkg/g1"
	"github.com/Faultbox/g1kit/pkg/palette"
)

// Error diffusion weights, in sixteenths.
var diffusion = [...]struct {
	dx, dy int
	weight int16
}{
	{1, 0, 7},
	{-1, 1, 3},
	{0, 1, 5},
	{1, 1, 1},
}

// Quantizer maps a working colour buffer onto palette indices.
type Quantizer struct {
	Palette *palette.Palette
	Policy  palette.Policy
	Mode    Mode
}

// Quantize returns one index or g1.Transparent per pixel in raster order. In
// ModeDithering buf is modified: quantization error is pushed into pixels
// not yet visited.
func (q Quantizer) Quantize(buf []palette.Pixel, width, height int) []int16 {
	out := make([]int16, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			px := buf[i]
			if px.Transparent() {
				out[i] = g1.Transparent
				continue
			}
			if idx, ok := q.Palette.ExactIndex(px); ok {
				out[i] = int16(idx)
				continue
			}
			if q.Mode == ModeDefault {
				out[i] = g1.Transparent
				continue
			}

			idx := q.Palette.ClosestIndex(px, q.Policy)
			out[i] = int16(idx)
			if q.Mode == ModeDithering {
				q.diffuse(buf, width, height, x, y, idx)
			}
		}
	}
	return out
}

// diffuse spreads the error of mapping pixel (x, y) to idx over its
// unvisited neighbours. A neighbour only takes error when it needs
// quantization itself and would land in the same remap class.
func (q Quantizer) diffuse(buf []palette.Pixel, width, height, x, y int, idx uint8) {
	c := q.Palette.At(idx)
	px := buf[y*width+x]
	errR := px.R - int16(c.R)
	errG := px.G - int16(c.G)
	errB := px.B - int16(c.B)
	class := palette.Classify(idx)

	for _, d := range diffusion {
		nx, ny := x+d.dx, y+d.dy
		if nx < 0 || nx >= width || ny >= height {
			continue
		}
		n := &buf[ny*width+nx]
		if q.Palette.InPalette(*n) {
			continue
		}
		if palette.Classify(q.Palette.ClosestIndex(*n, q.Policy)) != class {
			continue
		}
		n.R += errR * d.weight / 16
		n.G += errG * d.weight / 16
		n.B += errB * d.weight / 16
	}
}
