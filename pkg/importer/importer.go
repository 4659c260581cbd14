// Package importer converts decoded bitmaps into encoded sprite images.
package importer

import (
	"errors"
	"fmt"
	"image"

	"github.com/Faultbox/g1kit/pkg/bitmap"
	"github.com/Faultbox/g1kit/pkg/g1"
	"github.com/Faultbox/g1kit/pkg/palette"
)

// MaxSize is the largest sprite width or height.
const MaxSize = 256

var (
	ErrInvalidDimensions = errors.New("invalid sprite dimensions")
	ErrWrongBitDepth     = errors.New("palette indices can only be kept from 8-bit images")
	ErrUnknownMode       = errors.New("unknown import mode")
)

// Importer quantizes and encodes bitmaps against one palette.
type Importer struct {
	palette *palette.Palette
	policy  palette.Policy
}

// Option configures an Importer.
type Option func(*Importer)

// WithPolicy sets which palette entries closest-colour matching may pick.
func WithPolicy(p palette.Policy) Option {
	return func(im *Importer) {
		im.policy = p
	}
}

// New returns an importer for p, or for the default palette when p is nil.
func New(p *palette.Palette, opts ...Option) *Importer {
	if p == nil {
		p = palette.Default()
	}
	im := &Importer{palette: p}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Palette returns the importer's palette.
func (im *Importer) Palette() *palette.Palette {
	return im.palette
}

// Import converts the selected rectangle of bm into an encoded image. The
// element offset is relative to the start of the returned data.
func (im *Importer) Import(bm *bitmap.Bitmap, o Options) (g1.Image, error) {
	r, err := sourceRect(bm, o)
	if err != nil {
		return g1.Image{}, err
	}
	if o.Palette == KeepIndices && bm.Depth != bitmap.Depth8 {
		return g1.Image{}, fmt.Errorf("%w: source is %d-bit", ErrWrongBitDepth, bm.Depth)
	}

	w, h := r.Dx(), r.Dy()
	var pixels []int16
	if o.Palette == KeepIndices {
		pixels = indexedPixels(bm, r)
	} else {
		q := Quantizer{Palette: im.palette, Policy: im.policy, Mode: o.Mode}
		pixels = q.Quantize(workingBuffer(bm.ToRGBA(), r), w, h)
	}

	var (
		data  []byte
		flags g1.Flags
	)
	if o.rle() {
		data, err = g1.EncodeRLE(pixels, w, h)
		flags = g1.FlagRLECompression
	} else {
		data, err = g1.EncodeRaw(pixels, w, h)
		flags = g1.FlagHasTransparency
	}
	if err != nil {
		return g1.Image{}, err
	}

	if o.Flags&FlagNoDrawOnZoom != 0 {
		flags |= g1.FlagNoZoomDraw
	}
	if o.ZoomedOffset != 0 {
		flags |= g1.FlagHasZoomSprite
	}

	return g1.Image{
		Element: g1.Element{
			Offset:       g1.Relative(0),
			Width:        int16(w),
			Height:       int16(h),
			XOffset:      o.X,
			YOffset:      o.Y,
			Flags:        flags,
			ZoomedOffset: o.ZoomedOffset,
		},
		Data: data,
	}, nil
}

func sourceRect(bm *bitmap.Bitmap, o Options) (image.Rectangle, error) {
	size := o.SrcSize
	if size.X == 0 {
		size.X = bm.Width - o.SrcOffset.X
	}
	if size.Y == 0 {
		size.Y = bm.Height - o.SrcOffset.Y
	}
	r := image.Rectangle{Min: o.SrcOffset, Max: o.SrcOffset.Add(size)}

	if size.X <= 0 || size.Y <= 0 || size.X > MaxSize || size.Y > MaxSize {
		return r, fmt.Errorf("%w: %dx%d, limit is %dx%d", ErrInvalidDimensions, size.X, size.Y, MaxSize, MaxSize)
	}
	if !r.In(image.Rect(0, 0, bm.Width, bm.Height)) {
		return r, fmt.Errorf("%w: %v outside %dx%d image", ErrInvalidDimensions, r, bm.Width, bm.Height)
	}
	return r, nil
}

// indexedPixels copies source indices; index 0 is transparent by convention.
func indexedPixels(bm *bitmap.Bitmap, r image.Rectangle) []int16 {
	out := make([]int16, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			idx := bm.Index(x, y)
			if idx == 0 {
				out = append(out, g1.Transparent)
			} else {
				out = append(out, int16(idx))
			}
		}
	}
	return out
}

func workingBuffer(bm *bitmap.Bitmap, r image.Rectangle) []palette.Pixel {
	out := make([]palette.Pixel, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := bm.NRGBA(x, y)
			out = append(out, palette.Pixel{R: int16(c.R), G: int16(c.G), B: int16(c.B), A: int16(c.A)})
		}
	}
	return out
}
