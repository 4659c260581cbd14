// Package bitmap holds decoded source images in the two layouts the sprite
// importer understands: 8-bit indexed with a palette and 32-bit NRGBA.
package bitmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // PNG decoder
	"io"
	"os"

	_ "golang.org/x/image/bmp" // BMP decoder
	"golang.org/x/image/draw"
)

// Pixel depths.
const (
	Depth8  = 8
	Depth32 = 32
)

var (
	ErrDecode     = errors.New("failed to decode image")
	ErrBadDepth   = errors.New("unsupported bitmap depth")
	ErrEmptyImage = errors.New("image has no pixels")
)

// Bitmap is a decoded image. Depth8 bitmaps store one palette index per
// pixel; Depth32 bitmaps store non-premultiplied R, G, B, A bytes.
type Bitmap struct {
	Width   int
	Height  int
	Stride  int
	Depth   int
	Pixels  []byte
	Palette color.Palette
}

// New allocates a zeroed bitmap.
func New(width, height, depth int) (*Bitmap, error) {
	bpp, err := bytesPerPixel(depth)
	if err != nil {
		return nil, err
	}
	return &Bitmap{
		Width:  width,
		Height: height,
		Stride: width * bpp,
		Depth:  depth,
		Pixels: make([]byte, width*height*bpp),
	}, nil
}

func bytesPerPixel(depth int) (int, error) {
	switch depth {
	case Depth8:
		return 1, nil
	case Depth32:
		return 4, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrBadDepth, depth)
	}
}

// FromImage copies img into a bitmap. Paletted images keep their indices and
// palette, everything else is converted to NRGBA.
func FromImage(img image.Image) *Bitmap {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if p, ok := img.(*image.Paletted); ok {
		bm := &Bitmap{
			Width:   w,
			Height:  h,
			Stride:  w,
			Depth:   Depth8,
			Pixels:  make([]byte, w*h),
			Palette: append(color.Palette(nil), p.Palette...),
		}
		for y := 0; y < h; y++ {
			start := p.PixOffset(b.Min.X, b.Min.Y+y)
			copy(bm.Pixels[y*w:(y+1)*w], p.Pix[start:start+w])
		}
		return bm
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Bitmap{
		Width:  w,
		Height: h,
		Stride: dst.Stride,
		Depth:  Depth32,
		Pixels: dst.Pix,
	}
}

// Decode reads a PNG or BMP image and returns it with the detected format.
func Decode(r io.Reader) (*Bitmap, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if img.Bounds().Empty() {
		return nil, format, ErrEmptyImage
	}
	return FromImage(img), format, nil
}

// ReadFile decodes the image file at path.
func ReadFile(path string) (*Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bm, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bm, nil
}

// Index returns the palette index at (x, y) of a Depth8 bitmap.
func (b *Bitmap) Index(x, y int) uint8 {
	return b.Pixels[y*b.Stride+x]
}

// NRGBA returns the colour at (x, y). Indices outside the palette of a Depth8
// bitmap read as fully transparent.
func (b *Bitmap) NRGBA(x, y int) color.NRGBA {
	if b.Depth == Depth8 {
		idx := int(b.Index(x, y))
		if idx >= len(b.Palette) {
			return color.NRGBA{}
		}
		return color.NRGBAModel.Convert(b.Palette[idx]).(color.NRGBA)
	}
	i := y*b.Stride + x*4
	p := b.Pixels[i : i+4 : i+4]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// ToRGBA returns b as a Depth32 bitmap. Depth32 bitmaps are returned as is.
func (b *Bitmap) ToRGBA() *Bitmap {
	if b.Depth == Depth32 {
		return b
	}
	out := &Bitmap{
		Width:  b.Width,
		Height: b.Height,
		Stride: b.Width * 4,
		Depth:  Depth32,
		Pixels: make([]byte, b.Width*b.Height*4),
	}
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.NRGBA(x, y)
			i := y*out.Stride + x*4
			out.Pixels[i], out.Pixels[i+1], out.Pixels[i+2], out.Pixels[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return out
}

// Image wraps the pixel data in the matching standard image type without
// copying.
func (b *Bitmap) Image() image.Image {
	r := image.Rect(0, 0, b.Width, b.Height)
	if b.Depth == Depth8 {
		return &image.Paletted{Pix: b.Pixels, Stride: b.Stride, Rect: r, Palette: b.Palette}
	}
	return &image.NRGBA{Pix: b.Pixels, Stride: b.Stride, Rect: r}
}
