package importer

import (
	"image"
	"image/color"
	"testing"

	"github.com/Faultbox/g1kit/pkg/bitmap"
	"github.com/Faultbox/g1kit/pkg/g1"
	"github.com/Faultbox/g1kit/pkg/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const T = g1.Transparent

var none = color.NRGBA{}

func rgbaBitmap(t *testing.T, w int, px ...color.NRGBA) *bitmap.Bitmap {
	t.Helper()
	require.Zero(t, len(px)%w)
	img := image.NewNRGBA(image.Rect(0, 0, w, len(px)/w))
	for i, c := range px {
		img.SetNRGBA(i%w, i/w, c)
	}
	return bitmap.FromImage(img)
}

func paletteColor(p *palette.Palette, i uint8) color.NRGBA {
	c := p.At(i)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func green(g uint8) color.NRGBA {
	return color.NRGBA{G: g, A: 255}
}

func TestImportOpaqueRowRLE(t *testing.T) {
	im := New(nil)
	c := paletteColor(im.Palette(), 145)
	bm := rgbaBitmap(t, 8, c, c, c, c, c, c, c, c)

	img, err := im.Import(bm, Options{Flags: FlagRLE})
	require.NoError(t, err)

	assert.Equal(t, []byte{2, 0, 0x88, 0, 145, 145, 145, 145, 145, 145, 145, 145}, img.Data)
	assert.Equal(t, g1.Element{
		Offset: g1.Relative(0),
		Width:  8,
		Height: 1,
		Flags:  g1.FlagRLECompression,
	}, img.Element)
}

func TestImportGapRLE(t *testing.T) {
	im := New(nil)
	a := paletteColor(im.Palette(), 20)
	b := paletteColor(im.Palette(), 100)

	img, err := im.Import(rgbaBitmap(t, 3, a, none, b), Options{Flags: FlagRLE, X: -4, Y: 9})
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0, 0x01, 0, 20, 0x81, 2, 100}, img.Data)
	assert.Equal(t, int16(-4), img.Element.XOffset)
	assert.Equal(t, int16(9), img.Element.YOffset)
}

func TestImportRaw(t *testing.T) {
	im := New(nil)
	a := paletteColor(im.Palette(), 77)
	bm := rgbaBitmap(t, 2, a, none, none, a)

	for _, flags := range []Flags{0, FlagRLE | FlagForceRaw} {
		img, err := im.Import(bm, Options{Flags: flags})
		require.NoError(t, err)
		assert.Equal(t, []byte{77, 0, 0, 77}, img.Data)
		assert.Equal(t, g1.FlagHasTransparency, img.Element.Flags)
	}
}

func TestImportFlags(t *testing.T) {
	im := New(nil)
	a := paletteColor(im.Palette(), 77)

	img, err := im.Import(rgbaBitmap(t, 1, a), Options{Flags: FlagRLE | FlagNoDrawOnZoom, ZoomedOffset: -3})
	require.NoError(t, err)
	assert.True(t, img.Element.Flags.Has(g1.FlagRLECompression|g1.FlagNoZoomDraw|g1.FlagHasZoomSprite))
	assert.Equal(t, int16(-3), img.Element.ZoomedOffset)
}

func TestImportModes(t *testing.T) {
	im := New(palette.Green())
	// (10, 100, 0) has no exact entry; its nearest is index 100.
	off := color.NRGBA{R: 10, G: 100, A: 255}
	bm := rgbaBitmap(t, 3, green(40), off, color.NRGBA{G: 90, A: 127})

	tests := []struct {
		mode Mode
		want []byte
	}{
		{ModeDefault, []byte{40, 0, 0}},
		{ModeClosest, []byte{40, 100, 0}},
		{ModeDithering, []byte{40, 100, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			img, err := im.Import(bm, Options{Mode: tt.mode})
			require.NoError(t, err)
			assert.Equal(t, tt.want, img.Data)
		})
	}
}

func TestImportPolicy(t *testing.T) {
	// Nearest overall would be primary-remap index 250.
	bm := rgbaBitmap(t, 1, color.NRGBA{R: 3, G: 250, A: 255})

	img, err := New(palette.Green()).Import(bm, Options{Mode: ModeClosest})
	require.NoError(t, err)
	assert.Equal(t, []byte{242}, img.Data)

	img, err = New(palette.Green(), WithPolicy(palette.ExcludeSpecial)).Import(bm, Options{Mode: ModeClosest})
	require.NoError(t, err)
	assert.Equal(t, []byte{250}, img.Data)
}

func TestImportKeepIndices(t *testing.T) {
	p := image.NewPaletted(image.Rect(0, 0, 3, 2), palette.Green().ColorPalette())
	copy(p.Pix, []byte{0, 5, 250, 7, 0, 0})
	bm := bitmap.FromImage(p)

	img, err := New(nil).Import(bm, Options{Palette: KeepIndices, Flags: FlagRLE})
	require.NoError(t, err)

	got, err := g1.DecodeRLE(img.Data, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []int16{T, 5, 250, 7, T, T}, got)
}

func TestImportIndexedSourceIsRemapped(t *testing.T) {
	p := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{
		color.NRGBA{},
		color.NRGBA{G: 33, A: 255},
	})
	p.Pix[0] = 1

	img, err := New(palette.Green()).Import(bitmap.FromImage(p), Options{})
	require.NoError(t, err)
	assert.Equal(t, []byte{33, 0}, img.Data)
}

func TestImportWrongBitDepth(t *testing.T) {
	bm := rgbaBitmap(t, 1, green(1))
	_, err := New(nil).Import(bm, Options{Palette: KeepIndices})
	assert.ErrorIs(t, err, ErrWrongBitDepth)
}

func TestImportDimensions(t *testing.T) {
	wide, err := bitmap.New(257, 1, bitmap.Depth32)
	require.NoError(t, err)
	small, err := bitmap.New(4, 4, bitmap.Depth32)
	require.NoError(t, err)

	tests := []struct {
		name string
		bm   *bitmap.Bitmap
		opts Options
	}{
		{"too wide", wide, Options{}},
		{"rectangle outside", small, Options{SrcOffset: image.Pt(2, 0), SrcSize: image.Pt(3, 1)}},
		{"offset past edge", small, Options{SrcOffset: image.Pt(4, 0)}},
		{"negative offset", small, Options{SrcOffset: image.Pt(-1, 0), SrcSize: image.Pt(2, 2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil).Import(tt.bm, tt.opts)
			assert.ErrorIs(t, err, ErrInvalidDimensions)
		})
	}

	img, err := New(nil).Import(wide, Options{SrcSize: image.Pt(256, 0)})
	require.NoError(t, err)
	assert.Equal(t, int16(256), img.Element.Width)
}

func TestImportSourceRectangle(t *testing.T) {
	im := New(palette.Green())
	bm := rgbaBitmap(t, 3,
		green(11), green(12), green(13),
		green(21), green(22), green(23),
	)

	img, err := im.Import(bm, Options{SrcOffset: image.Pt(1, 1), SrcSize: image.Pt(2, 1)})
	require.NoError(t, err)
	assert.Equal(t, []byte{22, 23}, img.Data)
	assert.Equal(t, int16(2), img.Element.Width)
	assert.Equal(t, int16(1), img.Element.Height)
}

func TestParseMode(t *testing.T) {
	for _, name := range []string{"default", "closest", "dithering"} {
		m, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.String())
	}
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeDefault, m)

	_, err = ParseMode("posterize")
	assert.ErrorIs(t, err, ErrUnknownMode)
}
