package g1

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const T = Transparent

func TestEncodeRLE(t *testing.T) {
	tests := []struct {
		name   string
		pixels []int16
		width  int
		height int
		want   []byte
	}{
		{
			name:   "opaque row",
			pixels: []int16{145, 145, 145, 145, 145, 145, 145, 145},
			width:  8,
			height: 1,
			want:   []byte{2, 0, 0x88, 0, 145, 145, 145, 145, 145, 145, 145, 145},
		},
		{
			name:   "gap in the middle",
			pixels: []int16{20, T, 30},
			width:  3,
			height: 1,
			want:   []byte{2, 0, 0x01, 0, 20, 0x81, 2, 30},
		},
		{
			name:   "fully transparent row",
			pixels: []int16{T, T, T, T},
			width:  4,
			height: 1,
			want:   []byte{2, 0, 0x80, 0},
		},
		{
			name:   "trailing transparency moves the flag back",
			pixels: []int16{7, 8, T, T},
			width:  4,
			height: 1,
			want:   []byte{2, 0, 0x82, 0, 7, 8},
		},
		{
			name:   "leading transparency",
			pixels: []int16{T, T, 9},
			width:  3,
			height: 1,
			want:   []byte{2, 0, 0x81, 2, 9},
		},
		{
			name:   "two rows",
			pixels: []int16{1, T, T, 2},
			width:  2,
			height: 2,
			want:   []byte{4, 0, 7, 0, 0x81, 0, 1, 0x81, 1, 2},
		},
		{
			name:   "index zero is opaque",
			pixels: []int16{0, 0},
			width:  2,
			height: 1,
			want:   []byte{2, 0, 0x82, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeRLE(tt.pixels, tt.width, tt.height)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func filled(n int, v int16) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestEncodeRLERunCap(t *testing.T) {
	t.Run("cap reached at the last column", func(t *testing.T) {
		got, err := EncodeRLE(filled(127, 3), 127, 1)
		require.NoError(t, err)
		require.Len(t, got, 2+2+127)
		assert.Equal(t, []byte{0xff, 0}, got[2:4])
	})

	t.Run("one pixel past the cap", func(t *testing.T) {
		got, err := EncodeRLE(filled(128, 3), 128, 1)
		require.NoError(t, err)
		require.Len(t, got, 2+2+127+2+1)
		assert.Equal(t, []byte{0x7f, 0}, got[2:4])
		assert.Equal(t, []byte{0x81, 127, 3}, got[2+2+127:])
	})

	t.Run("cap followed by transparency", func(t *testing.T) {
		row := append(filled(127, 4), T, T, T)
		got, err := EncodeRLE(row, 130, 1)
		require.NoError(t, err)
		require.Len(t, got, 2+2+127)
		assert.Equal(t, []byte{0xff, 0}, got[2:4])
	})

	t.Run("full width row", func(t *testing.T) {
		got, err := EncodeRLE(filled(256, 5), 256, 1)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x7f, 0}, got[2:4])
		assert.Equal(t, []byte{0x7f, 127}, got[2+2+127:2+2+127+2])
		assert.Equal(t, []byte{0x82, 254, 5, 5}, got[len(got)-4:])
	})
}

func TestEncodeRLEErrors(t *testing.T) {
	_, err := EncodeRLE([]int16{1, 2}, 2, 2)
	assert.ErrorIs(t, err, ErrPixelBuffer)

	_, err = EncodeRLE([]int16{1, 300}, 2, 1)
	assert.ErrorIs(t, err, ErrPixelValue)

	_, err = EncodeRLE(filled(256*256, 1), 256, 256)
	assert.ErrorIs(t, err, ErrRowOffsetOverflow)
}

// patternImage builds a deterministic image mixing runs, gaps and long spans.
func patternImage(width, height int) []int16 {
	px := make([]int16, width*height)
	seed := uint32(2463534242)
	for i := range px {
		seed ^= seed << 13
		seed ^= seed >> 17
		seed ^= seed << 5
		switch y := i / width; {
		case y%5 == 0:
			px[i] = T
		case y%5 == 1:
			px[i] = int16(seed % 256)
		case seed%3 == 0:
			px[i] = T
		default:
			px[i] = int16(seed % 256)
		}
	}
	return px
}

func TestRLERoundTrip(t *testing.T) {
	sizes := [][2]int{{1, 1}, {3, 7}, {16, 16}, {127, 4}, {128, 5}, {200, 10}, {255, 6}, {256, 12}, {64, 64}}
	for _, s := range sizes {
		w, h := s[0], s[1]
		px := patternImage(w, h)

		enc, err := EncodeRLE(px, w, h)
		require.NoError(t, err, "%dx%d", w, h)

		dec, err := DecodeRLE(enc, w, h)
		require.NoError(t, err, "%dx%d", w, h)
		assert.Equal(t, px, dec, "%dx%d", w, h)

		size, err := Element{
			Offset: Relative(0),
			Width:  int16(w),
			Height: int16(h),
			Flags:  FlagRLECompression,
		}.DataSize(enc)
		require.NoError(t, err)
		assert.Equal(t, len(enc), size, "%dx%d", w, h)
	}
}

func TestRLELastRunMarking(t *testing.T) {
	w, h := 200, 20
	enc, err := EncodeRLE(patternImage(w, h), w, h)
	require.NoError(t, err)

	for y := 0; y < h; y++ {
		pos := int(binary.LittleEndian.Uint16(enc[y*2:]))
		var flags []bool
		for {
			head := enc[pos]
			flags = append(flags, head&rleLastRun != 0)
			pos += 2 + int(head&rleCountMask)
			if head&rleLastRun != 0 || pos >= len(enc) {
				break
			}
		}
		marked := 0
		for _, f := range flags {
			if f {
				marked++
			}
		}
		assert.Equal(t, 1, marked, "row %d", y)
		assert.True(t, flags[len(flags)-1], "row %d", y)
	}
}

func TestDecodeRLECorrupt(t *testing.T) {
	_, err := DecodeRLE([]byte{2}, 1, 1)
	assert.ErrorIs(t, err, ErrCorruptRLE)

	// run overruns the payload
	_, err = DecodeRLE([]byte{2, 0, 0x85, 0, 1}, 8, 1)
	assert.ErrorIs(t, err, ErrCorruptRLE)

	// run overruns the row
	_, err = DecodeRLE([]byte{2, 0, 0x82, 3, 1, 1}, 4, 1)
	assert.ErrorIs(t, err, ErrCorruptRLE)

	// no last flag before the data ends
	_, err = DecodeRLE([]byte{2, 0, 0x01, 0, 1}, 4, 1)
	assert.ErrorIs(t, err, ErrCorruptRLE)
}

func TestEncodeRaw(t *testing.T) {
	got, err := EncodeRaw([]int16{T, 5, 0, 255}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 5, 0, 255}, got)

	_, err = EncodeRaw([]int16{-7}, 1, 1)
	assert.ErrorIs(t, err, ErrPixelValue)

	_, err = EncodeRaw([]int16{1}, 2, 1)
	assert.ErrorIs(t, err, ErrPixelBuffer)
}

func TestDecodeRaw(t *testing.T) {
	got, err := DecodeRaw([]byte{0, 5}, 2, 1, true)
	require.NoError(t, err)
	assert.Equal(t, []int16{T, 5}, got)

	got, err = DecodeRaw([]byte{0, 5}, 2, 1, false)
	require.NoError(t, err)
	assert.Equal(t, []int16{0, 5}, got)
}

func TestDecodeByFlags(t *testing.T) {
	enc, err := EncodeRLE([]int16{1, T}, 2, 1)
	require.NoError(t, err)

	got, err := Decode(Element{Width: 2, Height: 1, Flags: FlagRLECompression}, enc)
	require.NoError(t, err)
	assert.Equal(t, []int16{1, T}, got)

	got, err = Decode(Element{Width: 2, Height: 1, Flags: FlagHasTransparency}, []byte{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []int16{1, T}, got)
}
