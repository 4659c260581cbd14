package g1

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/noxer/bytewriter"
)

// Transparent is the out-of-band pixel value for "no palette index". Pixel
// buffers handed to the encoders hold one value per pixel: either a palette
// index in 0..255 or Transparent.
const Transparent int16 = -1

const (
	rleLastRun   = 0x80
	rleCountMask = 0x7f
	maxRunLength = 127
)

// rleRun is one opaque span of a scanline.
type rleRun struct {
	start int
	count int
	last  bool
}

// rowRuns splits a scanline into opaque runs of at most maxRunLength pixels.
// The final run carries the last flag; a row with no opaque pixels yields a
// single empty run so the row still terminates.
func rowRuns(row []int16, runs []rleRun) []rleRun {
	runs = runs[:0]
	start, count := 0, 0
	for x, p := range row {
		if p == Transparent {
			if count > 0 {
				runs = append(runs, rleRun{start: start, count: count})
				count = 0
			}
			continue
		}
		if count == 0 {
			start = x
		}
		count++
		if count == maxRunLength {
			runs = append(runs, rleRun{start: start, count: count})
			count = 0
		}
	}
	if count > 0 {
		runs = append(runs, rleRun{start: start, count: count})
	}

	if len(runs) == 0 {
		return append(runs, rleRun{last: true})
	}
	runs[len(runs)-1].last = true
	return runs
}

// rleScratchSize bounds the encoded size: the row table plus, per row, one
// two-byte header per pixel in the worst case and the pixels themselves.
func rleScratchSize(width, height int) int {
	return height*2 + height*(3*width+2)
}

// EncodeRLE compresses an indexed image into the G1 scanline format. The
// output starts with one little-endian uint16 per row giving the byte offset
// of that row's runs. Each run is a header byte (pixel count in bits 0-6, bit
// 7 set on the row's last run), the starting column, then the pixel bytes.
func EncodeRLE(pixels []int16, width, height int) ([]byte, error) {
	if width < 0 || height < 0 || len(pixels) < width*height {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d", ErrPixelBuffer, len(pixels), width, height)
	}

	tableSize := height * 2
	scratch := make([]byte, rleScratchSize(width, height))
	w := bytewriter.New(scratch[tableSize:])
	pos := tableSize

	write := func(b []byte) error {
		n, err := w.Write(b)
		pos += n
		if err != nil {
			return err
		}
		if n != len(b) {
			return fmt.Errorf("RLE scratch buffer exhausted at byte %d", pos)
		}
		return nil
	}

	var runs []rleRun
	line := make([]byte, 0, maxRunLength+2)
	for y := 0; y < height; y++ {
		if pos > math.MaxUint16 {
			return nil, fmt.Errorf("%w: row %d starts at byte %d", ErrRowOffsetOverflow, y, pos)
		}
		binary.LittleEndian.PutUint16(scratch[y*2:], uint16(pos))

		row := pixels[y*width : (y+1)*width]
		runs = rowRuns(row, runs)
		for _, run := range runs {
			head := byte(run.count)
			if run.last {
				head |= rleLastRun
			}
			line = append(line[:0], head, byte(run.start))
			for _, p := range row[run.start : run.start+run.count] {
				if p < 0 || p > 255 {
					return nil, fmt.Errorf("%w: %d at (%d, %d)", ErrPixelValue, p, run.start, y)
				}
				line = append(line, byte(p))
			}
			if err := write(line); err != nil {
				return nil, err
			}
		}
	}

	return scratch[:pos], nil
}

// DecodeRLE expands G1 scanline data. Pixels not covered by any run are set
// to Transparent.
func DecodeRLE(data []byte, width, height int) ([]int16, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative size %dx%d", ErrCorruptRLE, width, height)
	}
	if len(data) < height*2 {
		return nil, fmt.Errorf("%w: row table needs %d bytes, have %d", ErrCorruptRLE, height*2, len(data))
	}

	out := make([]int16, width*height)
	for i := range out {
		out[i] = Transparent
	}

	for y := 0; y < height; y++ {
		pos := int(binary.LittleEndian.Uint16(data[y*2:]))
		row := out[y*width : (y+1)*width]
		for {
			if pos+2 > len(data) {
				return nil, fmt.Errorf("%w: row %d run header at %d", ErrCorruptRLE, y, pos)
			}
			head, x := data[pos], int(data[pos+1])
			count := int(head & rleCountMask)
			pos += 2
			if pos+count > len(data) || x+count > width {
				return nil, fmt.Errorf("%w: row %d run of %d at column %d", ErrCorruptRLE, y, count, x)
			}
			for i, b := range data[pos : pos+count] {
				row[x+i] = int16(b)
			}
			pos += count
			if head&rleLastRun != 0 {
				break
			}
		}
	}
	return out, nil
}

// EncodeRaw stores one byte per pixel. Raw payloads have no transparency
// sentinel, so Transparent becomes palette index 0.
func EncodeRaw(pixels []int16, width, height int) ([]byte, error) {
	if width < 0 || height < 0 || len(pixels) < width*height {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d", ErrPixelBuffer, len(pixels), width, height)
	}

	out := make([]byte, width*height)
	for i, p := range pixels[:width*height] {
		switch {
		case p == Transparent:
			out[i] = 0
		case p < 0 || p > 255:
			return nil, fmt.Errorf("%w: %d at pixel %d", ErrPixelValue, p, i)
		default:
			out[i] = byte(p)
		}
	}
	return out, nil
}

// DecodeRaw expands a raw payload. With transparentZero set, index 0 maps to
// Transparent, matching elements flagged FlagHasTransparency.
func DecodeRaw(data []byte, width, height int, transparentZero bool) ([]int16, error) {
	if width < 0 || height < 0 || len(data) < width*height {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrPixelBuffer, len(data), width, height)
	}

	out := make([]int16, width*height)
	for i, b := range data[:width*height] {
		if transparentZero && b == 0 {
			out[i] = Transparent
			continue
		}
		out[i] = int16(b)
	}
	return out, nil
}

// Decode expands an element payload according to its flags.
func Decode(e Element, data []byte) ([]int16, error) {
	w, h := int(e.Width), int(e.Height)
	if e.Flags.Has(FlagRLECompression) {
		return DecodeRLE(data, w, h)
	}
	return DecodeRaw(data, w, h, e.Flags.Has(FlagHasTransparency))
}
