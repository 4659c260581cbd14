// Package g1 implements the G1 sprite container: a header, a table of fixed
// size element records and one contiguous data blob, together with the
// run-length scanline codec used for the element payloads.
package g1

import (
	"encoding/binary"
	"fmt"
)

// Flags describe how an element's payload is stored and drawn.
type Flags uint16

// Element flags.
const (
	FlagHasTransparency Flags = 1 << 0
	FlagRLECompression  Flags = 1 << 2
	FlagPalette         Flags = 1 << 3
	FlagHasZoomSprite   Flags = 1 << 4
	FlagNoZoomDraw      Flags = 1 << 5
)

// Has reports whether all bits in f are set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

// OffsetKind tags how an Offset value must be read.
type OffsetKind uint8

// Offset kinds.
const (
	// OffsetUnset marks an element without payload.
	OffsetUnset OffsetKind = iota

	// OffsetRelative is a byte count from the start of a data blob, as
	// stored on disk.
	OffsetRelative

	// OffsetAbsolute is a position inside the owning container's arena and
	// is only meaningful together with that container.
	OffsetAbsolute
)

// String returns the kind name.
func (k OffsetKind) String() string {
	switch k {
	case OffsetUnset:
		return "unset"
	case OffsetRelative:
		return "relative"
	case OffsetAbsolute:
		return "absolute"
	default:
		return fmt.Sprintf("OffsetKind(%d)", uint8(k))
	}
}

// Offset locates an element payload.
type Offset struct {
	kind OffsetKind
	pos  uint32
}

// Relative returns a blob-relative offset.
func Relative(pos uint32) Offset {
	return Offset{kind: OffsetRelative, pos: pos}
}

// Kind returns the offset tag.
func (o Offset) Kind() OffsetKind {
	return o.kind
}

// Pos returns the byte position. It is zero for unset offsets.
func (o Offset) Pos() uint32 {
	return o.pos
}

// IsSet reports whether the offset points at a payload.
func (o Offset) IsSet() bool {
	return o.kind != OffsetUnset
}

// String formats the offset for diagnostics.
func (o Offset) String() string {
	if o.kind == OffsetUnset {
		return "unset"
	}
	return fmt.Sprintf("%s:%d", o.kind, o.pos)
}

// Element describes one sprite.
type Element struct {
	Offset       Offset
	Width        int16
	Height       int16
	XOffset      int16
	YOffset      int16
	Flags        Flags
	ZoomedOffset int16
}

// IsEmpty reports whether the element has nothing to draw. Legacy files keep
// whatever offset such records were written with.
func (e Element) IsEmpty() bool {
	return e.Width <= 0 || e.Height <= 0
}

// ZoomIndex returns the index of the next lower-detail sprite for the element
// stored at index, if it has one. The same rule applies to legacy files and to
// tables built here: zoomIndex = index - ZoomedOffset.
func (e Element) ZoomIndex(index int) (int, bool) {
	if !e.Flags.Has(FlagHasZoomSprite) || e.ZoomedOffset == 0 {
		return 0, false
	}
	return index - int(e.ZoomedOffset), true
}

// DataSize returns the payload length of the element, reading the payload
// that starts at data[0] when the size is only discoverable by walking the
// RLE runs of the last row.
func (e Element) DataSize(data []byte) (int, error) {
	if !e.Offset.IsSet() || e.Width <= 0 || e.Height <= 0 {
		return 0, nil
	}

	switch {
	case e.Flags.Has(FlagPalette):
		return int(e.Width) * 3, nil
	case e.Flags.Has(FlagRLECompression):
		idx := (int(e.Height) - 1) * 2
		if idx+2 > len(data) {
			return 0, fmt.Errorf("%w: row table truncated", ErrCorruptRLE)
		}
		pos := int(binary.LittleEndian.Uint16(data[idx:]))
		for {
			if pos+2 > len(data) {
				return 0, fmt.Errorf("%w: run header beyond payload", ErrCorruptRLE)
			}
			head := data[pos]
			pos += 2 + int(head&rleCountMask)
			if head&rleLastRun != 0 {
				break
			}
		}
		if pos > len(data) {
			return 0, fmt.Errorf("%w: run pixels beyond payload", ErrCorruptRLE)
		}
		return pos, nil
	default:
		return int(e.Width) * int(e.Height), nil
	}
}

// Image is one encoded sprite: its element and the payload the element's
// offset refers to. Image.Element.Offset is relative to the start of Data.
type Image struct {
	Element Element
	Data    []byte
}
