package importer

import (
	"fmt"
	"image"
	"strings"
)

// PaletteMode selects how source pixels become palette indices.
type PaletteMode uint8

const (
	// RemapToPalette matches source colours against the engine palette.
	RemapToPalette PaletteMode = iota
	// KeepIndices copies the indices of an 8-bit source unchanged.
	KeepIndices
)

func (m PaletteMode) String() string {
	if m == KeepIndices {
		return "keep"
	}
	return "remap"
}

// Mode selects what happens to colours without an exact palette entry.
type Mode uint8

const (
	// ModeDefault drops colours that are not in the palette.
	ModeDefault Mode = iota
	// ModeClosest substitutes the nearest eligible entry.
	ModeClosest
	// ModeDithering substitutes the nearest entry and diffuses the error.
	ModeDithering
)

var modeNames = map[Mode]string{
	ModeDefault:   "default",
	ModeClosest:   "closest",
	ModeDithering: "dithering",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode parses a mode name. An empty name is ModeDefault.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ModeDefault, nil
	}
	for m, s := range modeNames {
		if s == name {
			return m, nil
		}
	}
	return ModeDefault, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Flags control encoding.
type Flags uint8

const (
	FlagRLE Flags = 1 << iota
	FlagNoDrawOnZoom
	// FlagForceRaw stores the payload uncompressed even when FlagRLE is set.
	FlagForceRaw
)

// Options describes one import.
type Options struct {
	// X and Y are the draw anchor stored in the element.
	X, Y int16

	// SrcOffset and SrcSize select the source rectangle. A zero size
	// component extends the rectangle to the bitmap edge.
	SrcOffset image.Point
	SrcSize   image.Point

	Palette PaletteMode
	Mode    Mode
	Flags   Flags

	// ZoomedOffset links the element to its lower-detail sprite.
	ZoomedOffset int16
}

func (o Options) rle() bool {
	return o.Flags&FlagRLE != 0 && o.Flags&FlagForceRaw == 0
}
