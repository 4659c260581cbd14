package g1

import (
	"errors"
	"fmt"
)

// Container and codec errors.
var (
	ErrIO     = errors.New("sprite file I/O failed")
	ErrFormat = errors.New("malformed sprite file")

	ErrTruncatedHeader  = fmt.Errorf("%w: truncated header", ErrFormat)
	ErrTruncatedEntries = fmt.Errorf("%w: truncated element table", ErrFormat)
	ErrOffsetOutOfRange = fmt.Errorf("%w: element offset outside data", ErrFormat)
	ErrDataTooLarge     = fmt.Errorf("%w: data size too large", ErrFormat)

	ErrIndexOutOfRange   = errors.New("element index out of range")
	ErrPixelBuffer       = errors.New("pixel buffer smaller than image")
	ErrPixelValue        = errors.New("pixel value is not a palette index")
	ErrRowOffsetOverflow = errors.New("RLE row offset exceeds 16 bits")
	ErrCorruptRLE        = errors.New("corrupt RLE data")
	ErrMissingPayload    = errors.New("sized element has no payload")
)
