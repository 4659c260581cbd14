package g1

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

const (
	headerSize = 8
	recordSize = 16

	// maxDataSize rejects headers that cannot describe a real sprite file.
	maxDataSize = 1 << 30
)

// record is the fixed 16-byte on-disk element layout.
type record struct {
	Offset       uint32
	Width        int16
	Height       int16
	XOffset      int16
	YOffset      int16
	Flags        uint16
	ZoomedOffset int16
}

type options struct {
	log *zap.Logger
}

// Option configures Open, OpenSplit and Read.
type Option func(*options)

// WithLogger sets the logger that receives format diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open reads a sprite file. The returned container is absolute.
func Open(path string, opts ...Option) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	o := newOptions(opts)
	o.log = o.log.With(zap.String("path", path))
	return parse(data, o)
}

// Read reads a sprite file from r. The returned container is absolute.
func Read(r io.Reader, opts ...Option) (*Container, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return parse(data, newOptions(opts))
}

// OpenSplit reads a header-less sprite pair: an index file made only of
// element records and a data file holding the blob.
func OpenSplit(indexPath, dataPath string, opts ...Option) (*Container, error) {
	index, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	blob, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	o := newOptions(opts)
	o.log = o.log.With(zap.String("index", indexPath), zap.String("data", dataPath))
	if extra := len(index) % recordSize; extra != 0 {
		o.log.Warn("ignoring trailing bytes in sprite index", zap.Int("bytes", extra))
		index = index[:len(index)-extra]
	}
	if len(blob) > maxDataSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrDataTooLarge, len(blob))
	}

	h := Header{
		NumEntries: uint32(len(index) / recordSize),
		TotalSize:  uint32(len(blob)),
	}
	return build(h, index, blob, o)
}

func parse(data []byte, o options) (*Container, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedHeader, len(data))
	}

	var h Header
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedHeader, err)
	}
	if h.TotalSize > maxDataSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrDataTooLarge, h.TotalSize)
	}

	end := int64(headerSize) + int64(h.NumEntries)*recordSize
	if end > int64(len(data)) {
		return nil, fmt.Errorf("%w: %d entries need %d bytes, file has %d", ErrTruncatedEntries, h.NumEntries, end, len(data))
	}
	return build(h, data[headerSize:end], data[end:], o)
}

// build decodes element records and attaches the blob. A blob shorter than
// the header declares is zero-padded; element offsets must fall inside it.
func build(h Header, index, blob []byte, o options) (*Container, error) {
	recs := make([]record, h.NumEntries)
	if err := binary.Read(bytes.NewReader(index), binary.LittleEndian, recs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedEntries, err)
	}

	total := int(h.TotalSize)
	switch {
	case len(blob) < total:
		o.log.Warn("sprite data shorter than declared, padding with zeros",
			zap.Int("declared", total),
			zap.Int("actual", len(blob)))
		padded := make([]byte, total)
		copy(padded, blob)
		blob = padded
	case len(blob) > total:
		o.log.Debug("ignoring bytes after sprite data", zap.Int("bytes", len(blob)-total))
		blob = blob[:total]
	}

	c := &Container{
		header:  h,
		entries: make([]Element, len(recs)),
		data:    append([]byte(nil), blob...),
	}
	for i, r := range recs {
		e := Element{
			Width:        r.Width,
			Height:       r.Height,
			XOffset:      r.XOffset,
			YOffset:      r.YOffset,
			Flags:        Flags(r.Flags),
			ZoomedOffset: r.ZoomedOffset,
		}
		switch {
		case e.IsEmpty():
			// Nothing reads the payload; the offset is kept so it is
			// written back unchanged.
			if r.Offset != 0 {
				e.Offset = Relative(r.Offset)
			}
		case r.Offset >= h.TotalSize:
			return nil, fmt.Errorf("%w: element %d at %d, data is %d bytes", ErrOffsetOutOfRange, i, r.Offset, h.TotalSize)
		default:
			e.Offset = Relative(r.Offset)
		}
		c.entries[i] = e
	}

	c.MakeAbsolute()
	return c, nil
}

// Save writes the container to path.
func (c *Container) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrIO, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if _, err := c.WriteTo(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// WriteTo serializes the container: header, element records with
// blob-relative offsets, then the blob. The container keeps its form even if
// the write fails.
func (c *Container) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := c.withRelative(func() error {
		if err := binary.Write(cw, binary.LittleEndian, c.header); err != nil {
			return err
		}

		recs := make([]record, len(c.entries))
		for i, e := range c.entries {
			recs[i] = record{
				Offset:       e.Offset.Pos(),
				Width:        e.Width,
				Height:       e.Height,
				XOffset:      e.XOffset,
				YOffset:      e.YOffset,
				Flags:        uint16(e.Flags),
				ZoomedOffset: e.ZoomedOffset,
			}
		}
		if err := binary.Write(cw, binary.LittleEndian, recs); err != nil {
			return err
		}

		_, err := cw.Write(c.data)
		return err
	})
	if err != nil {
		return cw.n, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
