package g1

import (
	"fmt"
)

// Header is the on-disk container header.
type Header struct {
	NumEntries uint32
	TotalSize  uint32
}

// Container holds an ordered element table and the single data blob the
// elements point into. Elements are identified by position only.
//
// A container is either absolute, the in-memory form where element offsets
// are arena positions bound to this container, or relative, the serialized
// form where offsets are plain byte counts. Containers are not safe for
// concurrent use.
type Container struct {
	header   Header
	entries  []Element
	data     []byte
	absolute bool
}

// New returns an empty container in absolute form.
func New() *Container {
	return &Container{absolute: true}
}

// Header returns the container header.
func (c *Container) Header() Header {
	return c.header
}

// Len returns the number of elements.
func (c *Container) Len() int {
	return len(c.entries)
}

// Element returns element i.
func (c *Container) Element(i int) (Element, error) {
	if i < 0 || i >= len(c.entries) {
		return Element{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(c.entries))
	}
	return c.entries[i], nil
}

// Elements returns a copy of the element table.
func (c *Container) Elements() []Element {
	out := make([]Element, len(c.entries))
	copy(out, c.entries)
	return out
}

// Data returns the data blob. The slice is shared with the container.
func (c *Container) Data() []byte {
	return c.data
}

// ImageData returns the payload of element i, or nil for elements without
// one. The slice is shared with the container.
func (c *Container) ImageData(i int) ([]byte, error) {
	e, err := c.Element(i)
	if err != nil {
		return nil, err
	}
	if !e.Offset.IsSet() || e.Width <= 0 || e.Height <= 0 {
		return nil, nil
	}

	start := int(e.Offset.Pos())
	if start >= len(c.data) {
		return nil, fmt.Errorf("%w: element %d at %d, data is %d bytes", ErrOffsetOutOfRange, i, start, len(c.data))
	}
	size, err := e.DataSize(c.data[start:])
	if err != nil {
		return nil, fmt.Errorf("element %d: %w", i, err)
	}
	if start+size > len(c.data) {
		return nil, fmt.Errorf("%w: element %d needs %d bytes at %d", ErrOffsetOutOfRange, i, size, start)
	}
	return c.data[start : start+size], nil
}

// Image returns a detached copy of element i and its payload, with the
// element offset relative to the copied payload.
func (c *Container) Image(i int) (Image, error) {
	payload, err := c.ImageData(i)
	if err != nil {
		return Image{}, err
	}

	e := c.entries[i]
	if payload == nil {
		e.Offset = Offset{}
		return Image{Element: e}, nil
	}
	e.Offset = Relative(0)
	return Image{Element: e, Data: append([]byte(nil), payload...)}, nil
}

// Append adds an element whose payload is data and returns its index. The
// element's own offset is ignored; it is set to the position the payload
// lands at, or left unset when data is empty. Elements with a positive width
// and height must come with a payload. Append works the same whether the
// container is currently absolute or relative.
func (c *Container) Append(e Element, data []byte) (int, error) {
	if len(data) == 0 && e.Width > 0 && e.Height > 0 {
		return 0, fmt.Errorf("%w: %dx%d element", ErrMissingPayload, e.Width, e.Height)
	}
	if len(c.data)+len(data) > maxDataSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrDataTooLarge, len(c.data)+len(data))
	}

	e.Offset = Offset{}
	if len(data) > 0 {
		kind := OffsetRelative
		if c.absolute {
			kind = OffsetAbsolute
		}
		e.Offset = Offset{kind: kind, pos: uint32(len(c.data))}
		c.data = append(c.data, data...)
	}
	c.entries = append(c.entries, e)
	c.header.NumEntries = uint32(len(c.entries))
	c.header.TotalSize = uint32(len(c.data))
	return len(c.entries) - 1, nil
}

// AppendImage adds an imported image and returns its index.
func (c *Container) AppendImage(img Image) (int, error) {
	if !img.Element.Offset.IsSet() {
		return c.Append(img.Element, nil)
	}
	pos := img.Element.Offset.Pos()
	if int(pos) > len(img.Data) {
		return 0, fmt.Errorf("%w: image offset %d, data is %d bytes", ErrOffsetOutOfRange, pos, len(img.Data))
	}
	return c.Append(img.Element, img.Data[pos:])
}

// SetZoom points element i at a lower-detail sprite zoomedOffset entries
// back, or clears the link when zoomedOffset is zero.
func (c *Container) SetZoom(i int, zoomedOffset int16) error {
	if i < 0 || i >= len(c.entries) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(c.entries))
	}
	e := &c.entries[i]
	e.ZoomedOffset = zoomedOffset
	if zoomedOffset == 0 {
		e.Flags &^= FlagHasZoomSprite
	} else {
		e.Flags |= FlagHasZoomSprite
	}
	return nil
}

// IsAbsolute reports whether the container is in its in-memory form.
func (c *Container) IsAbsolute() bool {
	return c.absolute
}

// MakeRelative converts every element offset to its serialized form.
func (c *Container) MakeRelative() {
	if !c.absolute {
		return
	}
	for i := range c.entries {
		if c.entries[i].Offset.kind == OffsetAbsolute {
			c.entries[i].Offset.kind = OffsetRelative
		}
	}
	c.absolute = false
}

// MakeAbsolute binds every element offset to this container's arena.
func (c *Container) MakeAbsolute() {
	if c.absolute {
		return
	}
	for i := range c.entries {
		if c.entries[i].Offset.kind == OffsetRelative {
			c.entries[i].Offset.kind = OffsetAbsolute
		}
	}
	c.absolute = true
}

// withRelative runs fn with the container in relative form and restores the
// previous form afterwards, also when fn fails or panics.
func (c *Container) withRelative(fn func() error) error {
	if !c.absolute {
		return fn()
	}
	c.MakeRelative()
	defer c.MakeAbsolute()
	return fn()
}
