package g1

import (
	"bytes"
	"encoding/binary"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// buildFile assembles raw sprite file bytes.
func buildFile(h Header, recs []record, blob []byte) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, h)
	binary.Write(buf, binary.LittleEndian, recs)
	buf.Write(blob)
	return buf.Bytes()
}

func sampleContainer(t *testing.T) *Container {
	t.Helper()
	c := New()
	a := rleImage(t, []int16{1, T, 3, 4}, 2, 2)
	a.Element.XOffset, a.Element.YOffset = -3, 7
	appendImage(t, c, a)
	appendElement(t, c, Element{}, nil)
	appendElement(t, c, Element{Offset: Relative(0), Width: 2, Height: 1, Flags: FlagHasTransparency}, []byte{0, 8})
	return c
}

func TestSaveOpenRoundTrip(t *testing.T) {
	c := sampleContainer(t)
	path := filepath.Join(t.TempDir(), "sprites.dat")
	require.NoError(t, c.Save(path))
	assert.True(t, c.IsAbsolute())

	loaded, err := Open(path)
	require.NoError(t, err)
	assert.True(t, loaded.IsAbsolute())
	assert.Equal(t, c.Header(), loaded.Header())
	assert.Equal(t, c.Elements(), loaded.Elements())
	assert.Equal(t, c.Data(), loaded.Data())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, headerSize+3*recordSize+len(c.Data()), len(raw))
}

func TestWriteToLayout(t *testing.T) {
	c := New()
	appendElement(t, c, Element{Width: 1, Height: 1, XOffset: 2, YOffset: -2, Flags: FlagHasTransparency}, []byte{42})

	var buf bytes.Buffer
	n, err := c.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(headerSize+recordSize+1), n)
	assert.Equal(t, []byte{
		1, 0, 0, 0, 1, 0, 0, 0,
		0, 0, 0, 0, 1, 0, 1, 0, 2, 0, 0xfe, 0xff, 1, 0, 0, 0,
		42,
	}, buf.Bytes())
}

// limitWriter fails once more than n bytes have been written.
type limitWriter struct {
	n int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		written := w.n
		w.n = 0
		return written, io.ErrShortWrite
	}
	w.n -= len(p)
	return len(p), nil
}

func TestWriteToFailureKeepsAbsolute(t *testing.T) {
	c := sampleContainer(t)
	before := c.Elements()

	_, err := c.WriteTo(&limitWriter{n: headerSize + 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.True(t, c.IsAbsolute())
	assert.Equal(t, before, c.Elements())
}

func TestWriteToFixedImage(t *testing.T) {
	c := sampleContainer(t)
	size := headerSize + c.Len()*recordSize + len(c.Data())

	rws := bytesextra.NewReadWriteSeeker(make([]byte, size))
	n, err := c.WriteTo(rws)
	require.NoError(t, err)
	assert.Equal(t, int64(size), n)

	_, err = rws.Seek(0, io.SeekStart)
	require.NoError(t, err)
	loaded, err := Read(rws)
	require.NoError(t, err)
	assert.Equal(t, c.Elements(), loaded.Elements())
	assert.Equal(t, c.Data(), loaded.Data())
}

func TestSaveToMissingDirectory(t *testing.T) {
	c := sampleContainer(t)
	err := c.Save(filepath.Join(t.TempDir(), "missing", "sprites.dat"))
	assert.ErrorIs(t, err, ErrIO)
	assert.True(t, c.IsAbsolute())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.dat"))
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReadMalformed(t *testing.T) {
	t.Run("truncated header", func(t *testing.T) {
		_, err := Read(bytes.NewReader([]byte{1, 0, 0}))
		assert.ErrorIs(t, err, ErrTruncatedHeader)
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("truncated entries", func(t *testing.T) {
		data := buildFile(Header{NumEntries: 2, TotalSize: 0}, []record{{Width: 1, Height: 1}}, nil)
		_, err := Read(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrTruncatedEntries)
	})

	t.Run("data too large", func(t *testing.T) {
		data := buildFile(Header{NumEntries: 0, TotalSize: maxDataSize + 1}, nil, nil)
		_, err := Read(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrDataTooLarge)
	})

	t.Run("offset out of range", func(t *testing.T) {
		data := buildFile(Header{NumEntries: 1, TotalSize: 4}, []record{{Offset: 4, Width: 2, Height: 2}}, []byte{1, 2, 3, 4})
		_, err := Read(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrOffsetOutOfRange)
	})
}

func TestReadShortBlobIsPadded(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	data := buildFile(Header{NumEntries: 1, TotalSize: 6}, []record{{Width: 2, Height: 3}}, []byte{1, 2, 3})

	c, err := Read(bytes.NewReader(data), WithLogger(zap.New(core)))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 0, 0, 0}, c.Data())
	assert.Equal(t, 1, logs.Len())

	e, err := c.Element(0)
	require.NoError(t, err)
	assert.Equal(t, OffsetAbsolute, e.Offset.Kind())
}

func TestReadTrailingBytesIgnored(t *testing.T) {
	data := buildFile(Header{NumEntries: 1, TotalSize: 2}, []record{{Width: 2, Height: 1}}, []byte{5, 6, 7, 8})
	c, err := Read(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 6}, c.Data())
}

func TestReadZeroSizeElementRoundTrip(t *testing.T) {
	data := buildFile(Header{NumEntries: 4, TotalSize: 4}, []record{
		{Offset: 0, Width: 2, Height: 2},
		{Offset: 3},
		{Offset: 99, Width: -1, Height: 2},
		{},
	}, []byte{1, 2, 3, 4})

	c, err := Read(bytes.NewReader(data))
	require.NoError(t, err)

	for i := 1; i < 4; i++ {
		e, err := c.Element(i)
		require.NoError(t, err)
		assert.True(t, e.IsEmpty(), "element %d", i)

		payload, err := c.ImageData(i)
		require.NoError(t, err)
		assert.Nil(t, payload, "element %d", i)
	}
	e, _ := c.Element(3)
	assert.False(t, e.Offset.IsSet())

	var buf bytes.Buffer
	_, err = c.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, data, buf.Bytes())
}

func TestSavedFilesReopen(t *testing.T) {
	c := New()
	appendElement(t, c, Element{Width: 3, Height: 0}, nil)
	appendElement(t, c, Element{Width: -2, Height: 5}, nil)
	_, err := c.Append(Element{Width: 1, Height: 1}, nil)
	require.ErrorIs(t, err, ErrMissingPayload)

	var buf bytes.Buffer
	_, err = c.WriteTo(&buf)
	require.NoError(t, err)

	loaded, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, c.Elements(), loaded.Elements())
}

func TestOpenSplit(t *testing.T) {
	dir := t.TempDir()
	recs := []record{
		{Offset: 0, Width: 2, Height: 1, Flags: uint16(FlagHasTransparency)},
		{Offset: 2, Width: 1, Height: 1},
	}
	var index bytes.Buffer
	require.NoError(t, binary.Write(&index, binary.LittleEndian, recs))
	index.Write([]byte{0xde, 0xad})

	indexPath := filepath.Join(dir, "sprites.idx")
	dataPath := filepath.Join(dir, "sprites.bin")
	require.NoError(t, os.WriteFile(indexPath, index.Bytes(), 0o644))
	require.NoError(t, os.WriteFile(dataPath, []byte{0, 4, 9}, 0o644))

	c, err := OpenSplit(indexPath, dataPath)
	require.NoError(t, err)
	assert.Equal(t, Header{NumEntries: 2, TotalSize: 3}, c.Header())

	got, err := c.ImageData(1)
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, got)
}
