package stream

import (
	"fmt"
	"io"
	"os"
	"slices"
)

// cursor is a read/write position over a byte slice.
type cursor struct {
	buf  []byte
	pos  int64
	mode Mode
	open bool
}

func (c *cursor) Read(p []byte) (int, error) {
	if !c.open {
		return 0, ErrNotOpen
	}
	if c.mode != ModeRead {
		return 0, ErrMode
	}
	if c.pos >= int64(len(c.buf)) {
		return 0, io.EOF
	}
	n := copy(p, c.buf[c.pos:])
	c.pos += int64(n)
	return n, nil
}

func (c *cursor) Write(p []byte) (int, error) {
	if !c.open {
		return 0, ErrNotOpen
	}
	if c.mode != ModeWrite {
		return 0, ErrMode
	}
	end := int(c.pos) + len(p)
	if old := len(c.buf); end > old {
		c.buf = slices.Grow(c.buf, end-old)[:end]
		if int(c.pos) > old {
			clear(c.buf[old:c.pos])
		}
	}
	copy(c.buf[c.pos:], p)
	c.pos = int64(end)
	return len(p), nil
}

func (c *cursor) Seek(off int64, whence int) (int64, error) {
	if !c.open {
		return 0, ErrNotOpen
	}
	pos, err := seekTo(c.pos, int64(len(c.buf)), off, whence)
	if err != nil {
		return c.pos, err
	}
	c.pos = pos
	return pos, nil
}

func (c *cursor) IsOpen() bool    { return c.open }
func (c *cursor) EOF() bool       { return c.pos >= int64(len(c.buf)) }
func (c *cursor) Position() int64 { return c.pos }
func (c *cursor) Size() int64     { return int64(len(c.buf)) }

func seekTo(cur, size, off int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = cur
	case io.SeekEnd:
		base = size
	default:
		return 0, fmt.Errorf("%w: whence %d", ErrSeek, whence)
	}
	if base+off < 0 {
		return 0, fmt.Errorf("%w: offset %d", ErrSeek, base+off)
	}
	return base + off, nil
}

// buffered keeps a whole stream in memory. In read mode the file is decoded
// on Open; in write mode the buffer is encoded to the file on Close.
type buffered struct {
	cursor
	path   string
	decode func(io.Reader) ([]byte, error)
	encode func(io.Writer, []byte) error
}

func (b *buffered) Open(path string, mode Mode) error {
	if b.open {
		return ErrAlreadyOpen
	}
	b.path, b.mode, b.pos, b.buf = path, mode, 0, nil
	if mode == ModeRead {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("stream: %w", err)
		}
		defer f.Close()
		if b.buf, err = b.decode(f); err != nil {
			return fmt.Errorf("stream: decode %s: %w", path, err)
		}
	}
	b.open = true
	return nil
}

func (b *buffered) Close() error {
	if !b.open {
		return nil
	}
	b.open = false
	if b.mode != ModeWrite || b.path == "" {
		return nil
	}
	f, err := os.Create(b.path)
	if err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	if err := b.encode(f, b.buf); err != nil {
		f.Close()
		return fmt.Errorf("stream: encode %s: %w", b.path, err)
	}
	return f.Close()
}

// Bytes returns the uncompressed contents.
func (b *buffered) Bytes() []byte { return b.buf }

// Memory is an uncompressed in-memory stream.
type Memory struct {
	buffered
}

// NewMemory returns a Memory stream already open for reading data.
func NewMemory(data []byte) *Memory {
	m := newMemory()
	m.buf, m.open = data, true
	return m
}

// NewMemoryWriter returns a Memory stream open for writing into an empty
// buffer that is never flushed to disk.
func NewMemoryWriter() *Memory {
	m := newMemory()
	m.mode, m.open = ModeWrite, true
	return m
}

func newMemory() *Memory {
	return &Memory{buffered{
		decode: io.ReadAll,
		encode: func(w io.Writer, b []byte) error {
			_, err := w.Write(b)
			return err
		},
	}}
}
