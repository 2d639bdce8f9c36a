package format

import (
	"fmt"
	"io"
)

// Writer emits a container: the header followed by chunks.
type Writer struct {
	w      io.Writer
	head   Header
	hdrBuf []byte
	n      int64
}

// NewWriter writes h to w and returns a writer for the chunk sequence.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	if h.PtrSize != 4 && h.PtrSize != 8 {
		return nil, fmt.Errorf("writer: %w", ErrPointerSize)
	}
	cw := &Writer{w: w, head: h}
	if err := cw.write(h.Encode()); err != nil {
		return nil, err
	}
	return cw, nil
}

// WriteChunk writes a chunk header for payload followed by the payload.
// c.Len is set from len(payload).
func (w *Writer) WriteChunk(c Chunk, payload []byte) error {
	c.Len = uint32(len(payload))
	w.hdrBuf = AppendChunk(w.hdrBuf[:0], c, w.head.PtrSize, w.head.Order)
	if err := w.write(w.hdrBuf); err != nil {
		return err
	}
	return w.write(payload)
}

// End writes the terminating chunk.
func (w *Writer) End() error {
	return w.WriteChunk(Chunk{Code: CodeEnd}, nil)
}

// Written returns the number of bytes written so far.
func (w *Writer) Written() int64 { return w.n }

func (w *Writer) write(b []byte) error {
	n, err := w.w.Write(b)
	w.n += int64(n)
	if err != nil {
		return fmt.Errorf("writer: %w", err)
	}
	return nil
}
