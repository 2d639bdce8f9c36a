package chunk

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/blendkit/internal/format"
	"github.com/joshuapare/blendkit/pkg/types"
)

// DefaultMaxChunkSize bounds a single payload allocation.
const DefaultMaxChunkSize = 1 << 30

// ScanOptions control Scan.
type ScanOptions struct {
	Identifiers     []string // accepted header identifiers; nil means format.DefaultIdentifiers
	ReaderPtr       int      // pointer width old addresses are normalized to; default 8
	MaxChunkSize    uint32   // larger payloads fail with StatusBadAlloc; default DefaultMaxChunkSize
	TrustDuplicates bool     // skip comparing payloads of chunks sharing an old address
	Sink            types.Sink
}

func (o *ScanOptions) defaults() {
	if o.ReaderPtr == 0 {
		o.ReaderPtr = 8
	}
	if o.MaxChunkSize == 0 {
		o.MaxChunkSize = DefaultMaxChunkSize
	}
	if o.Sink == nil {
		o.Sink = types.Discard
	}
}

// Scan reads the file header and then every chunk up to the end chunk.
func Scan(r io.Reader, opts ScanOptions) (*List, error) {
	opts.defaults()
	hb := make([]byte, format.HeaderSize)
	if _, err := io.ReadFull(r, hb); err != nil {
		return nil, fail(opts.Sink, types.StageHeader, types.StatusInvalidRead, 0, "read header", err)
	}
	h, err := format.ParseHeader(hb, opts.Identifiers)
	if err != nil {
		return nil, fail(opts.Sink, types.StageHeader, types.StatusInvalidHeader, 0, "parse header", err)
	}
	return ScanChunks(r, h, opts)
}

// ScanChunks reads chunks from r, which must be positioned just past the
// file header h.
//
// The schema chunk is kept aside in List.Schema. Chunks repeating an old
// address are collapsed; unless TrustDuplicates is set their payloads must
// match. A stream that ends cleanly on a chunk boundary without an end chunk
// is accepted with a warning.
func ScanChunks(r io.Reader, h format.Header, opts ScanOptions) (*List, error) {
	opts.defaults()
	l := NewList(h)
	hdr := make([]byte, h.ChunkHeaderSize())
	off := int64(format.HeaderSize)
	for {
		n, err := io.ReadFull(r, hdr)
		if n == 0 && errors.Is(err, io.EOF) {
			opts.Sink.Report(types.Diagnostic{
				Severity: types.SevWarning, Stage: types.StageChunks, Offset: off,
				Message: "stream ended without an end chunk",
			})
			return l, nil
		}
		if err != nil {
			return nil, fail(opts.Sink, types.StageChunks, types.StatusInvalidRead, off, "read chunk header", err)
		}
		c, err := format.DecodeChunk(hdr, h.PtrSize, h.Order, opts.ReaderPtr)
		if err != nil {
			status := types.StatusInvalidRead
			if errors.Is(err, format.ErrInvalidLength) {
				status = types.StatusInvalidLength
			}
			return nil, fail(opts.Sink, types.StageChunks, status, off, "decode chunk header", err)
		}
		if c.Code == format.CodeEnd {
			return l, nil
		}
		if c.Len > opts.MaxChunkSize {
			return nil, fail(opts.Sink, types.StageChunks, types.StatusBadAlloc, off,
				fmt.Sprintf("chunk %s payload of %d bytes exceeds limit %d", c.Code, c.Len, opts.MaxChunkSize), nil)
		}
		payload := make([]byte, c.Len)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fail(opts.Sink, types.StageChunks, types.StatusInvalidRead, off,
				fmt.Sprintf("read chunk %s payload", c.Code), err)
		}
		at := off
		off += int64(len(hdr)) + int64(c.Len)

		if c.Code == format.CodeDNA {
			if l.Schema != nil {
				opts.Sink.Report(types.Diagnostic{
					Severity: types.SevInfo, Stage: types.StageChunks, Offset: at,
					Message: "additional schema chunk ignored",
				})
				continue
			}
			l.Schema, l.SchemaOffset = payload, at
			continue
		}

		if prev, ok := l.Lookup(c.Old); ok {
			if !opts.TrustDuplicates && !bytes.Equal(prev.Raw, payload) {
				return nil, fail(opts.Sink, types.StageChunks, types.StatusInvalidRead, at,
					fmt.Sprintf("chunk %s at old address %#x differs from the chunk at offset %d", c.Code, c.Old, prev.Offset),
					ErrConflict)
			}
			opts.Sink.Report(types.Diagnostic{
				Severity: types.SevInfo, Stage: types.StageChunks, Offset: at,
				Message: fmt.Sprintf("duplicate chunk %s at old address %#x collapsed", c.Code, c.Old),
			})
			continue
		}
		b := &Block{Chunk: c, Offset: at, Raw: payload, Struct: NoStruct}
		if err := l.Add(b); err != nil {
			return nil, fail(opts.Sink, types.StageChunks, types.StatusInvalidInsert, at, "index chunk", err)
		}
	}
}

// fail reports a fatal condition to the sink and returns it as a typed error.
func fail(sink types.Sink, stage types.Stage, status types.Status, off int64, msg string, cause error) error {
	text := msg
	if cause != nil {
		text = msg + ": " + cause.Error()
	}
	sink.Report(types.Diagnostic{Severity: types.SevError, Stage: stage, Offset: off, Message: text})
	return types.Errorf(status, fmt.Sprintf("%s at offset %d", msg, off), cause)
}
