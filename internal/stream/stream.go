// Package stream provides the byte streams the chunk reader consumes and the
// file writer produces: plain files (memory-mapped for reading where the
// platform allows), in-memory buffers, and whole-file gzip or zstd
// compression.
package stream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// Mode selects whether a stream is opened for reading or writing.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
)

func (m Mode) String() string {
	if m == ModeWrite {
		return "write"
	}
	return "read"
}

var (
	ErrNotOpen     = errors.New("stream: not open")
	ErrAlreadyOpen = errors.New("stream: already open")
	ErrMode        = errors.New("stream: operation not permitted in this mode")
	ErrSeek        = errors.New("stream: invalid seek")
	ErrCompression = errors.New("stream: unknown compression")
)

// Stream is the byte stream contract. Read, Write and Seek follow the io
// interfaces; Position and Size are in uncompressed bytes.
type Stream interface {
	io.ReadWriteSeeker
	io.Closer
	Open(path string, mode Mode) error
	IsOpen() bool
	EOF() bool
	Position() int64
	Size() int64
}

// Compression identifies how a file's bytes are wrapped.
type Compression int

const (
	CompressUnknown Compression = iota
	CompressNone
	CompressGzip
	CompressZstd
)

func (c Compression) String() string {
	switch c {
	case CompressNone:
		return "none"
	case CompressGzip:
		return "gzip"
	case CompressZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// PrefixLen is the number of leading bytes Detect needs to tell every
// supported wrapping apart from a plain header.
const PrefixLen = 12

// Detect classifies a file from its first bytes. magic is the expected
// start of an uncompressed file, e.g. the header identifier.
func Detect(prefix, magic []byte) Compression {
	switch {
	case len(magic) > 0 && bytes.HasPrefix(prefix, magic):
		return CompressNone
	case bytes.HasPrefix(prefix, gzipMagic):
		return CompressGzip
	case bytes.HasPrefix(prefix, zstdMagic):
		return CompressZstd
	default:
		return CompressUnknown
	}
}

// DetectFile reads the first PrefixLen bytes of path and classifies them.
func DetectFile(path string, magic []byte) (Compression, error) {
	f, err := os.Open(path)
	if err != nil {
		return CompressUnknown, fmt.Errorf("stream: %w", err)
	}
	defer f.Close()
	prefix := make([]byte, PrefixLen)
	n, err := io.ReadFull(f, prefix)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return CompressUnknown, fmt.Errorf("stream: %w", err)
	}
	return Detect(prefix[:n], magic), nil
}

// New returns an unopened stream for the given compression.
func New(c Compression) (Stream, error) {
	switch c {
	case CompressNone:
		return &File{}, nil
	case CompressGzip:
		return NewGzip(), nil
	case CompressZstd:
		return NewZstd(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrCompression, c)
	}
}

// Open returns a stream for path opened in mode.
func Open(path string, mode Mode, c Compression) (Stream, error) {
	s, err := New(c)
	if err != nil {
		return nil, err
	}
	if err := s.Open(path, mode); err != nil {
		return nil, err
	}
	return s, nil
}
