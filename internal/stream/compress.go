package stream

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Gzip is a whole-file gzip stream.
type Gzip struct {
	buffered
}

// NewGzip returns an unopened gzip stream.
func NewGzip() *Gzip {
	return &Gzip{buffered{decode: gunzip, encode: gzipEncode}}
}

// Zstd is a whole-file zstd stream.
type Zstd struct {
	buffered
}

// NewZstd returns an unopened zstd stream.
func NewZstd() *Zstd {
	return &Zstd{buffered{decode: unzstd, encode: zstdEncode}}
}

func gunzip(r io.Reader) ([]byte, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func gzipEncode(w io.Writer, b []byte) error {
	zw := gzip.NewWriter(w)
	if _, err := zw.Write(b); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func unzstd(r io.Reader) ([]byte, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func zstdEncode(w io.Writer, b []byte) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := zw.Write(b); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Decode unwraps an in-memory file.
func Decode(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressNone:
		return data, nil
	case CompressGzip:
		return gunzip(bytes.NewReader(data))
	case CompressZstd:
		return unzstd(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %d", ErrCompression, c)
	}
}

// Encode wraps data for writing.
func Encode(data []byte, c Compression) ([]byte, error) {
	var out bytes.Buffer
	var err error
	switch c {
	case CompressNone:
		return data, nil
	case CompressGzip:
		err = gzipEncode(&out, data)
	case CompressZstd:
		err = zstdEncode(&out, data)
	default:
		return nil, fmt.Errorf("%w: %d", ErrCompression, c)
	}
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
