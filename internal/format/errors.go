package format

import "errors"

var (
	// ErrBadIdentifier indicates the header identifier is not recognized.
	ErrBadIdentifier = errors.New("format: unrecognized header identifier")
	// ErrBadHeader indicates an unknown pointer-width or byte-order marker.
	ErrBadHeader = errors.New("format: malformed header")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrInvalidLength indicates a chunk declared the sentinel length.
	ErrInvalidLength = errors.New("format: invalid chunk length")
	// ErrPointerSize indicates a pointer width other than 4 or 8.
	ErrPointerSize = errors.New("format: unsupported pointer size")
)
