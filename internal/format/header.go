package format

import (
	"encoding/binary"
	"fmt"
)

// Header captures the 12-byte file header.
type Header struct {
	Identifier string
	PtrSize    int
	Order      binary.ByteOrder
	Version    string
}

// ParseHeader validates and extracts the file header. identifiers lists the
// accepted 7-byte identifiers; nil means DefaultIdentifiers.
func ParseHeader(b []byte, identifiers []string) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("header: %w", ErrTruncated)
	}
	if identifiers == nil {
		identifiers = DefaultIdentifiers
	}
	id := string(b[:IdentifierSize])
	known := false
	for _, want := range identifiers {
		if id == want {
			known = true
			break
		}
	}
	if !known {
		return Header{}, fmt.Errorf("header %q: %w", id, ErrBadIdentifier)
	}

	h := Header{Identifier: id, Version: string(b[headerVersionOffset : headerVersionOffset+VersionSize])}
	switch b[headerPtrOffset] {
	case PtrChar64:
		h.PtrSize = 8
	case PtrChar32:
		h.PtrSize = 4
	default:
		return Header{}, fmt.Errorf("header pointer marker %q: %w", b[headerPtrOffset], ErrBadHeader)
	}
	switch b[headerEndianOffset] {
	case EndianLittle:
		h.Order = binary.LittleEndian
	case EndianBig:
		h.Order = binary.BigEndian
	default:
		return Header{}, fmt.Errorf("header byte-order marker %q: %w", b[headerEndianOffset], ErrBadHeader)
	}
	for _, c := range []byte(h.Version) {
		if c < '0' || c > '9' {
			return Header{}, fmt.Errorf("header version %q: %w", h.Version, ErrBadHeader)
		}
	}
	return h, nil
}

// Encode renders the header into its 12-byte form.
func (h Header) Encode() []byte {
	b := make([]byte, HeaderSize)
	copy(b, h.Identifier)
	for i := len(h.Identifier); i < IdentifierSize; i++ {
		b[i] = ' '
	}
	b[headerPtrOffset] = PtrChar64
	if h.PtrSize == 4 {
		b[headerPtrOffset] = PtrChar32
	}
	b[headerEndianOffset] = EndianLittle
	if h.BigEndian() {
		b[headerEndianOffset] = EndianBig
	}
	copy(b[headerVersionOffset:], "000")
	copy(b[headerVersionOffset:], h.Version)
	return b
}

// BigEndian reports whether the header declares big-endian storage.
func (h Header) BigEndian() bool {
	return h.Order == binary.BigEndian
}

// ChunkHeaderSize returns the chunk header size implied by the pointer width.
func (h Header) ChunkHeaderSize() int {
	if h.PtrSize == 4 {
		return ChunkHeaderSize32
	}
	return ChunkHeaderSize64
}
