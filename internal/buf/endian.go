// Package buf contains helpers for endian-safe decoding routines.
package buf

import "encoding/binary"

// U16 reads a uint16 from b in the given byte order. Returns 0 when b is too short.
func U16(b []byte, order binary.ByteOrder) uint16 {
	if len(b) < 2 {
		return 0
	}
	return order.Uint16(b)
}

// U32 reads a uint32 from b in the given byte order. Returns 0 when b is too short.
func U32(b []byte, order binary.ByteOrder) uint32 {
	if len(b) < 4 {
		return 0
	}
	return order.Uint32(b)
}

// U64 reads a uint64 from b in the given byte order. Returns 0 when b is too short.
func U64(b []byte, order binary.ByteOrder) uint64 {
	if len(b) < 8 {
		return 0
	}
	return order.Uint64(b)
}

// I32 reads an int32 from b in the given byte order. Returns 0 when b is too short.
func I32(b []byte, order binary.ByteOrder) int32 {
	return int32(U32(b, order))
}

// Uint reads an unsigned integer of width 1, 2, 4 or 8 bytes.
// Any other width, or a short buffer, yields 0.
func Uint(b []byte, width int, order binary.ByteOrder) uint64 {
	if len(b) < width {
		return 0
	}
	switch width {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(order.Uint16(b))
	case 4:
		return uint64(order.Uint32(b))
	case 8:
		return order.Uint64(b)
	}
	return 0
}

// PutUint writes v as an unsigned integer of width 1, 2, 4 or 8 bytes.
// Higher bits that do not fit the width are dropped.
func PutUint(b []byte, width int, v uint64, order binary.ByteOrder) {
	if len(b) < width {
		return
	}
	switch width {
	case 1:
		b[0] = byte(v)
	case 2:
		order.PutUint16(b, uint16(v))
	case 4:
		order.PutUint32(b, uint32(v))
	case 8:
		order.PutUint64(b, v)
	}
}

// AppendUint appends v as an unsigned integer of width 1, 2, 4 or 8 bytes.
// It works with any binary.ByteOrder, not only the AppendByteOrder ones.
func AppendUint(dst []byte, width int, v uint64, order binary.ByteOrder) []byte {
	switch width {
	case 1, 2, 4, 8:
	default:
		return dst
	}
	var scratch [8]byte
	PutUint(scratch[:width], width, v, order)
	return append(dst, scratch[:width]...)
}

// Swap reverses the byte order of each width-sized element of b in place.
// Widths other than 2, 4 and 8 leave b untouched.
func Swap(b []byte, width int) {
	switch width {
	case 2, 4, 8:
	default:
		return
	}
	for off := 0; off+width <= len(b); off += width {
		e := b[off : off+width]
		for i, j := 0, width-1; i < j; i, j = i+1, j-1 {
			e[i], e[j] = e[j], e[i]
		}
	}
}

// SameOrder reports whether a and b decode bytes identically.
func SameOrder(a, b binary.ByteOrder) bool {
	return a.Uint16([]byte{1, 0}) == b.Uint16([]byte{1, 0})
}
