package format

import (
	"encoding/binary"
	"fmt"

	"github.com/joshuapare/blendkit/internal/buf"
)

// Chunk is the width-normalized chunk header. Old is the producer's pointer
// value for the payload; it identifies the block and is never dereferenced.
type Chunk struct {
	Code  Code
	Len   uint32
	Old   uint64
	SDNA  uint32
	Count uint32
}

// chunk32 and chunk64 are the two on-disk shapes before normalization.
type chunk32 struct {
	code  Code
	len   uint32
	old   uint32
	sdna  uint32
	count uint32
}

type chunk64 struct {
	code  Code
	len   uint32
	old   uint64
	sdna  uint32
	count uint32
}

// DecodeChunk reads a chunk header stored with filePtr-byte pointers in the
// given byte order and normalizes the old address for a reader whose own
// pointers are readerPtr bytes wide.
func DecodeChunk(b []byte, filePtr int, order binary.ByteOrder, readerPtr int) (Chunk, error) {
	switch filePtr {
	case 4:
		if len(b) < ChunkHeaderSize32 {
			return Chunk{}, fmt.Errorf("chunk header: %w", ErrTruncated)
		}
		var r chunk32
		copy(r.code[:], b[chunkCodeOffset:])
		r.len = order.Uint32(b[chunkLenOffset:])
		r.old = order.Uint32(b[chunkOldOffset:])
		r.sdna = order.Uint32(b[chunkOldOffset+4:])
		r.count = order.Uint32(b[chunkOldOffset+8:])
		return finish(Chunk{Code: r.code, Len: r.len, Old: WidenAddress(r.old), SDNA: r.sdna, Count: r.count})
	case 8:
		if len(b) < ChunkHeaderSize64 {
			return Chunk{}, fmt.Errorf("chunk header: %w", ErrTruncated)
		}
		var r chunk64
		copy(r.code[:], b[chunkCodeOffset:])
		r.len = order.Uint32(b[chunkLenOffset:])
		r.old = order.Uint64(b[chunkOldOffset:])
		r.sdna = order.Uint32(b[chunkOldOffset+8:])
		r.count = order.Uint32(b[chunkOldOffset+12:])
		old := r.old
		if readerPtr == 4 {
			old = NarrowAddress(r.old)
		}
		return finish(Chunk{Code: r.code, Len: r.len, Old: old, SDNA: r.sdna, Count: r.count})
	default:
		return Chunk{}, fmt.Errorf("chunk header width %d: %w", filePtr, ErrPointerSize)
	}
}

func finish(c Chunk) (Chunk, error) {
	if c.Len == InvalidLength {
		return c, fmt.Errorf("chunk %q: %w", c.Code, ErrInvalidLength)
	}
	return c, nil
}

// WidenAddress places a 32-bit stored address in the low half of a 64-bit identity.
func WidenAddress(v uint32) uint64 {
	return uint64(v)
}

// NarrowAddress reduces a 64-bit stored address to 32 bits, keeping
// whichever half is non-zero.
func NarrowAddress(v uint64) uint64 {
	if lo := uint32(v); lo != 0 {
		return uint64(lo)
	}
	return v >> 32
}

// AppendChunk appends the encoded header of c to dst.
func AppendChunk(dst []byte, c Chunk, ptr int, order binary.ByteOrder) []byte {
	dst = append(dst, c.Code[:]...)
	dst = buf.AppendUint(dst, 4, uint64(c.Len), order)
	if ptr == 4 {
		dst = buf.AppendUint(dst, 4, c.Old&0xFFFFFFFF, order)
	} else {
		dst = buf.AppendUint(dst, 8, c.Old, order)
	}
	dst = buf.AppendUint(dst, 4, uint64(c.SDNA), order)
	return buf.AppendUint(dst, 4, uint64(c.Count), order)
}
