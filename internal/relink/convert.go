package relink

import (
	"encoding/binary"
	"math"

	"github.com/joshuapare/blendkit/internal/buf"
	"github.com/joshuapare/blendkit/internal/dna"
)

// Load reads one element of kind k. It reports false for kinds that are not
// numeric or when b is shorter than the kind's width.
func Load(b []byte, k dna.Kind, order binary.ByteOrder) (float64, bool) {
	if !k.IsNumeric() || len(b) < k.Width() {
		return 0, false
	}
	switch k {
	case dna.KindChar:
		return float64(int8(b[0])), true
	case dna.KindUChar:
		return float64(b[0]), true
	case dna.KindShort:
		return float64(int16(buf.U16(b, order))), true
	case dna.KindUShort:
		return float64(buf.U16(b, order)), true
	case dna.KindInt, dna.KindLong:
		return float64(buf.I32(b, order)), true
	case dna.KindULong:
		return float64(buf.U32(b, order)), true
	case dna.KindInt64:
		return float64(int64(buf.U64(b, order))), true
	case dna.KindUInt64:
		return float64(buf.U64(b, order)), true
	case dna.KindFloat:
		return float64(math.Float32frombits(buf.U32(b, order))), true
	case dna.KindDouble:
		return math.Float64frombits(buf.U64(b, order)), true
	}
	return 0, false
}

// Store writes v as one element of kind k. Integers truncate toward zero and
// saturate at the kind's range; NaN stores as zero.
func Store(b []byte, k dna.Kind, v float64, order binary.ByteOrder) bool {
	if !k.IsNumeric() || len(b) < k.Width() {
		return false
	}
	switch k {
	case dna.KindChar:
		b[0] = byte(int8(saturate(v, math.MinInt8, math.MaxInt8)))
	case dna.KindUChar:
		b[0] = uint8(saturate(v, 0, math.MaxUint8))
	case dna.KindShort:
		order.PutUint16(b, uint16(int16(saturate(v, math.MinInt16, math.MaxInt16))))
	case dna.KindUShort:
		order.PutUint16(b, uint16(saturate(v, 0, math.MaxUint16)))
	case dna.KindInt, dna.KindLong:
		order.PutUint32(b, uint32(int32(saturate(v, math.MinInt32, math.MaxInt32))))
	case dna.KindULong:
		order.PutUint32(b, uint32(saturate(v, 0, math.MaxUint32)))
	case dna.KindInt64:
		order.PutUint64(b, uint64(int64(saturate(v, math.MinInt64, math.MaxInt64))))
	case dna.KindUInt64:
		order.PutUint64(b, uint64(saturate(v, 0, math.MaxUint64)))
	case dna.KindFloat:
		order.PutUint32(b, math.Float32bits(float32(v)))
	case dna.KindDouble:
		order.PutUint64(b, math.Float64bits(v))
	}
	return true
}

// saturate truncates v and clamps it to [lo, hi]. The comparison against hi
// is made in float64, where the 64-bit bounds round up by one.
func saturate(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v <= lo:
		return lo
	case v >= hi:
		if hi >= math.MaxInt64 {
			return math.Nextafter(hi, 0)
		}
		return hi
	}
	return math.Trunc(v)
}

// Convert casts one element from src (kind sk, byte order so) into dst
// (kind dk, byte order do).
func Convert(dst []byte, dk dna.Kind, do binary.ByteOrder, src []byte, sk dna.Kind, so binary.ByteOrder) bool {
	v, ok := Load(src, sk, so)
	if !ok {
		return false
	}
	return Store(dst, dk, v, do)
}
