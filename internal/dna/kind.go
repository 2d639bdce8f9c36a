package dna

import "github.com/joshuapare/blendkit/internal/container"

// Kind classifies a primitive type name.
type Kind uint8

const (
	KindChar Kind = iota
	KindUChar
	KindShort
	KindUShort
	KindInt
	KindLong
	KindULong
	KindInt64
	KindUInt64
	KindFloat
	KindDouble
	KindVoid
	KindUnknown
)

var kindNames = [...]string{
	KindChar:    "char",
	KindUChar:   "uchar",
	KindShort:   "short",
	KindUShort:  "ushort",
	KindInt:     "int",
	KindLong:    "long",
	KindULong:   "ulong",
	KindInt64:   "int64_t",
	KindUInt64:  "uint64_t",
	KindFloat:   "float",
	KindDouble:  "double",
	KindVoid:    "void",
	KindUnknown: "unknown",
}

var kindByHash = func() map[uint32]Kind {
	m := make(map[uint32]Kind, KindUnknown)
	for k := KindChar; k < KindUnknown; k++ {
		m[container.StringHash(kindNames[k])] = k
	}
	return m
}()

// Classify maps a type-name hash to its primitive kind. Struct types and
// anything else unrecognized yield KindUnknown.
func Classify(typeHash uint32) Kind {
	if k, ok := kindByHash[typeHash]; ok {
		return k
	}
	return KindUnknown
}

// IsInteger reports whether k is one of the integer kinds.
func (k Kind) IsInteger() bool { return k < KindFloat }

// IsFloat reports whether k is float or double.
func (k Kind) IsFloat() bool { return k == KindFloat || k == KindDouble }

// IsNumeric reports whether values of k can be converted through float64.
// 64-bit integers lose precision above 2^53 on that path.
func (k Kind) IsNumeric() bool { return k < KindVoid }

// IsSigned reports whether integer kind k sign-extends.
func (k Kind) IsSigned() bool {
	switch k {
	case KindChar, KindShort, KindInt, KindLong, KindInt64:
		return true
	}
	return false
}

// Width is the byte-swap width of k; 0 when the kind does not determine one.
func (k Kind) Width() int {
	switch k {
	case KindChar, KindUChar:
		return 1
	case KindShort, KindUShort:
		return 2
	case KindInt, KindLong, KindULong, KindFloat:
		return 4
	case KindDouble, KindInt64, KindUInt64:
		return 8
	}
	return 0
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}
