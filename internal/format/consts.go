// Package format houses the low-level codec for the chunked container: the
// 12-byte file header, the fixed-size chunk headers in their 32/64-bit and
// byte-swapped shapes, and a writer producing the same layout. It is kept
// independent from the schema and relinking engines so that those can be
// exercised on synthetic buffers.
package format

const (
	// HeaderSize is the size of the file header in bytes.
	//
	//	Offset  Size  Description
	//	------  ----  ------------------------------------------
	//	 0x00    7    identifier, e.g. "BLENDER"
	//	 0x07    1    pointer width: '-' = 8 bytes, '_' = 4 bytes
	//	 0x08    1    byte order: 'v' = little, 'V' = big
	//	 0x09    3    ASCII version digits, e.g. "279"
	HeaderSize = 12

	IdentifierSize = 7
	VersionSize    = 3

	headerPtrOffset     = 7
	headerEndianOffset  = 8
	headerVersionOffset = 9

	PtrChar64    = '-'
	PtrChar32    = '_'
	EndianLittle = 'v'
	EndianBig    = 'V'

	// ChunkHeaderSize32 and ChunkHeaderSize64 are the chunk header sizes for
	// files written with 4- and 8-byte pointers.
	//
	//	Offset  Size  Description
	//	------  ----  ------------------------------------------
	//	 0x00    4    code (four characters, NUL padded)
	//	 0x04    4    payload length
	//	 0x08   4/8   old address (the producer's pointer value)
	//	 +0      4    type index into the file schema
	//	 +4      4    repeat count
	ChunkHeaderSize32 = 20
	ChunkHeaderSize64 = 24

	chunkCodeOffset = 0x00
	chunkLenOffset  = 0x04
	chunkOldOffset  = 0x08

	// InvalidLength is the all-bits-set length that marks a corrupt stream.
	InvalidLength = 0xFFFFFFFF
)

// DefaultIdentifiers are the header identifiers accepted when the caller
// does not configure any.
var DefaultIdentifiers = []string{"BLENDER"}

// Code is a four-character chunk code.
type Code [4]byte

// MakeCode builds a code from up to four characters, padding with NUL.
func MakeCode(s string) Code {
	var c Code
	copy(c[:], s)
	return c
}

// String returns the code with trailing NUL padding removed.
func (c Code) String() string {
	n := len(c)
	for n > 0 && c[n-1] == 0 {
		n--
	}
	return string(c[:n])
}

var (
	// CodeDNA marks the embedded schema payload.
	CodeDNA = MakeCode("DNA1")
	// CodeEnd terminates the chunk sequence; it carries no payload.
	CodeEnd = MakeCode("ENDB")
	// CodeData marks anonymous data blocks owned by an ID block.
	CodeData   = MakeCode("DATA")
	CodeRender = MakeCode("REND")
	CodeThumb  = MakeCode("TEST")
	CodeGlobal = MakeCode("GLOB")
)
