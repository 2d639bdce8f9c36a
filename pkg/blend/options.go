package blend

import (
	"encoding/binary"

	"github.com/joshuapare/blendkit/internal/chunk"
	"github.com/joshuapare/blendkit/internal/dna"
	"github.com/joshuapare/blendkit/internal/relink"
	"github.com/joshuapare/blendkit/internal/stream"
	"github.com/joshuapare/blendkit/pkg/types"
)

// Re-exported for callers outside this module.
type (
	Block  = chunk.Block
	Schema = dna.Tables
	Struct = dna.Struct
	Field  = dna.Field
	Stats  = relink.Stats
)

// Mode selects the whole-file compression of a stream.
type Mode int

const (
	ModeAuto Mode = iota // detect on read, plain on write
	ModePlain
	ModeGzip
	ModeZstd
)

func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeGzip:
		return "gzip"
	case ModeZstd:
		return "zstd"
	default:
		return "auto"
	}
}

// ParseModeName maps "auto", "plain", "gzip" or "zstd" to a Mode.
func ParseModeName(s string) (Mode, bool) {
	for m := ModeAuto; m <= ModeZstd; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return ModeAuto, false
}

func (m Mode) compression() stream.Compression {
	switch m {
	case ModeGzip:
		return stream.CompressGzip
	case ModeZstd:
		return stream.CompressZstd
	default:
		return stream.CompressNone
	}
}

// Options control parsing. The zero value reads a file into its own schema
// for a little-endian reader with 8-byte pointers.
type Options struct {
	// MemorySchema is the schema blob describing the layout blocks are
	// relinked into. Nil uses the file's own schema.
	MemorySchema []byte

	// MemoryPtrSize is the pointer width of the memory layout. Default 8.
	MemoryPtrSize int

	// MemoryOrder is the byte order of the memory layout, and of
	// MemorySchema when given. Default little endian.
	MemoryOrder binary.ByteOrder

	// Profile configures producer-specific conventions. Nil means DefaultProfile.
	Profile *Profile

	// Sink receives diagnostics. Nil means types.DefaultSink.
	Sink types.Sink

	// MaxChunkSize bounds a single chunk payload. Zero means the chunk default.
	MaxChunkSize uint32

	// TrustDuplicates skips comparing chunks that repeat an old address.
	TrustDuplicates bool
}

func (o *Options) withDefaults() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.MemoryPtrSize == 0 {
		out.MemoryPtrSize = 8
	}
	if out.MemoryOrder == nil {
		out.MemoryOrder = binary.LittleEndian
	}
	if out.Profile == nil {
		p := DefaultProfile()
		out.Profile = &p
	}
	if out.Sink == nil {
		out.Sink = types.DefaultSink()
	}
	return out
}
