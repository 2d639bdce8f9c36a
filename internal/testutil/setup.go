// Package testutil builds synthetic container files for tests: a schema
// assembled with dna.Builder, chunks written with format.Writer, and
// helpers for laying out struct payloads.
package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/blendkit/internal/dna"
	"github.com/joshuapare/blendkit/internal/format"
)

// Version is the version string fixtures are stamped with.
const Version = "279"

type fixtureChunk struct {
	c       format.Chunk
	payload []byte
}

// Fixture assembles a container file in memory.
//
// Example:
//
//	fx := testutil.NewFixture(8, binary.LittleEndian)
//	fx.Schema.Struct("Node", dna.M("Node", "*next"), dna.M("int", "v"))
//	fx.Block("DATA", "Node", 0x1000, 1, payload)
//	data := fx.Bytes(t)
type Fixture struct {
	Header format.Header
	Schema *dna.Builder
	// SchemaFirst writes the schema chunk before the data chunks.
	SchemaFirst bool
	// NoEnd omits the terminating chunk.
	NoEnd bool

	chunks []fixtureChunk
}

// NewFixture returns a fixture with a BLENDER header of the given pointer
// width and byte order, and an empty schema of the same shape.
func NewFixture(ptrSize int, order binary.ByteOrder) *Fixture {
	return &Fixture{
		Header: format.Header{Identifier: "BLENDER", PtrSize: ptrSize, Order: order, Version: Version},
		Schema: dna.NewBuilder(ptrSize, order),
	}
}

// Chunk appends a raw chunk.
func (f *Fixture) Chunk(code string, old uint64, sdna, count int, payload []byte) *Fixture {
	f.chunks = append(f.chunks, fixtureChunk{
		c:       format.Chunk{Code: format.MakeCode(code), Old: old, SDNA: uint32(sdna), Count: uint32(count)},
		payload: payload,
	})
	return f
}

// Block appends a chunk whose type is the named schema struct. It panics if
// the struct was not declared.
func (f *Fixture) Block(code, structName string, old uint64, count int, payload []byte) *Fixture {
	si, ok := f.Schema.StructIndex(structName)
	if !ok {
		panic(fmt.Sprintf("testutil: struct %s not declared", structName))
	}
	return f.Chunk(code, old, si, count, payload)
}

// Bytes encodes the file.
func (f *Fixture) Bytes(t testing.TB) []byte {
	t.Helper()
	schema, err := f.Schema.Bytes()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var out bytes.Buffer
	w, err := format.NewWriter(&out, f.Header)
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	if f.SchemaFirst {
		if err := w.WriteChunk(format.Chunk{Code: format.CodeDNA}, schema); err != nil {
			t.Fatalf("schema chunk: %v", err)
		}
	}
	for _, c := range f.chunks {
		if err := w.WriteChunk(c.c, c.payload); err != nil {
			t.Fatalf("chunk %s: %v", c.c.Code, err)
		}
	}
	if !f.SchemaFirst {
		if err := w.WriteChunk(format.Chunk{Code: format.CodeDNA}, schema); err != nil {
			t.Fatalf("schema chunk: %v", err)
		}
	}
	if !f.NoEnd {
		if err := w.End(); err != nil {
			t.Fatalf("end chunk: %v", err)
		}
	}
	return out.Bytes()
}

// WriteFile encodes the file into a temporary directory and returns its path.
func (f *Fixture) WriteFile(t testing.TB, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, f.Bytes(t), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// Payload lays out struct bytes at explicit offsets.
type Payload struct {
	B       []byte
	Order   binary.ByteOrder
	PtrSize int
}

// NewPayload returns a zeroed payload of n bytes.
func NewPayload(n, ptrSize int, order binary.ByteOrder) *Payload {
	return &Payload{B: make([]byte, n), Order: order, PtrSize: ptrSize}
}

func (p *Payload) U16(off int, v uint16) *Payload {
	p.Order.PutUint16(p.B[off:], v)
	return p
}

func (p *Payload) U32(off int, v uint32) *Payload {
	p.Order.PutUint32(p.B[off:], v)
	return p
}

func (p *Payload) F32(off int, v float32) *Payload {
	return p.U32(off, math.Float32bits(v))
}

func (p *Payload) F64(off int, v float64) *Payload {
	p.Order.PutUint64(p.B[off:], math.Float64bits(v))
	return p
}

// Ptr writes an address with the payload's pointer width.
func (p *Payload) Ptr(off int, v uint64) *Payload {
	if p.PtrSize == 4 {
		return p.U32(off, uint32(v))
	}
	p.Order.PutUint64(p.B[off:], v)
	return p
}

// Str copies s (without terminator) to off.
func (p *Payload) Str(off int, s string) *Payload {
	copy(p.B[off:], s)
	return p
}

// Repeat returns n copies of the payload back to back.
func (p *Payload) Repeat(n int) []byte {
	return bytes.Repeat(p.B, n)
}
