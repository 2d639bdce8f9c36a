package blend

import (
	"bytes"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/blendkit/internal/chunk"
	"github.com/joshuapare/blendkit/internal/dna"
	"github.com/joshuapare/blendkit/internal/format"
)

// File is a parsed and relinked file.
type File struct {
	ID     uuid.UUID // identifies this parse session in logs and reports
	Header format.Header
	// Lists holds relinked blocks grouped by the profile's list names, in
	// file order.
	Lists map[string][]*Block
	Stats Stats

	list    *chunk.List
	file    *dna.Tables
	mem     *dna.Tables
	profile Profile
}

func (f *File) route(b *Block, _ *dna.Struct) {
	name := f.profile.ListName(b.Code)
	f.Lists[name] = append(f.Lists[name], b)
}

// Blocks returns every block in file order, including dropped ones.
func (f *File) Blocks() []*Block { return f.list.Blocks() }

// List returns the relinked blocks routed to name, e.g. "objects".
func (f *File) List(name string) []*Block { return f.Lists[name] }

// Lookup finds a block by the address the producer stored it at.
func (f *File) Lookup(old uint64) (*Block, bool) { return f.list.Lookup(old) }

// Resolve maps a relinked pointer value to its block and the offset within
// the block's data.
func (f *File) Resolve(addr uint64) (*Block, int, bool) { return f.list.Resolve(addr) }

// FileSchema is the schema the file was written with.
func (f *File) FileSchema() *Schema { return f.file }

// MemorySchema is the schema blocks were relinked into.
func (f *File) MemorySchema() *Schema { return f.mem }

// Struct returns the memory struct of b, or nil for blobs and dropped blocks.
func (f *File) Struct(b *Block) *Struct {
	if b.Struct < 0 || b.Struct >= len(f.mem.Structs) || b.Modified {
		return nil
	}
	if f.file.StructName(&f.file.Structs[b.SDNA]) == f.profile.BlobType {
		return nil
	}
	return &f.mem.Structs[b.Struct]
}

// Field returns the bytes of the field at path (e.g. "id.name") in element
// elem of b.
func (f *File) Field(b *Block, path string, elem int) ([]byte, *Field, bool) {
	s := f.Struct(b)
	if s == nil || !b.Relinked() {
		return nil, nil, false
	}
	i, ok := s.FieldByPath(path)
	if !ok {
		return nil, nil, false
	}
	fd := &s.Fields[i]
	off := elem*s.Len + fd.Offset
	if elem < 0 || off+fd.Len > len(b.Data) {
		return nil, nil, false
	}
	return b.Data[off : off+fd.Len], fd, true
}

// Name returns the ID name of b ("id.name", or a top-level "name"), up to
// the first NUL. Bytes that are not valid UTF-8 are decoded as Windows-1252.
func (f *File) Name(b *Block) string {
	raw, _, ok := f.Field(b, "id.name", 0)
	if !ok {
		if raw, _, ok = f.Field(b, "name", 0); !ok {
			return ""
		}
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(s)
}
