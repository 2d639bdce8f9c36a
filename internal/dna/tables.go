package dna

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/joshuapare/blendkit/internal/buf"
	"github.com/joshuapare/blendkit/internal/container"
	"github.com/joshuapare/blendkit/pkg/types"
)

// Table limits. A schema exceeding any of them is rejected.
const (
	MaxNames     = 1 << 16
	MaxTypes     = 1 << 14
	MaxStructs   = 1 << 13
	MaxMembers   = 1 << 12
	MaxArrayRank = 4
	MaxNesting   = 32
)

// NoStruct marks a type without a struct body (a primitive).
const NoStruct = -1

var (
	ErrTableSize  = errors.New("dna: table exceeds maximum size")
	ErrSectionTag = errors.New("dna: unexpected section tag")
	ErrNoStructs  = errors.New("dna: schema has no structs")
	ErrTruncated  = errors.New("dna: truncated schema")
	ErrArrayRank  = errors.New("dna: array rank exceeds maximum")
	ErrBadIndex   = errors.New("dna: index out of range")
	ErrNesting    = errors.New("dna: struct nesting too deep")
)

const (
	tagSDNA   = "SDNA"
	tagNames  = "NAME"
	tagTypes  = "TYPE"
	tagLens   = "TLEN"
	tagStruct = "STRC"
)

// TypeEntry is one type known to a schema.
type TypeEntry struct {
	Name   string
	Hash   uint32
	Size   int
	Struct int // struct table index, or NoStruct
}

// Member is one raw (type, name) pair of a struct definition.
type Member struct {
	Type int
	Name int
}

// StructDef is a struct definition as stored, before compilation.
type StructDef struct {
	Type    int
	Members []Member
}

// ReadOptions describe how the schema blob was written.
type ReadOptions struct {
	Order     binary.ByteOrder // data byte order; defaults to little endian
	BlobOrder binary.ByteOrder // byte order of the blob itself; defaults to Order
	PtrSize   int              // defaults to 8
	Sink      types.Sink       // defaults to types.Discard

	// BlobPtrSize is the pointer width the blob's declared struct sizes
	// assume; defaults to PtrSize. When it differs, struct sizes are
	// rescaled to PtrSize.
	BlobPtrSize int
}

// Tables is a read and compiled schema.
type Tables struct {
	Raw     []byte
	Order   binary.ByteOrder
	PtrSize int
	Names   []Name
	Types   []TypeEntry
	Defs    []StructDef
	Structs []Struct

	byName  *container.Table[string, int] // struct type name -> type index
	blobPtr int                           // pointer width the declared sizes assume
	sink    types.Sink
}

// Read parses and compiles a schema blob.
func Read(raw []byte, opts ReadOptions) (*Tables, error) {
	if opts.Order == nil {
		opts.Order = binary.LittleEndian
	}
	if opts.BlobOrder == nil {
		opts.BlobOrder = opts.Order
	}
	if opts.PtrSize == 0 {
		opts.PtrSize = 8
	}
	if opts.BlobPtrSize == 0 {
		opts.BlobPtrSize = opts.PtrSize
	}
	if opts.Sink == nil {
		opts.Sink = types.Discard
	}
	t := &Tables{
		Raw:     append([]byte(nil), raw...),
		Order:   opts.Order,
		PtrSize: opts.PtrSize,
		blobPtr: opts.BlobPtrSize,
		sink:    opts.Sink,
	}
	r := &cursor{b: t.Raw, order: opts.BlobOrder}
	if err := t.read(r); err != nil {
		return nil, err
	}
	if err := t.compile(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tables) read(r *cursor) error {
	if r.peekTag(tagSDNA) {
		r.pos += 4
	}

	// names
	if err := r.tag(tagNames); err != nil {
		return err
	}
	n, err := r.count(MaxNames)
	if err != nil {
		return fmt.Errorf("names: %w", err)
	}
	t.Names = make([]Name, n)
	for i := range t.Names {
		s, err := r.cstring()
		if err != nil {
			return fmt.Errorf("name %d: %w", i, err)
		}
		if t.Names[i], err = ParseName(s); err != nil {
			return err
		}
	}
	r.align()

	// types
	if err := r.tag(tagTypes); err != nil {
		return err
	}
	if n, err = r.count(MaxTypes); err != nil {
		return fmt.Errorf("types: %w", err)
	}
	t.Types = make([]TypeEntry, n)
	for i := range t.Types {
		s, err := r.cstring()
		if err != nil {
			return fmt.Errorf("type %d: %w", i, err)
		}
		t.Types[i] = TypeEntry{Name: s, Hash: container.StringHash(s), Struct: NoStruct}
	}
	r.align()

	// type lengths, one per type
	if err := r.tag(tagLens); err != nil {
		return err
	}
	for i := range t.Types {
		v, err := r.u16()
		if err != nil {
			return fmt.Errorf("type length %d: %w", i, err)
		}
		t.Types[i].Size = int(v)
	}
	r.align()

	// structs
	if err := r.tag(tagStruct); err != nil {
		return err
	}
	if n, err = r.count(MaxStructs); err != nil {
		return fmt.Errorf("structs: %w", err)
	}
	t.Defs = make([]StructDef, 0, n)
	t.byName = container.NewTable[string, int](container.StringHash, n)
	for i := 0; i < n; i++ {
		def, err := t.readStruct(r)
		if err != nil {
			return fmt.Errorf("struct %d: %w", i, err)
		}
		typ := &t.Types[def.Type]
		if typ.Struct == NoStruct {
			typ.Struct = i
		}
		// a second definition of the same type keeps the first mapping
		t.byName.Insert(typ.Name, def.Type)
		t.Defs = append(t.Defs, def)
	}
	if len(t.Defs) == 0 {
		return ErrNoStructs
	}
	return nil
}

func (t *Tables) readStruct(r *cursor) (StructDef, error) {
	typ, err := r.u16()
	if err != nil {
		return StructDef{}, err
	}
	cnt, err := r.u16()
	if err != nil {
		return StructDef{}, err
	}
	if int(typ) >= len(t.Types) {
		return StructDef{}, fmt.Errorf("type %d: %w", typ, ErrBadIndex)
	}
	if int(cnt) > MaxMembers {
		return StructDef{}, fmt.Errorf("%d members: %w", cnt, ErrTableSize)
	}
	def := StructDef{Type: int(typ), Members: make([]Member, cnt)}
	for j := range def.Members {
		mt, err := r.u16()
		if err != nil {
			return StructDef{}, err
		}
		mn, err := r.u16()
		if err != nil {
			return StructDef{}, err
		}
		if int(mt) >= len(t.Types) || int(mn) >= len(t.Names) {
			return StructDef{}, fmt.Errorf("member %d (%d, %d): %w", j, mt, mn, ErrBadIndex)
		}
		def.Members[j] = Member{Type: int(mt), Name: int(mn)}
	}
	return def, nil
}

// StructIndex returns the struct table index for a type name.
func (t *Tables) StructIndex(name string) (int, bool) {
	ti, ok := t.byName.Get(name)
	if !ok || t.Types[ti].Struct == NoStruct {
		return NoStruct, false
	}
	return t.Types[ti].Struct, true
}

// StructByName returns the compiled struct for a type name.
func (t *Tables) StructByName(name string) (*Struct, bool) {
	i, ok := t.StructIndex(name)
	if !ok {
		return nil, false
	}
	return &t.Structs[i], true
}

// TypeIndex returns the type table index for a type name.
func (t *Tables) TypeIndex(name string) (int, bool) {
	if ti, ok := t.byName.Get(name); ok {
		return ti, true
	}
	for i := range t.Types {
		if t.Types[i].Name == name {
			return i, true
		}
	}
	return NoStruct, false
}

// StructName returns the type name of s.
func (t *Tables) StructName(s *Struct) string { return t.Types[s.Type].Name }

// FieldName returns the decorated declaration of f, e.g. "*next".
func (t *Tables) FieldName(f *Field) string { return t.Names[f.Name].Raw }

// FieldPath returns the dotted path of f from its top-level struct.
func (t *Tables) FieldPath(s *Struct, f *Field) string {
	if len(f.Chain) == 0 {
		return t.Names[f.Name].Raw
	}
	path := ""
	for _, seg := range t.embeddedNames(f) {
		path += seg + "."
	}
	return path + t.Names[f.Name].Raw
}

// embeddedNames resolves the chain hashes of f back to base names.
func (t *Tables) embeddedNames(f *Field) []string {
	out := make([]string, 0, len(f.Chain))
	for _, k := range f.Chain {
		name := "?"
		for i := range t.Names {
			if t.Names[i].BaseHash == k.NameHash {
				name = t.Names[i].Base
				break
			}
		}
		if k.Index > 0 {
			name = fmt.Sprintf("%s[%d]", name, k.Index)
		}
		out = append(out, name)
	}
	return out
}

// MarkSkip flags the named struct so the relinker drops blocks of its type.
func (t *Tables) MarkSkip(name string) bool {
	s, ok := t.StructByName(name)
	if ok {
		s.Flags |= FlagSkip
	}
	return ok
}

func (t *Tables) report(sev types.Severity, stage types.Stage, structName, field, msg string) {
	t.sink.Report(types.Diagnostic{Severity: sev, Stage: stage, Struct: structName, Field: field, Message: msg})
}

// cursor walks a schema blob.
type cursor struct {
	b     []byte
	pos   int
	order binary.ByteOrder
}

func (r *cursor) peekTag(tag string) bool {
	return r.pos+4 <= len(r.b) && string(r.b[r.pos:r.pos+4]) == tag
}

func (r *cursor) tag(tag string) error {
	if r.pos+4 > len(r.b) {
		return fmt.Errorf("section %s: %w", tag, ErrTruncated)
	}
	if got := string(r.b[r.pos : r.pos+4]); got != tag {
		return fmt.Errorf("want %s, got %q: %w", tag, got, ErrSectionTag)
	}
	r.pos += 4
	return nil
}

func (r *cursor) count(limit int) (int, error) {
	if r.pos+4 > len(r.b) {
		return 0, ErrTruncated
	}
	n := buf.I32(r.b[r.pos:], r.order)
	r.pos += 4
	if n < 0 || int(n) > limit {
		return 0, fmt.Errorf("count %d: %w", n, ErrTableSize)
	}
	return int(n), nil
}

func (r *cursor) u16() (uint16, error) {
	if r.pos+2 > len(r.b) {
		return 0, ErrTruncated
	}
	v := buf.U16(r.b[r.pos:], r.order)
	r.pos += 2
	return v, nil
}

func (r *cursor) cstring() (string, error) {
	for i := r.pos; i < len(r.b); i++ {
		if r.b[i] == 0 {
			s := string(r.b[r.pos:i])
			r.pos = i + 1
			return s, nil
		}
	}
	return "", ErrTruncated
}

func (r *cursor) align() {
	r.pos = buf.Align(r.pos, 4)
}
