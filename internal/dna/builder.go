package dna

import (
	"encoding/binary"
	"fmt"

	"github.com/joshuapare/blendkit/internal/buf"
)

// Decl is one member declaration handed to Builder.Struct.
type Decl struct {
	Type string
	Name string
}

// M is shorthand for a member declaration.
func M(typ, name string) Decl { return Decl{Type: typ, Name: name} }

// primitives are declared first, in this order, by every Builder.
var primitives = []struct {
	name string
	size int
}{
	{"char", 1}, {"uchar", 1}, {"short", 2}, {"ushort", 2}, {"int", 4},
	{"long", 4}, {"ulong", 4}, {"float", 4}, {"double", 8},
	{"int64_t", 8}, {"uint64_t", 8}, {"void", 0},
}

type builtStruct struct {
	typ     int
	members []Member
}

// Builder assembles a schema blob from struct declarations. Struct sizes are
// computed from the members unless given explicitly.
type Builder struct {
	order   binary.ByteOrder
	ptrSize int
	names   []string
	nameIdx map[string]int
	types   []string
	sizes   []int
	typeIdx map[string]int
	structs []builtStruct
	err     error
}

// NewBuilder returns a builder for a schema with the given pointer size and
// byte order, with the primitive types already declared.
func NewBuilder(ptrSize int, order binary.ByteOrder) *Builder {
	b := &Builder{
		order:   order,
		ptrSize: ptrSize,
		nameIdx: make(map[string]int),
		typeIdx: make(map[string]int),
	}
	for _, p := range primitives {
		b.Type(p.name, p.size)
	}
	return b
}

// Type declares (or resizes) a type and returns its index.
func (b *Builder) Type(name string, size int) int {
	if i, ok := b.typeIdx[name]; ok {
		b.sizes[i] = size
		return i
	}
	b.typeIdx[name] = len(b.types)
	b.types = append(b.types, name)
	b.sizes = append(b.sizes, size)
	return len(b.types) - 1
}

// Struct declares a struct whose size is the sum of its member sizes.
func (b *Builder) Struct(name string, decls ...Decl) *Builder {
	return b.StructSized(name, -1, decls...)
}

// StructSized declares a struct with an explicit declared size; size < 0
// computes it from the members.
func (b *Builder) StructSized(name string, size int, decls ...Decl) *Builder {
	typ := b.Type(name, 0)
	computed := 0
	s := builtStruct{typ: typ}
	for _, d := range decls {
		n, err := ParseName(d.Name)
		if err != nil {
			b.setErr(err)
			continue
		}
		mt, known := b.typeIdx[d.Type]
		if !known {
			if n.Ptr == 0 {
				b.setErr(fmt.Errorf("struct %s: member %s has undeclared type %s", name, d.Name, d.Type))
			}
			mt = b.Type(d.Type, 0)
		}
		if n.Ptr > 0 {
			computed += b.ptrSize * n.Count
		} else {
			computed += b.sizes[mt] * n.Count
		}
		s.members = append(s.members, Member{Type: mt, Name: b.name(d.Name)})
	}
	if size < 0 {
		size = computed
	}
	b.sizes[typ] = size
	b.structs = append(b.structs, s)
	return b
}

// StructIndex returns the struct table index a declared struct will have,
// which is the value chunks of that type carry.
func (b *Builder) StructIndex(name string) (int, bool) {
	ti, ok := b.typeIdx[name]
	if !ok {
		return NoStruct, false
	}
	for i, s := range b.structs {
		if s.typ == ti {
			return i, true
		}
	}
	return NoStruct, false
}

// PtrSize returns the pointer width the builder sizes pointer members with.
func (b *Builder) PtrSize() int { return b.ptrSize }

func (b *Builder) name(raw string) int {
	if i, ok := b.nameIdx[raw]; ok {
		return i
	}
	b.nameIdx[raw] = len(b.names)
	b.names = append(b.names, raw)
	return len(b.names) - 1
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Bytes encodes the schema blob.
func (b *Builder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	defs := make([]StructDef, len(b.structs))
	for i, s := range b.structs {
		defs[i] = StructDef{Type: s.typ, Members: s.members}
	}
	return encode(b.order, b.names, b.types, b.sizes, defs), nil
}

// Encode renders t back into a schema blob in the given byte order.
func (t *Tables) Encode(order binary.ByteOrder) []byte {
	names := make([]string, len(t.Names))
	for i := range t.Names {
		names[i] = t.Names[i].Raw
	}
	typeNames := make([]string, len(t.Types))
	sizes := make([]int, len(t.Types))
	for i, ty := range t.Types {
		typeNames[i], sizes[i] = ty.Name, ty.Size
	}
	return encode(order, names, typeNames, sizes, t.Defs)
}

func encode(order binary.ByteOrder, names, typeNames []string, sizes []int, defs []StructDef) []byte {
	out := []byte(tagSDNA + tagNames)
	out = buf.AppendUint(out, 4, uint64(len(names)), order)
	for _, n := range names {
		out = append(append(out, n...), 0)
	}
	out = pad4(out)

	out = append(out, tagTypes...)
	out = buf.AppendUint(out, 4, uint64(len(typeNames)), order)
	for _, t := range typeNames {
		out = append(append(out, t...), 0)
	}
	out = pad4(out)

	out = append(out, tagLens...)
	for _, sz := range sizes {
		out = buf.AppendUint(out, 2, uint64(sz), order)
	}
	out = pad4(out)

	out = append(out, tagStruct...)
	out = buf.AppendUint(out, 4, uint64(len(defs)), order)
	for _, d := range defs {
		out = buf.AppendUint(out, 2, uint64(d.Type), order)
		out = buf.AppendUint(out, 2, uint64(len(d.Members)), order)
		for _, m := range d.Members {
			out = buf.AppendUint(out, 2, uint64(m.Type), order)
			out = buf.AppendUint(out, 2, uint64(m.Name), order)
		}
	}
	return out
}

// MustBytes is Bytes for fixtures known to be valid.
func (b *Builder) MustBytes() []byte {
	out, err := b.Bytes()
	if err != nil {
		panic(err)
	}
	return out
}

func pad4(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}
