package dna

import (
	"strings"

	"github.com/joshuapare/blendkit/internal/container"
)

// Flags record compile and link outcomes on a struct or field.
type Flags uint8

const (
	FlagCanLink    Flags = 1 << iota // a counterpart exists in the other schema
	FlagMissing                      // no counterpart; destination stays zero
	FlagMisaligned                   // member lengths do not add up to the declared size
	FlagSkip                         // the embedding application asked to drop this type
	FlagNeedsCast                    // counterpart has a different numeric kind
)

// NoLink marks an unset cross-schema reference.
const NoLink = -1

func (f Flags) Has(x Flags) bool { return f&x != 0 }

func (f Flags) String() string {
	var parts []string
	for _, p := range []struct {
		flag Flags
		name string
	}{
		{FlagCanLink, "link"},
		{FlagMissing, "missing"},
		{FlagMisaligned, "misaligned"},
		{FlagSkip, "skip"},
		{FlagNeedsCast, "cast"},
	} {
		if f.Has(p.flag) {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "|")
}

// KeyLink is one step of the path from a top-level struct down to a member
// embedded by value: the embedded member's type hash, base-name hash, and
// repeat index when the embedded member is an array of structs.
type KeyLink struct {
	TypeHash uint32
	NameHash uint32
	Index    int
}

// Field is one flattened leaf member of a compiled struct.
type Field struct {
	Type       int // type table index
	Name       int // name table index
	TypeHash   uint32
	NameHash   uint32 // base-name hash
	Offset     int    // byte offset from the start of the top-level struct
	Len        int    // element size * ArrayLen
	ArrayLen   int
	ArrayIndex int // repeat index of the innermost embedding array
	Depth      int // 1 for direct members
	Ptr        int
	FuncPtr    bool
	Chain      []KeyLink
	Flags      Flags
	Link       int // index into the linked struct's Fields, or NoLink
}

// ElemLen returns the size of one array element.
func (f *Field) ElemLen() int {
	if f.ArrayLen <= 0 {
		return f.Len
	}
	return f.Len / f.ArrayLen
}

// Kind classifies the field's type.
func (f *Field) Kind() Kind { return Classify(f.TypeHash) }

// Struct is one compiled struct definition.
type Struct struct {
	Index    int // position in the struct table
	Type     int
	TypeHash uint32
	Len      int // declared size
	Flags    Flags
	Fields   []Field
	Link     int // index into the other schema's Structs, or NoLink
}

// Linked reports whether s has a counterpart in the other schema.
func (s *Struct) Linked() bool { return s.Link != NoLink }

// FieldByPath finds a field by dotted base names, e.g. "id.name".
// Embedded arrays of structs resolve to their first element.
func (s *Struct) FieldByPath(path string) (int, bool) {
	parts := strings.Split(path, ".")
	want := make([]uint32, len(parts))
	for i, p := range parts {
		want[i] = container.StringHash(p)
	}
	leaf, chain := want[len(want)-1], want[:len(want)-1]
outer:
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.NameHash != leaf || len(f.Chain) != len(chain) {
			continue
		}
		for j, k := range f.Chain {
			if k.NameHash != chain[j] || k.Index != 0 {
				continue outer
			}
		}
		return i, true
	}
	return NoLink, false
}

func sameChain(a, b []KeyLink) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
