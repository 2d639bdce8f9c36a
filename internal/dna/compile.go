package dna

import (
	"fmt"
	"slices"

	"github.com/joshuapare/blendkit/internal/container"
	"github.com/joshuapare/blendkit/pkg/types"
)

// compiler flattens struct definitions. The chain stack and field buffer are
// reused across structs.
type compiler struct {
	t      *Tables
	chain  *container.Array[KeyLink]
	fields *container.Array[Field]
	ptrs   int // pointer slots laid out in the current struct
}

// compile builds one Struct per struct definition, in definition order.
func (t *Tables) compile() error {
	t.Structs = make([]Struct, len(t.Defs))
	c := &compiler{
		t:      t,
		chain:  container.NewArray[KeyLink](MaxNesting),
		fields: container.NewArray[Field](64),
	}
	for i, def := range t.Defs {
		typ := &t.Types[def.Type]
		s := &t.Structs[i]
		*s = Struct{Index: i, Type: def.Type, TypeHash: typ.Hash, Len: typ.Size, Link: NoLink}

		c.fields.Clear()
		c.ptrs = 0
		end, err := c.members(def, 0, 1, 0)
		if err != nil {
			return fmt.Errorf("struct %s: %w", typ.Name, err)
		}
		s.Fields = slices.Clone(c.fields.Slice())

		// The declared size holds for blobPtr-wide pointers.
		grow := c.ptrs * (t.PtrSize - t.blobPtr)
		if native := end - grow; native != typ.Size {
			s.Flags |= FlagMisaligned
			t.report(types.SevWarning, types.StageCompile, typ.Name, "",
				fmt.Sprintf("struct misaligned: members cover %d bytes, declared %d", native, typ.Size))
		}
		s.Len = typ.Size + grow
	}
	// Rescaled sizes are written back so Encode describes this layout.
	for i := range t.Structs {
		t.Types[t.Structs[i].Type].Size = t.Structs[i].Len
	}
	return nil
}

// members appends the leaves of def starting at offset and returns the
// offset just past the last member.
func (c *compiler) members(def StructDef, offset, depth, index int) (int, error) {
	if depth > MaxNesting {
		return offset, ErrNesting
	}
	for _, m := range def.Members {
		typ := &c.t.Types[m.Type]
		name := &c.t.Names[m.Name]

		if name.Ptr == 0 && typ.Struct != NoStruct {
			for r := 0; r < name.Count; r++ {
				c.chain.Push(KeyLink{TypeHash: typ.Hash, NameHash: name.BaseHash, Index: r})
				end, err := c.members(c.t.Defs[typ.Struct], offset, depth+1, r)
				c.chain.Pop()
				if err != nil {
					return end, err
				}
				offset = end
			}
			continue
		}

		size := typ.Size
		if name.Ptr > 0 {
			size = c.t.PtrSize
			c.ptrs += name.Count
		}
		n := size * name.Count
		c.fields.Push(Field{
			Type:       m.Type,
			Name:       m.Name,
			TypeHash:   typ.Hash,
			NameHash:   name.BaseHash,
			Offset:     offset,
			Len:        n,
			ArrayLen:   name.Count,
			ArrayIndex: index,
			Depth:      depth,
			Ptr:        name.Ptr,
			FuncPtr:    name.FuncPtr,
			Chain:      slices.Clone(c.chain.Slice()),
			Link:       NoLink,
		})
		offset += n
	}
	return offset, nil
}
