package dna

import (
	"errors"
	"fmt"

	"github.com/joshuapare/blendkit/pkg/types"
)

// ErrNotCompiled indicates Link was handed a nil schema.
var ErrNotCompiled = errors.New("dna: schema not compiled")

// Link pairs every struct and field of mem (the layout the program expects)
// with its counterpart in file (the layout the data was written with).
//
// A memory struct without a same-named file struct is flagged missing along
// with all its fields. Fields are matched on base name, nesting depth, array
// repeat index and key chain; among candidates an identical type wins, then
// an integer of another width, then any numeric type (flagged for a cast).
// Pointer fields only ever match identical pointer declarations. Unmatched
// fields are flagged missing and stay zero after relinking.
func Link(mem, file *Tables) error {
	if mem == nil || file == nil {
		return ErrNotCompiled
	}
	for i := range mem.Structs {
		ms := &mem.Structs[i]
		name := mem.StructName(ms)
		fi, ok := file.StructIndex(name)
		if !ok {
			ms.Flags |= FlagMissing
			for j := range ms.Fields {
				ms.Fields[j].Flags |= FlagMissing
			}
			mem.report(types.SevInfo, types.StageLink, name, "", "struct not present in file schema")
			continue
		}
		fs := &file.Structs[fi]
		ms.Link = fi
		ms.Flags |= FlagCanLink
		if fs.Link == NoLink {
			fs.Link = i
			fs.Flags |= FlagCanLink
		}
		missing := linkFields(ms, fs)
		if missing > 0 {
			mem.report(types.SevInfo, types.StageLink, name, "",
				fmt.Sprintf("%d of %d fields not present in file schema", missing, len(ms.Fields)))
		}
	}
	return nil
}

// linkFields matches the fields of ms against fs and returns how many found
// no counterpart.
func linkFields(ms, fs *Struct) int {
	missing := 0
	for mi := range ms.Fields {
		m := &ms.Fields[mi]
		best, cast := NoLink, false
		for fi := range fs.Fields {
			f := &fs.Fields[fi]
			if f.NameHash != m.NameHash || f.Depth != m.Depth || f.ArrayIndex != m.ArrayIndex || !sameChain(f.Chain, m.Chain) {
				continue
			}
			if f.TypeHash == m.TypeHash && f.Ptr == m.Ptr {
				best, cast = fi, false
				break
			}
			// an integer counterpart outranks a numeric cast found earlier
			if (best != NoLink && !cast) || m.Ptr != 0 || f.Ptr != 0 {
				continue
			}
			mk, fk := Classify(m.TypeHash), Classify(f.TypeHash)
			switch {
			case mk.IsInteger() && fk.IsInteger():
				best, cast = fi, false
			case best == NoLink && mk.IsNumeric() && fk.IsNumeric():
				best, cast = fi, true
			}
		}
		if best == NoLink {
			m.Flags |= FlagMissing
			missing++
			continue
		}
		f := &fs.Fields[best]
		m.Link = best
		m.Flags |= FlagCanLink
		if f.Link == NoLink {
			f.Link = mi
			f.Flags |= FlagCanLink
		}
		if cast {
			m.Flags |= FlagNeedsCast
			f.Flags |= FlagNeedsCast
		}
	}
	return missing
}
