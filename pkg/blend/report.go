package blend

import "github.com/joshuapare/blendkit/internal/dna"

// StructReport describes how one memory struct linked against the file schema.
type StructReport struct {
	Name       string   `json:"name"`
	Linked     bool     `json:"linked"`
	Misaligned bool     `json:"misaligned,omitempty"`
	Skipped    bool     `json:"skipped,omitempty"`
	Missing    []string `json:"missing,omitempty"` // memory fields left zero
	Cast       []string `json:"cast,omitempty"`    // fields converted between numeric kinds
	Removed    []string `json:"removed,omitempty"` // file fields nothing reads
}

// Clean reports whether the struct linked with no missing, cast or removed fields.
func (r StructReport) Clean() bool {
	return r.Linked && !r.Misaligned && len(r.Missing) == 0 && len(r.Cast) == 0 && len(r.Removed) == 0
}

// LinkReport lists, per memory struct in definition order, the outcome of
// linking mem against file. Both schemas must already be linked.
func LinkReport(mem, file *Schema) []StructReport {
	out := make([]StructReport, 0, len(mem.Structs))
	for i := range mem.Structs {
		ms := &mem.Structs[i]
		r := StructReport{
			Name:       mem.StructName(ms),
			Linked:     ms.Linked(),
			Misaligned: ms.Flags.Has(dna.FlagMisaligned),
			Skipped:    ms.Flags.Has(dna.FlagSkip),
		}
		for j := range ms.Fields {
			fd := &ms.Fields[j]
			switch {
			case fd.Link == dna.NoLink:
				r.Missing = append(r.Missing, mem.FieldPath(ms, fd))
			case fd.Flags.Has(dna.FlagNeedsCast):
				r.Cast = append(r.Cast, mem.FieldPath(ms, fd))
			}
		}
		if ms.Linked() {
			fs := &file.Structs[ms.Link]
			r.Misaligned = r.Misaligned || fs.Flags.Has(dna.FlagMisaligned)
			for j := range fs.Fields {
				if fd := &fs.Fields[j]; fd.Link == dna.NoLink {
					r.Removed = append(r.Removed, file.FieldPath(fs, fd))
				}
			}
		}
		out = append(out, r)
	}
	return out
}

// LinkReport lists the link outcome of every memory struct.
func (f *File) LinkReport() []StructReport { return LinkReport(f.mem, f.file) }
