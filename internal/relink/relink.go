// Package relink copies decoded blocks from the layout a file was written
// with into the layout the reading program expects, translating every
// stored pointer into the address of the relinked target block.
package relink

import (
	"fmt"

	"github.com/joshuapare/blendkit/internal/buf"
	"github.com/joshuapare/blendkit/internal/chunk"
	"github.com/joshuapare/blendkit/internal/dna"
	"github.com/joshuapare/blendkit/internal/format"
	"github.com/joshuapare/blendkit/pkg/types"
)

const (
	// DefaultBlobType names the struct whose blocks are copied verbatim.
	DefaultBlobType = "Link"
	// DefaultPointerArraySlot is the stored width of one pointer-array entry.
	DefaultPointerArraySlot = 4
	// SlotFilePointer makes pointer-array entries as wide as the file's pointers.
	SlotFilePointer = -1
	// DefaultMaxBlockSize bounds one destination allocation.
	DefaultMaxBlockSize = 1 << 30
)

// Options control Relink.
type Options struct {
	BlobType         string   // default DefaultBlobType
	SkipTypes        []string // memory struct names whose blocks are dropped
	PointerArraySlot int      // 0 means DefaultPointerArraySlot
	MaxBlockSize     int      // 0 means DefaultMaxBlockSize
	// OnBlock is called once per relinked block after its fields are copied.
	// s is nil for blob blocks and translated pointer arrays.
	OnBlock func(b *chunk.Block, s *dna.Struct)
	Sink    types.Sink
}

// Stats count what happened to the blocks of one relink.
type Stats struct {
	Relinked   int `json:"relinked"`
	Blobs      int `json:"blobs"`
	Dropped    int `json:"dropped"`
	Skipped    int `json:"skipped"`
	Dangling   int `json:"dangling"`    // non-zero pointers with no target block
	PtrArrays  int `json:"ptr_arrays"`  // blocks translated as pointer arrays
	ShortReads int `json:"short_reads"` // blocks whose payload held fewer elements than declared
}

type relinker struct {
	mem, file *dna.Tables
	list      *chunk.List
	opts      Options
	heap      *heap
	stats     Stats
	swap      bool
	slot      int
	blobType  uint32
}

// Relink fills Data and Addr of every block in list whose file struct links
// into mem. The list must have been scanned with old addresses normalized to
// mem's pointer width. On return the file-shaped payloads are released.
//
// Only allocation failures are fatal; fields without a counterpart stay
// zero and unresolved pointers are written as zero.
func Relink(mem, file *dna.Tables, list *chunk.List, opts Options) (Stats, error) {
	if mem == nil || file == nil || list == nil {
		return Stats{}, types.Errorf(types.StatusLinkFailed, "relink", dna.ErrNotCompiled)
	}
	if opts.BlobType == "" {
		opts.BlobType = DefaultBlobType
	}
	if opts.PointerArraySlot == 0 {
		opts.PointerArraySlot = DefaultPointerArraySlot
	}
	if opts.MaxBlockSize == 0 {
		opts.MaxBlockSize = DefaultMaxBlockSize
	}
	if opts.Sink == nil {
		opts.Sink = types.Discard
	}
	r := &relinker{
		mem:  mem,
		file: file,
		list: list,
		opts: opts,
		heap: newHeap(),
		swap: !buf.SameOrder(mem.Order, file.Order),
		slot: opts.PointerArraySlot,
	}
	if r.slot == SlotFilePointer {
		r.slot = file.PtrSize
	}
	for _, name := range opts.SkipTypes {
		mem.MarkSkip(name)
	}

	if err := r.allocate(); err != nil {
		return r.stats, err
	}
	for _, b := range list.Blocks() {
		if b.Data == nil {
			continue
		}
		r.copyBlock(b)
	}
	list.Release()
	list.Reindex()
	return r.stats, nil
}

// allocate gives every usable block a zeroed destination and an address.
func (r *relinker) allocate() error {
	for _, b := range r.list.Blocks() {
		if int(b.SDNA) >= len(r.file.Structs) {
			r.stats.Dropped++
			r.report(types.SevInfo, "", b, fmt.Sprintf("chunk %s: struct index %d out of range", b.Code, b.SDNA))
			continue
		}
		fs := &r.file.Structs[b.SDNA]
		name := r.file.StructName(fs)
		if fs.Linked() {
			b.Struct = fs.Link
		}

		if name == r.opts.BlobType {
			// reserve room for the block's pointer array form, should a
			// pointer-to-pointer field reference it later
			reserve := max(len(b.Raw), len(b.Raw)/r.slot*r.mem.PtrSize)
			if err := r.place(b, len(b.Raw), reserve); err != nil {
				return err
			}
			copy(b.Data, b.Raw)
			r.stats.Blobs++
			continue
		}
		if !fs.Linked() {
			r.stats.Dropped++
			r.report(types.SevInfo, name, b, "struct not present in memory schema; block dropped")
			continue
		}
		if r.mem.Structs[fs.Link].Flags.Has(dna.FlagSkip) {
			r.stats.Skipped++
			continue
		}
		size, ok := buf.MulOverflowSafe(r.mem.Structs[fs.Link].Len, int(b.Count))
		if !ok {
			return r.fail(name, b, fmt.Sprintf("destination of %d x %d bytes overflows", b.Count, r.mem.Structs[fs.Link].Len))
		}
		if err := r.place(b, size, size); err != nil {
			return err
		}
	}
	return nil
}

// place gives b a destination of size bytes at an address reserving
// reserve bytes. The reservation is kept as the capacity of b.Data.
func (r *relinker) place(b *chunk.Block, size, reserve int) error {
	if reserve > r.opts.MaxBlockSize {
		return r.fail("", b, fmt.Sprintf("destination of %d bytes exceeds limit %d", reserve, r.opts.MaxBlockSize))
	}
	addr, err := r.heap.alloc(reserve)
	if err != nil {
		r.report(types.SevError, "", b, err.Error())
		return types.Errorf(types.StatusBadAlloc, "relink", err)
	}
	b.Data, b.Addr = make([]byte, size, reserve), addr
	return nil
}

// copyBlock runs the field copy for every repeat of b and notifies OnBlock.
func (r *relinker) copyBlock(b *chunk.Block) {
	if b.Modified {
		// already translated as another block's pointer array
		r.notify(b, nil)
		return
	}
	fs := &r.file.Structs[b.SDNA]
	if r.file.StructName(fs) == r.opts.BlobType {
		r.notify(b, nil)
		return
	}
	ms := &r.mem.Structs[fs.Link]
	for i := 0; i < int(b.Count); i++ {
		src, ok := buf.Slice(b.Raw, i*fs.Len, fs.Len)
		if !ok {
			r.stats.ShortReads++
			r.report(types.SevWarning, r.mem.StructName(ms), b,
				fmt.Sprintf("payload of %d bytes holds %d of %d elements", len(b.Raw), i, b.Count))
			break
		}
		dst := b.Data[i*ms.Len : (i+1)*ms.Len]
		for mi := range ms.Fields {
			m := &ms.Fields[mi]
			if m.Link == dna.NoLink {
				continue
			}
			f := &fs.Fields[m.Link]
			if !buf.Has(src, f.Offset, f.Len) || !buf.Has(dst, m.Offset, m.Len) {
				continue
			}
			if m.Ptr > 0 {
				if !m.FuncPtr {
					r.copyPointers(b, dst, m, src, f)
				}
				continue
			}
			r.copyValues(dst, m, src, f)
		}
	}
	r.stats.Relinked++
	r.notify(b, ms)
}

func (r *relinker) notify(b *chunk.Block, s *dna.Struct) {
	if r.opts.OnBlock != nil {
		r.opts.OnBlock(b, s)
	}
}

// copyValues copies one non-pointer field.
func (r *relinker) copyValues(dst []byte, m *dna.Field, src []byte, f *dna.Field) {
	fk, mk := f.Kind(), m.Kind()
	cast := m.Flags.Has(dna.FlagNeedsCast) || f.TypeHash != m.TypeHash
	swap := r.swap && fk.Width() > 1
	if !cast && !swap {
		copy(dst[m.Offset:m.Offset+m.Len], src[f.Offset:f.Offset+min(f.Len, m.Len)])
		return
	}

	se, de := f.ElemLen(), m.ElemLen()
	var tmp [8]byte
	for e := 0; e < min(f.ArrayLen, m.ArrayLen); e++ {
		s := src[f.Offset+e*se : f.Offset+(e+1)*se]
		d := dst[m.Offset+e*de : m.Offset+(e+1)*de]
		if cast && Convert(d, mk, r.mem.Order, s, fk, r.file.Order) {
			continue
		}
		if swap && se <= len(tmp) {
			t := tmp[:se]
			copy(t, s)
			buf.Swap(t, fk.Width())
			s = t
		}
		copy(d, s)
	}
}

// copyPointers translates the pointer (or array of pointers) in f into m.
func (r *relinker) copyPointers(b *chunk.Block, dst []byte, m *dna.Field, src []byte, f *dna.Field) {
	fw, mw := r.file.PtrSize, r.mem.PtrSize
	for e := 0; e < min(f.ArrayLen, m.ArrayLen); e++ {
		old := r.loadAddr(src[f.Offset+e*fw:], fw)
		if old == 0 {
			continue
		}
		target, ok := r.list.Lookup(old)
		if !ok {
			r.stats.Dangling++
			r.report(types.SevInfo, r.mem.StructName(&r.mem.Structs[b.Struct]), b,
				fmt.Sprintf("pointer %s to %#x has no target block", r.mem.FieldName(m), old))
			continue
		}
		if m.Ptr > 1 && !target.Modified {
			if err := r.translateArray(target); err != nil {
				r.report(types.SevWarning, "", target, err.Error())
				continue
			}
		}
		if target.Data == nil {
			r.stats.Dangling++
			continue
		}
		buf.PutUint(dst[m.Offset+e*mw:], mw, target.Addr, r.mem.Order)
	}
}

// translateArray rewrites target as an array of relinked addresses. Its raw
// payload holds old addresses in slots of r.slot bytes.
func (r *relinker) translateArray(target *chunk.Block) error {
	mw := r.mem.PtrSize
	n := len(target.Raw) / r.slot
	out := make([]byte, n*mw)
	if n*mw > r.opts.MaxBlockSize {
		return fmt.Errorf("pointer array of %d entries exceeds limit", n)
	}
	for i := 0; i < n; i++ {
		old := r.loadAddr(target.Raw[i*r.slot:], r.slot)
		if old == 0 {
			continue
		}
		t, ok := r.list.Lookup(old)
		if !ok || t.Data == nil {
			r.stats.Dangling++
			continue
		}
		buf.PutUint(out[i*mw:], mw, t.Addr, r.mem.Order)
	}
	if target.Data == nil || len(out) > cap(target.Data) {
		// the array outgrew its reservation and moves
		addr, err := r.heap.alloc(len(out))
		if err != nil {
			return err
		}
		target.Addr = addr
	}
	target.Data = out
	target.Modified = true
	r.stats.PtrArrays++
	return nil
}

// loadAddr reads a stored address of width w and normalizes it the way the
// chunk index normalized old addresses.
func (r *relinker) loadAddr(b []byte, w int) uint64 {
	v := buf.Uint(b, w, r.file.Order)
	if w == 8 && r.mem.PtrSize == 4 {
		return format.NarrowAddress(v)
	}
	return v
}

func (r *relinker) report(sev types.Severity, structName string, b *chunk.Block, msg string) {
	r.opts.Sink.Report(types.Diagnostic{Severity: sev, Stage: types.StageRelink, Struct: structName, Offset: b.Offset, Message: msg})
}

func (r *relinker) fail(structName string, b *chunk.Block, msg string) error {
	r.report(types.SevError, structName, b, msg)
	return types.Errorf(types.StatusBadAlloc, msg, nil)
}
