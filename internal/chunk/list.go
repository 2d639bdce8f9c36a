// Package chunk reads the chunk sequence of a container into a list of
// blocks indexed by the producer's old addresses.
package chunk

import (
	"errors"
	"sort"

	"github.com/joshuapare/blendkit/internal/container"
	"github.com/joshuapare/blendkit/internal/format"
)

// NoStruct marks a block without a memory-schema struct.
const NoStruct = -1

var (
	// ErrDuplicate indicates a block with the same old address is already listed.
	ErrDuplicate = errors.New("chunk: duplicate old address")
	// ErrConflict indicates two chunks share an old address but not their payload.
	ErrConflict = errors.New("chunk: conflicting duplicate chunk")
)

// Block is one decoded chunk. Raw holds the payload as the file laid it out;
// Data holds the relinked copy in the memory layout.
type Block struct {
	format.Chunk
	Offset   int64  // file offset of the chunk header
	Raw      []byte // nil after Release
	Data     []byte // nil until relinked, or when the block was dropped
	Addr     uint64 // address assigned to Data by the relinker
	Struct   int    // memory-schema struct index, or NoStruct
	Modified bool   // Data holds a translated pointer array
}

// Relinked reports whether the block received a memory-layout buffer.
func (b *Block) Relinked() bool { return b.Data != nil }

// List holds the blocks of one file in stream order.
type List struct {
	Header       format.Header
	Schema       []byte // DNA1 payload
	SchemaOffset int64

	blocks *container.Array[*Block]
	index  *container.Table[uint64, *Block]
	byAddr []*Block
}

// NewList returns an empty list for a file with header h.
func NewList(h format.Header) *List {
	return &List{
		Header: h,
		blocks: container.NewArray[*Block](64),
		index:  container.NewTable[uint64, *Block](container.Uint64Hash, 64),
	}
}

// Add appends b. Blocks with a zero old address are listed but not indexed,
// since no pointer can refer to them.
func (l *List) Add(b *Block) error {
	if b.Old != 0 && !l.index.Insert(b.Old, b) {
		return ErrDuplicate
	}
	l.blocks.Push(b)
	l.byAddr = nil
	return nil
}

func (l *List) Len() int         { return l.blocks.Len() }
func (l *List) At(i int) *Block  { return l.blocks.At(i) }
func (l *List) Blocks() []*Block { return l.blocks.Slice() }

// Lookup finds the block the producer stored at old.
func (l *List) Lookup(old uint64) (*Block, bool) {
	if old == 0 {
		return nil, false
	}
	return l.index.Get(old)
}

// Reindex drops the address view so that the next Resolve rebuilds it.
// Call it after block addresses change.
func (l *List) Reindex() { l.byAddr = nil }

// Resolve maps a relinked address back to the block containing it and the
// byte offset within that block's Data.
func (l *List) Resolve(addr uint64) (*Block, int, bool) {
	if addr == 0 {
		return nil, 0, false
	}
	if l.byAddr == nil {
		view := container.NewArray[*Block](l.blocks.Len())
		for it := l.blocks.Iter(); it.HasNext(); {
			if b := it.Next(); b.Relinked() {
				view.Push(b)
			}
		}
		view.Sort(func(a, b *Block) bool { return a.Addr < b.Addr })
		l.byAddr = view.Slice()
	}
	i := sort.Search(len(l.byAddr), func(i int) bool { return l.byAddr[i].Addr > addr }) - 1
	if i < 0 {
		return nil, 0, false
	}
	b := l.byAddr[i]
	off := addr - b.Addr
	if off >= uint64(len(b.Data)) {
		return nil, 0, false
	}
	return b, int(off), true
}

// Release frees every file-shaped payload. Relinked data is kept.
func (l *List) Release() {
	for it := l.blocks.Iter(); it.HasNext(); {
		it.Next().Raw = nil
	}
}
