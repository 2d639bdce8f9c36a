package relink

import (
	"errors"
	"fmt"
)

// Virtual address layout for relinked blocks. Addresses are never zero,
// are 16-byte aligned and stay below 4 GiB so they fit either pointer width.
const (
	heapBase  = 0x10000
	heapAlign = 16
	heapLimit = 1 << 32
)

// ErrAddressSpace indicates the relinked blocks no longer fit the address range.
var ErrAddressSpace = errors.New("relink: address space exhausted")

// heap hands out addresses for relinked blocks. Nothing is ever freed; a
// heap lives for one relink.
type heap struct {
	next uint64
}

func newHeap() *heap { return &heap{next: heapBase} }

func (h *heap) alloc(n int) (uint64, error) {
	size := uint64(max(n, 1))
	size = (size + heapAlign - 1) &^ (heapAlign - 1)
	if h.next+size > heapLimit {
		return 0, fmt.Errorf("%w: %d bytes requested at %#x", ErrAddressSpace, n, h.next)
	}
	addr := h.next
	h.next += size
	return addr, nil
}
