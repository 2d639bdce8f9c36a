package container

// NotFound is returned by Find when a key is absent.
const NotFound = -1

const minTableCap = 8

// Table maps keys to values. Entries are stored densely in insertion order
// (until a Remove swaps the last entry into the hole), and each bucket heads
// a chain threaded through the entries. Indices returned by Find stay valid
// until the next Remove.
type Table[K comparable, V any] struct {
	hash    Hasher[K]
	keys    []K
	vals    []V
	hashes  []uint32
	next    []int32
	buckets []int32

	// one-entry lookup cache
	lastHash uint32
	lastSlot int
}

// NewTable creates a table sized for at least capacity entries.
func NewTable[K comparable, V any](hash Hasher[K], capacity int) *Table[K, V] {
	t := &Table[K, V]{hash: hash, lastSlot: NotFound}
	t.rehash(nextPow2(max(capacity, minTableCap)))
	return t
}

// Len returns the number of live entries.
func (t *Table[K, V]) Len() int { return len(t.keys) }

// Cap returns the number of buckets.
func (t *Table[K, V]) Cap() int { return len(t.buckets) }

// Insert adds k -> v. It returns false, leaving the table unchanged, when k
// is already present.
func (t *Table[K, V]) Insert(k K, v V) bool {
	h := t.hash(k)
	if t.find(k, h) != NotFound {
		return false
	}
	if len(t.keys) >= len(t.buckets) {
		t.rehash(nextPow2(len(t.buckets) * 2))
	}
	i := len(t.keys)
	t.keys = append(t.keys, k)
	t.vals = append(t.vals, v)
	t.hashes = append(t.hashes, h)
	t.next = append(t.next, -1)
	t.link(i)
	return true
}

// Find returns the entry index of k, or NotFound.
func (t *Table[K, V]) Find(k K) int {
	return t.find(k, t.hash(k))
}

// Get returns the value stored for k.
func (t *Table[K, V]) Get(k K) (V, bool) {
	if i := t.Find(k); i != NotFound {
		return t.vals[i], true
	}
	var zero V
	return zero, false
}

// At returns the entry at index i (0 <= i < Len()).
func (t *Table[K, V]) At(i int) (K, V) {
	return t.keys[i], t.vals[i]
}

// Remove deletes k, moving the last entry into its slot.
func (t *Table[K, V]) Remove(k K) bool {
	i := t.Find(k)
	if i == NotFound {
		return false
	}
	t.lastSlot = NotFound
	last := len(t.keys) - 1
	t.unlink(i)
	if i != last {
		t.unlink(last)
		t.keys[i] = t.keys[last]
		t.vals[i] = t.vals[last]
		t.hashes[i] = t.hashes[last]
		t.link(i)
	}
	var zk K
	var zv V
	t.keys[last], t.vals[last] = zk, zv
	t.keys = t.keys[:last]
	t.vals = t.vals[:last]
	t.hashes = t.hashes[:last]
	t.next = t.next[:last]
	return true
}

// Clear drops every entry but keeps the allocated storage.
func (t *Table[K, V]) Clear() {
	clear(t.keys)
	clear(t.vals)
	t.keys = t.keys[:0]
	t.vals = t.vals[:0]
	t.hashes = t.hashes[:0]
	t.next = t.next[:0]
	for i := range t.buckets {
		t.buckets[i] = -1
	}
	t.lastSlot = NotFound
}

func (t *Table[K, V]) find(k K, h uint32) int {
	if t.lastSlot != NotFound && t.lastHash == h && t.lastSlot < len(t.keys) && t.keys[t.lastSlot] == k {
		return t.lastSlot
	}
	for i := t.buckets[h&uint32(len(t.buckets)-1)]; i != -1; i = t.next[i] {
		if t.hashes[i] == h && t.keys[i] == k {
			t.lastHash, t.lastSlot = h, int(i)
			return int(i)
		}
	}
	return NotFound
}

func (t *Table[K, V]) link(i int) {
	b := t.hashes[i] & uint32(len(t.buckets)-1)
	t.next[i] = t.buckets[b]
	t.buckets[b] = int32(i)
}

func (t *Table[K, V]) unlink(i int) {
	b := t.hashes[i] & uint32(len(t.buckets)-1)
	if t.buckets[b] == int32(i) {
		t.buckets[b] = t.next[i]
		return
	}
	for j := t.buckets[b]; j != -1; j = t.next[j] {
		if t.next[j] == int32(i) {
			t.next[j] = t.next[i]
			return
		}
	}
}

func (t *Table[K, V]) rehash(n int) {
	t.buckets = make([]int32, n)
	for i := range t.buckets {
		t.buckets[i] = -1
	}
	for i := range t.keys {
		t.link(i)
	}
	t.lastSlot = NotFound
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
