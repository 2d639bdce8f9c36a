package container

const insertionSortMax = 12

// Array is an index-addressable growable sequence.
type Array[T any] struct {
	data []T
}

// NewArray returns an array with room for capacity elements.
func NewArray[T any](capacity int) *Array[T] {
	return &Array[T]{data: make([]T, 0, capacity)}
}

func (a *Array[T]) Len() int { return len(a.data) }
func (a *Array[T]) Cap() int { return cap(a.data) }

// At returns element i. Out-of-range indices panic like slice indexing.
func (a *Array[T]) At(i int) T { return a.data[i] }

// Ref returns a pointer to element i, valid until the next growth.
func (a *Array[T]) Ref(i int) *T { return &a.data[i] }

func (a *Array[T]) Set(i int, v T) { a.data[i] = v }

// Push appends v, doubling the backing storage when full.
func (a *Array[T]) Push(v T) {
	a.data = append(a.data, v)
}

// Pop removes and returns the last element.
func (a *Array[T]) Pop() (T, bool) {
	var zero T
	n := len(a.data)
	if n == 0 {
		return zero, false
	}
	v := a.data[n-1]
	a.data[n-1] = zero
	a.data = a.data[:n-1]
	return v, true
}

// Last returns the last element without removing it.
func (a *Array[T]) Last() (T, bool) {
	if len(a.data) == 0 {
		var zero T
		return zero, false
	}
	return a.data[len(a.data)-1], true
}

// Resize sets the length to n, zero-filling new elements.
func (a *Array[T]) Resize(n int) {
	var zero T
	a.ResizeFill(n, zero)
}

// ResizeFill sets the length to n, filling new elements with v.
func (a *Array[T]) ResizeFill(n int, v T) {
	if n <= len(a.data) {
		clear(a.data[n:])
		a.data = a.data[:n]
		return
	}
	a.Reserve(n)
	old := len(a.data)
	a.data = a.data[:n]
	for i := old; i < n; i++ {
		a.data[i] = v
	}
}

// Reserve grows the backing storage to hold n elements. It never shrinks.
func (a *Array[T]) Reserve(n int) {
	if n <= cap(a.data) {
		return
	}
	c := max(cap(a.data)*2, n)
	grown := make([]T, len(a.data), c)
	copy(grown, a.data)
	a.data = grown
}

// EraseAt removes element i by moving the last element into its place.
func (a *Array[T]) EraseAt(i int) {
	last := len(a.data) - 1
	a.data[i] = a.data[last]
	var zero T
	a.data[last] = zero
	a.data = a.data[:last]
}

// Erase removes the first element equal to v. It reports whether one was found.
func (a *Array[T]) Erase(v T, eq func(a, b T) bool) bool {
	i := a.Search(func(e T) bool { return eq(e, v) })
	if i == NotFound {
		return false
	}
	a.EraseAt(i)
	return true
}

// Clear resets the length to zero and keeps the backing storage for reuse.
func (a *Array[T]) Clear() {
	clear(a.data)
	a.data = a.data[:0]
}

// Slice exposes the live elements. The slice aliases the array storage.
func (a *Array[T]) Slice() []T { return a.data }

// Search returns the index of the first element matching pred, or NotFound.
func (a *Array[T]) Search(pred func(T) bool) int {
	for i, e := range a.data {
		if pred(e) {
			return i
		}
	}
	return NotFound
}

// Sort orders the array in place using less.
func (a *Array[T]) Sort(less func(a, b T) bool) {
	quicksort(a.data, less)
}

// Iter returns a cursor positioned at the first element.
func (a *Array[T]) Iter() Iterator[T] {
	return Iterator[T]{data: a.data}
}

// Iterator walks a snapshot of an array's elements.
type Iterator[T any] struct {
	data []T
	pos  int
}

func (it *Iterator[T]) HasNext() bool { return it.pos < len(it.data) }

// Peek returns the current element without advancing.
func (it *Iterator[T]) Peek() T { return it.data[it.pos] }

// Next returns the current element and advances.
func (it *Iterator[T]) Next() T {
	v := it.data[it.pos]
	it.pos++
	return v
}

// quicksort is a median-of-three Hoare quicksort that recurses into the
// smaller partition and loops on the larger, keeping stack depth logarithmic.
func quicksort[T any](s []T, less func(a, b T) bool) {
	for len(s) > insertionSortMax {
		lo, hi, mid := 0, len(s)-1, len(s)/2
		if less(s[mid], s[lo]) {
			s[mid], s[lo] = s[lo], s[mid]
		}
		if less(s[hi], s[lo]) {
			s[hi], s[lo] = s[lo], s[hi]
		}
		if less(s[hi], s[mid]) {
			s[hi], s[mid] = s[mid], s[hi]
		}
		pivot := s[mid]
		i, j := lo-1, hi+1
		for {
			for {
				i++
				if !less(s[i], pivot) {
					break
				}
			}
			for {
				j--
				if !less(pivot, s[j]) {
					break
				}
			}
			if i >= j {
				break
			}
			s[i], s[j] = s[j], s[i]
		}
		left, right := s[:j+1], s[j+1:]
		if len(left) < len(right) {
			quicksort(left, less)
			s = right
		} else {
			quicksort(right, less)
			s = left
		}
	}
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(s[j], s[j-1]); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
