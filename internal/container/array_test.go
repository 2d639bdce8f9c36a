package container

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArray_PushPop(t *testing.T) {
	a := NewArray[int](0)
	for i := 0; i < 10; i++ {
		a.Push(i)
	}
	require.Equal(t, 10, a.Len())
	v, ok := a.Pop()
	require.True(t, ok)
	assert.Equal(t, 9, v)

	last, ok := a.Last()
	require.True(t, ok)
	assert.Equal(t, 8, last)

	a.Clear()
	_, ok = a.Pop()
	assert.False(t, ok)
	assert.GreaterOrEqual(t, a.Cap(), 10, "Clear keeps capacity")
}

func TestArray_ResizeReserve(t *testing.T) {
	a := NewArray[byte](2)
	a.ResizeFill(4, 0xAA)
	assert.Equal(t, []byte{0xAA, 0xAA, 0xAA, 0xAA}, a.Slice())

	a.Resize(6)
	assert.Equal(t, []byte{0xAA, 0xAA, 0xAA, 0xAA, 0, 0}, a.Slice())

	a.Resize(1)
	assert.Equal(t, 1, a.Len())

	c := a.Cap()
	a.Reserve(1)
	assert.Equal(t, c, a.Cap(), "Reserve never shrinks")
	a.Reserve(100)
	assert.GreaterOrEqual(t, a.Cap(), 100)
}

func TestArray_Erase(t *testing.T) {
	a := NewArray[string](4)
	for _, s := range []string{"a", "b", "c", "d"} {
		a.Push(s)
	}
	eq := func(x, y string) bool { return x == y }

	require.True(t, a.Erase("b", eq))
	assert.Equal(t, []string{"a", "d", "c"}, a.Slice())
	assert.False(t, a.Erase("zz", eq))

	a.EraseAt(0)
	assert.Equal(t, []string{"c", "d"}, a.Slice())
}

func TestArray_Sort(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{0, 1, 2, 5, 13, 64, 1000} {
		a := NewArray[int](n)
		want := make([]int, n)
		for i := 0; i < n; i++ {
			v := rng.Intn(50)
			a.Push(v)
			want[i] = v
		}
		sort.Ints(want)
		a.Sort(func(x, y int) bool { return x < y })
		require.Equal(t, want, append([]int{}, a.Slice()...), "n=%d", n)
	}
}

func TestArray_Iterator(t *testing.T) {
	a := NewArray[int](3)
	a.Push(1)
	a.Push(2)
	a.Push(3)

	it := a.Iter()
	var got []int
	for it.HasNext() {
		if it.Peek() == 2 {
			it.Next()
			continue
		}
		got = append(got, it.Next())
	}
	assert.Equal(t, []int{1, 3}, got)
	assert.Equal(t, 2, a.Search(func(v int) bool { return v == 3 }))
	assert.Equal(t, NotFound, a.Search(func(v int) bool { return v == 7 }))
}
