package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/blendkit/internal/format"
)

func TestList_AddLookup(t *testing.T) {
	l := NewList(format.Header{PtrSize: 8})
	a := &Block{Chunk: format.Chunk{Old: 0x10}}
	require.NoError(t, l.Add(a))
	assert.ErrorIs(t, l.Add(&Block{Chunk: format.Chunk{Old: 0x10}}), ErrDuplicate)

	got, ok := l.Lookup(0x10)
	require.True(t, ok)
	assert.Same(t, a, got)
	assert.Equal(t, 1, l.Len())
}

func TestList_Resolve(t *testing.T) {
	l := NewList(format.Header{PtrSize: 8})
	a := &Block{Chunk: format.Chunk{Old: 1}, Data: make([]byte, 32), Addr: 0x20000}
	b := &Block{Chunk: format.Chunk{Old: 2}, Data: make([]byte, 16), Addr: 0x10000}
	dropped := &Block{Chunk: format.Chunk{Old: 3}}
	for _, blk := range []*Block{a, b, dropped} {
		require.NoError(t, l.Add(blk))
	}

	got, off, ok := l.Resolve(0x20008)
	require.True(t, ok)
	assert.Same(t, a, got)
	assert.Equal(t, 8, off)

	got, off, ok = l.Resolve(0x10000)
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Zero(t, off)

	_, _, ok = l.Resolve(0x10010)
	assert.False(t, ok, "one past the end of a block")
	_, _, ok = l.Resolve(0x100)
	assert.False(t, ok)
	_, _, ok = l.Resolve(0)
	assert.False(t, ok)

	b.Addr = 0x30000
	l.Reindex()
	got, _, ok = l.Resolve(0x30004)
	require.True(t, ok)
	assert.Same(t, b, got)
}

func TestList_Release(t *testing.T) {
	l := NewList(format.Header{PtrSize: 8})
	require.NoError(t, l.Add(&Block{Chunk: format.Chunk{Old: 1}, Raw: []byte{1}, Data: []byte{2}}))
	l.Release()
	assert.Nil(t, l.At(0).Raw)
	assert.Equal(t, []byte{2}, l.At(0).Data)
}
