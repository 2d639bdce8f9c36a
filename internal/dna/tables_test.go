package dna

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchema(order binary.ByteOrder) []byte {
	return NewBuilder(8, order).
		Struct("Link", M("Link", "*next"), M("Link", "*prev")).
		Struct("ID", M("void", "*next"), M("char", "name[66]"), M("short", "flag"), M("short", "us")).
		Struct("Object", M("ID", "id"), M("float", "loc[3]"), M("Object", "*parent"), M("int", "lay")).
		MustBytes()
}

func TestRead_Sections(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		tbl, err := Read(sampleSchema(order), ReadOptions{Order: order, PtrSize: 8})
		require.NoError(t, err)

		require.Len(t, tbl.Structs, 3)
		i, ok := tbl.StructIndex("Object")
		require.True(t, ok)
		assert.Equal(t, 2, i)

		ti, ok := tbl.TypeIndex("float")
		require.True(t, ok)
		assert.Equal(t, 4, tbl.Types[ti].Size)
		assert.Equal(t, NoStruct, tbl.Types[ti].Struct)

		obj, ok := tbl.StructByName("Object")
		require.True(t, ok)
		assert.Equal(t, 8+66+2+2+12+8+4, obj.Len)
	}
}

func TestRead_OptionalSDNATag(t *testing.T) {
	raw := sampleSchema(binary.LittleEndian)
	tbl, err := Read(raw[4:], ReadOptions{})
	require.NoError(t, err)
	assert.Len(t, tbl.Structs, 3)
}

func TestRead_Errors(t *testing.T) {
	raw := sampleSchema(binary.LittleEndian)

	bad := append([]byte(nil), raw...)
	copy(bad[4:], "NAMX")
	_, err := Read(bad, ReadOptions{})
	assert.True(t, errors.Is(err, ErrSectionTag), "got %v", err)

	_, err = Read(raw[:40], ReadOptions{})
	assert.True(t, errors.Is(err, ErrTruncated), "got %v", err)

	huge := append([]byte(nil), raw...)
	binary.LittleEndian.PutUint32(huge[8:], MaxNames+1)
	_, err = Read(huge, ReadOptions{})
	assert.True(t, errors.Is(err, ErrTableSize), "got %v", err)

	empty := NewBuilder(8, binary.LittleEndian).MustBytes()
	_, err = Read(empty, ReadOptions{})
	assert.True(t, errors.Is(err, ErrNoStructs), "got %v", err)
}

func TestRead_DuplicateStructKeepsFirst(t *testing.T) {
	raw := NewBuilder(8, binary.LittleEndian).
		Struct("Pair", M("int", "a")).
		Struct("Pair", M("int", "a")).
		MustBytes()
	tbl, err := Read(raw, ReadOptions{})
	require.NoError(t, err)
	require.Len(t, tbl.Structs, 2)

	i, ok := tbl.StructIndex("Pair")
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestMarkSkip(t *testing.T) {
	tbl, err := Read(sampleSchema(binary.LittleEndian), ReadOptions{})
	require.NoError(t, err)
	assert.True(t, tbl.MarkSkip("ID"))
	assert.False(t, tbl.MarkSkip("Nope"))
	s, _ := tbl.StructByName("ID")
	assert.True(t, s.Flags.Has(FlagSkip))
}

func TestTables_EncodeRoundTrip(t *testing.T) {
	raw := sampleSchema(binary.BigEndian)
	tbl, err := Read(raw, ReadOptions{Order: binary.BigEndian})
	require.NoError(t, err)
	assert.Equal(t, raw, tbl.Encode(binary.BigEndian))

	le := tbl.Encode(binary.LittleEndian)
	again, err := Read(le, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, len(tbl.Structs), len(again.Structs))
	obj, ok := again.StructByName("Object")
	require.True(t, ok)
	assert.Equal(t, 102, obj.Len)
}

func TestRead_BlobOrderDiffersFromData(t *testing.T) {
	tbl, err := Read(sampleSchema(binary.BigEndian), ReadOptions{Order: binary.LittleEndian, BlobOrder: binary.BigEndian})
	require.NoError(t, err)
	assert.Equal(t, binary.LittleEndian, tbl.Order)
	_, ok := tbl.StructByName("Object")
	assert.True(t, ok)
}
