package dna

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/blendkit/pkg/types"
)

func TestCompile_FlattensEmbeddedStructs(t *testing.T) {
	tbl, err := Read(sampleSchema(binary.LittleEndian), ReadOptions{})
	require.NoError(t, err)

	obj, ok := tbl.StructByName("Object")
	require.True(t, ok)
	assert.False(t, obj.Flags.Has(FlagMisaligned))

	// ID's four members are inlined, followed by Object's own three.
	require.Len(t, obj.Fields, 7)

	name := obj.Fields[1]
	assert.Equal(t, "name[66]", tbl.FieldName(&name))
	assert.Equal(t, 8, name.Offset)
	assert.Equal(t, 66, name.Len)
	assert.Equal(t, 2, name.Depth)
	require.Len(t, name.Chain, 1)
	assert.Equal(t, tbl.Names[tbl.Defs[2].Members[0].Name].BaseHash, name.Chain[0].NameHash)
	assert.Equal(t, "id.name[66]", tbl.FieldPath(obj, &name))

	loc := obj.Fields[4]
	assert.Equal(t, 78, loc.Offset)
	assert.Equal(t, 1, loc.Depth)
	assert.Empty(t, loc.Chain)
	assert.Equal(t, 3, loc.ArrayLen)
	assert.Equal(t, 4, loc.ElemLen())

	parent := obj.Fields[5]
	assert.Equal(t, 1, parent.Ptr)
	assert.Equal(t, 8, parent.Len)

	i, ok := obj.FieldByPath("id.name")
	require.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = obj.FieldByPath("name")
	assert.False(t, ok)
}

func TestCompile_ArrayOfStructs(t *testing.T) {
	raw := NewBuilder(4, binary.LittleEndian).
		Struct("Vert", M("float", "co[3]"), M("short", "flag")).
		Struct("Tri", M("Vert", "v[3]"), M("int", "mat")).
		MustBytes()
	tbl, err := Read(raw, ReadOptions{PtrSize: 4})
	require.NoError(t, err)

	tri, _ := tbl.StructByName("Tri")
	require.Len(t, tri.Fields, 7)
	for r := 0; r < 3; r++ {
		co := tri.Fields[r*2]
		assert.Equal(t, r*14, co.Offset)
		assert.Equal(t, r, co.ArrayIndex)
		assert.Equal(t, r, co.Chain[0].Index)
	}
	assert.Equal(t, 42, tri.Fields[6].Offset)
	assert.Equal(t, 46, tri.Len)
}

func TestCompile_MisalignedIsNonFatal(t *testing.T) {
	raw := NewBuilder(8, binary.LittleEndian).
		StructSized("Padded", 16, M("int", "a"), M("int", "b")).
		Struct("Fine", M("double", "x")).
		MustBytes()

	c := types.NewCollector("")
	tbl, err := Read(raw, ReadOptions{Sink: c})
	require.NoError(t, err)

	padded, _ := tbl.StructByName("Padded")
	assert.True(t, padded.Flags.Has(FlagMisaligned))
	require.Len(t, padded.Fields, 2)

	fine, _ := tbl.StructByName("Fine")
	assert.False(t, fine.Flags.Has(FlagMisaligned))

	diags := c.ByStage(types.StageCompile)
	require.Len(t, diags, 1)
	assert.Equal(t, "Padded", diags[0].Struct)
	assert.Equal(t, types.SevWarning, diags[0].Severity)
}

func TestCompile_PointerWidthFollowsSchema(t *testing.T) {
	b := NewBuilder(4, binary.LittleEndian).Struct("Node", M("Node", "*next"), M("int", "v"))
	tbl, err := Read(b.MustBytes(), ReadOptions{PtrSize: 4})
	require.NoError(t, err)
	node, _ := tbl.StructByName("Node")
	assert.Equal(t, 4, node.Fields[0].Len)
	assert.Equal(t, 4, node.Fields[1].Offset)
}

func TestCompile_RescalesToReaderPointerWidth(t *testing.T) {
	raw := NewBuilder(4, binary.LittleEndian).
		Struct("ID", M("void", "*next"), M("char", "name[8]")).
		Struct("Obj", M("ID", "id"), M("Obj", "*parent"), M("int", "v"), M("Obj", "*kids[2]")).
		StructSized("Padded", 12, M("void", "*p"), M("int", "a")).
		MustBytes()

	c := types.NewCollector("")
	tbl, err := Read(raw, ReadOptions{PtrSize: 8, BlobPtrSize: 4, Sink: c})
	require.NoError(t, err)

	id, _ := tbl.StructByName("ID")
	assert.Equal(t, 16, id.Len)
	obj, _ := tbl.StructByName("Obj")
	assert.Equal(t, 44, obj.Len)
	assert.False(t, obj.Flags.Has(FlagMisaligned))
	v, ok := obj.FieldByPath("v")
	require.True(t, ok)
	assert.Equal(t, 24, obj.Fields[v].Offset)
	kids, ok := obj.FieldByPath("kids")
	require.True(t, ok)
	assert.Equal(t, 16, obj.Fields[kids].Len)

	// padding past the members survives the rescale and is still reported
	padded, _ := tbl.StructByName("Padded")
	assert.Equal(t, 16, padded.Len)
	assert.True(t, padded.Flags.Has(FlagMisaligned))
	diags := c.ByStage(types.StageCompile)
	require.Len(t, diags, 1)
	assert.Equal(t, "Padded", diags[0].Struct)

	ti, ok := tbl.TypeIndex("Obj")
	require.True(t, ok)
	assert.Equal(t, 44, tbl.Types[ti].Size)

	again, err := Read(tbl.Encode(binary.LittleEndian), ReadOptions{PtrSize: 8})
	require.NoError(t, err)
	obj2, _ := again.StructByName("Obj")
	assert.Equal(t, 44, obj2.Len)
	assert.False(t, obj2.Flags.Has(FlagMisaligned))
}
