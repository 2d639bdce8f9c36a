package blend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/blendkit/internal/format"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	assert.Equal(t, []string{"BLENDER"}, p.Identifiers)
	assert.Equal(t, "Link", p.BlobType)
	assert.Equal(t, 4, p.PointerArraySlot)
	assert.Equal(t, "objects", p.ListName(format.MakeCode("OB")))
	assert.Equal(t, "XY", p.ListName(format.MakeCode("XY")))
}

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(`
identifiers: [BLENDER, BULLETS]
skip_types: [wmWindowManager]
pointer_array_slot: -1
lists:
  OB: things
  XY: extras
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"BLENDER", "BULLETS"}, p.Identifiers)
	assert.Equal(t, "Link", p.BlobType, "unset keys keep their defaults")
	assert.Equal(t, []string{"wmWindowManager"}, p.SkipTypes)
	assert.Equal(t, -1, p.PointerArraySlot)
	assert.Equal(t, "things", p.Lists["OB"])
	assert.Equal(t, "extras", p.Lists["XY"])
	assert.Equal(t, "meshes", p.Lists["ME"], "default lists are merged")

	out, err := p.Marshal()
	require.NoError(t, err)
	again, err := ParseProfile(out)
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestParseProfile_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"slot":       "pointer_array_slot: 3",
		"identifier": "identifiers: [BLEND]",
		"empty ids":  "identifiers: []",
		"syntax":     "identifiers: [",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProfile([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("blob_type: Blob\n"), 0o644))
	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Blob", p.BlobType)

	_, err = LoadProfile(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestParseModeName(t *testing.T) {
	m, ok := ParseModeName("zstd")
	assert.True(t, ok)
	assert.Equal(t, ModeZstd, m)
	_, ok = ParseModeName("lz4")
	assert.False(t, ok)
}
